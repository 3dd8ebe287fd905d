package reports

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ExportPDF renders the report as an A4 document: centered title, summary
// box and a striped detail table with page-numbered footers.
func ExportPDF(r *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Halaman %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Laporan Parkir", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, r.Summary.PeriodLabel, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Dibuat "+r.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSummaryBox(pdf, r)
	pdf.Ln(6)
	writeDetailTable(pdf, r)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func writeSummaryBox(pdf *fpdf.Fpdf, r *Report) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Ringkasan", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	row := func(label, value string) {
		pdf.CellFormat(95, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, value, "1", 1, "R", false, 0, "")
	}
	row("Total Pendapatan", FormatIDR(r.Summary.TotalRevenue))
	row("Total Transaksi", fmt.Sprintf("%d", r.Summary.TotalTransactions))
	row("Rata-rata per Transaksi", FormatIDR(r.Summary.AverageAmount))
	for _, share := range r.Distribution {
		row(share.Label, fmt.Sprintf("%d", share.Count))
	}
}

func writeDetailTable(pdf *fpdf.Fpdf, r *Report) {
	widths := []float64{10, 32, 20, 32, 30, 30, 16, 20}
	headers := []string{"No.", "Plat", "Jenis", "Area", "Masuk", "Keluar", "Jam", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, tx := range r.Rows {
		area := ""
		if tx.Area != nil {
			area = tx.Area.Name
		}
		exit := ""
		if tx.ExitTime != nil {
			exit = tx.ExitTime.Format("02/01/06 15:04")
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			tx.PlateNumber,
			tx.VehicleType.Label(),
			area,
			tx.EntryTime.Format("02/01/06 15:04"),
			exit,
			fmt.Sprintf("%d", durationHours(tx)),
			FormatIDR(tx.Amount),
		}
		fill := i%2 == 1
		for j, c := range cells {
			align := "L"
			if j == 0 || j == 6 {
				align = "C"
			}
			if j == 7 {
				align = "R"
			}
			pdf.CellFormat(widths[j], 6, c, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}
