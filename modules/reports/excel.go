package reports

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Ringkasan"
	sheetDetail  = "Transaksi"
)

// ExportExcel renders the report as an xlsx workbook with a summary sheet
// and a detail sheet.
func ExportExcel(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	if err := writeSummarySheet(f, r); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	if err := writeDetailSheet(f, r); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, r *Report) error {
	cells := [][2]any{
		{"Laporan Parkir", ""},
		{"Periode", r.Summary.PeriodLabel},
		{"Dibuat", r.GeneratedAt.Format("02 Jan 2006 15:04")},
		{"", ""},
		{"Total Pendapatan", FormatIDR(r.Summary.TotalRevenue)},
		{"Total Transaksi", r.Summary.TotalTransactions},
		{"Rata-rata", FormatIDR(r.Summary.AverageAmount)},
	}
	for i, row := range cells {
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &[]any{row[0], row[1]}); err != nil {
			return err
		}
	}

	start := len(cells) + 2
	if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", start), &[]any{"Jenis Kendaraan", "Jumlah"}); err != nil {
		return err
	}
	for i, share := range r.Distribution {
		cell := fmt.Sprintf("A%d", start+1+i)
		if err := f.SetSheetRow(sheetSummary, cell, &[]any{share.Label, share.Count}); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSummary, "A", "B", 24)
}

func writeDetailSheet(f *excelize.File, r *Report) error {
	if _, err := f.NewSheet(sheetDetail); err != nil {
		return err
	}

	header := []any{"No.", "Plat Nomor", "Jenis", "Area", "Masuk", "Keluar", "Durasi (jam)", "Total"}
	if err := f.SetSheetRow(sheetDetail, "A1", &header); err != nil {
		return err
	}
	for i, tx := range r.Rows {
		area := ""
		if tx.Area != nil {
			area = tx.Area.Name
		}
		exit := ""
		if tx.ExitTime != nil {
			exit = tx.ExitTime.Format("02/01/2006 15:04")
		}
		row := []any{
			i + 1,
			tx.PlateNumber,
			tx.VehicleType.Label(),
			area,
			tx.EntryTime.Format("02/01/2006 15:04"),
			exit,
			durationHours(tx),
			tx.Amount,
		}
		if err := f.SetSheetRow(sheetDetail, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetDetail, "A", "A", 6); err != nil {
		return err
	}
	return f.SetColWidth(sheetDetail, "B", "H", 18)
}
