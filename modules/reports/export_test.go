package reports_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eparking/parkd/modules/reports"
)

func buildReport(t *testing.T) *reports.Report {
	t.Helper()
	f := newFixture(t)
	base := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
	f.seed(t, "motor", base)
	f.seed(t, "mobil", base.Add(time.Hour))
	f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	report, err := f.svc.Build(context.Background(), reports.PeriodDaily)
	require.NoError(t, err)
	return report
}

func TestExportExcel(t *testing.T) {
	t.Parallel()
	report := buildReport(t)

	payload, err := reports.ExportExcel(report)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.ElementsMatch(t, []string{"Ringkasan", "Transaksi"}, f.GetSheetList())

	title, err := f.GetCellValue("Ringkasan", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Laporan Parkir", title)

	header, err := f.GetCellValue("Transaksi", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Plat Nomor", header)

	rows, err := f.GetRows("Transaksi")
	require.NoError(t, err)
	assert.Len(t, rows, 1+report.Summary.TotalTransactions, "header plus one row per transaction")
}

func TestExportPDF(t *testing.T) {
	t.Parallel()
	report := buildReport(t)

	payload, err := reports.ExportPDF(report)
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "PDF magic header")
}
