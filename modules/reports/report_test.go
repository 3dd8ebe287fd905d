package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/parking"
	"github.com/eparking/parkd/modules/reports"
)

type fixture struct {
	svc     *reports.Service
	parking *parking.Service
	area    *parking.ParkingArea
	now     time.Time
}

// seed creates one completed visit of the given type, entered at the given
// time and billed for one hour.
func (f *fixture) seed(t *testing.T, vehicleType string, at time.Time) *parking.Transaction {
	t.Helper()
	f.now = at
	tx, err := f.parking.RecordEntry(context.Background(), parking.EntryInput{
		PlateNumber: "B 1 A",
		VehicleType: vehicleType,
		AreaID:      f.area.ID,
	})
	require.NoError(t, err)
	f.now = at.Add(30 * time.Minute)
	done, err := f.parking.RecordExit(context.Background(), tx.ID)
	require.NoError(t, err)
	return done
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	storage := parking.NewMemoryStorage(nil)
	clock := func() time.Time { return f.now }
	f.parking = parking.NewService(storage, parking.WithClock(clock))
	f.svc = reports.NewService(storage, reports.WithClock(clock))

	area, err := f.parking.CreateArea(context.Background(), parking.AreaInput{
		Name: "Main Lot", TotalSlots: 50, HourlyRate: 2000,
	})
	require.NoError(t, err)
	f.area = area
	return f
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	p, err := reports.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, reports.PeriodDaily, p)

	for _, raw := range []string{"daily", "weekly", "monthly"} {
		p, err := reports.ParsePeriod(raw)
		require.NoError(t, err)
		assert.Equal(t, reports.Period(raw), p)
	}

	_, err = reports.ParsePeriod("yearly")
	require.ErrorIs(t, err, reports.ErrInvalidPeriod)
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	t.Run("summarizes completed transactions in the window", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		base := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

		f.seed(t, "motor", base)                       // 2000
		f.seed(t, "mobil", base.AddDate(0, 0, 1))      // 2000
		f.seed(t, "motor", base.AddDate(0, 0, -30))    // outside daily window
		f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		report, err := f.svc.Build(context.Background(), reports.PeriodDaily)
		require.NoError(t, err)

		assert.Equal(t, 2, report.Summary.TotalTransactions)
		assert.Equal(t, int64(4000), report.Summary.TotalRevenue)
		assert.Equal(t, int64(2000), report.Summary.AverageAmount)
		assert.Equal(t, "7 Hari Terakhir", report.Summary.PeriodLabel)
		assert.Len(t, report.Rows, 2)
	})

	t.Run("parked vehicles carry no revenue", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.parking.RecordEntry(context.Background(), parking.EntryInput{
			PlateNumber: "B 2 B", VehicleType: "motor", AreaID: f.area.ID,
		})
		require.NoError(t, err)

		report, err := f.svc.Build(context.Background(), reports.PeriodDaily)
		require.NoError(t, err)
		assert.Zero(t, report.Summary.TotalTransactions)
		assert.Zero(t, report.Summary.TotalRevenue)
		assert.Zero(t, report.Summary.AverageAmount)
	})

	t.Run("vehicle distribution", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		base := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
		f.seed(t, "motor", base)
		f.seed(t, "motor", base.Add(time.Hour))
		f.seed(t, "mobil", base.Add(2*time.Hour))
		f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		report, err := f.svc.Build(context.Background(), reports.PeriodDaily)
		require.NoError(t, err)
		require.Len(t, report.Distribution, 2)
		assert.Equal(t, reports.TypeShare{Label: "Motor", Count: 2}, report.Distribution[0])
		assert.Equal(t, reports.TypeShare{Label: "Mobil", Count: 1}, report.Distribution[1])
	})

	t.Run("daily buckets cover the full window", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seed(t, "motor", time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC))
		f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		report, err := f.svc.Build(context.Background(), reports.PeriodDaily)
		require.NoError(t, err)
		require.Len(t, report.Buckets, 7)
		assert.Equal(t, "10 Mar", report.Buckets[6].Label, "window ends today")

		var nonEmpty int
		for _, b := range report.Buckets {
			if b.Count > 0 {
				nonEmpty++
				assert.Equal(t, int64(2000), b.Revenue)
			}
		}
		assert.Equal(t, 1, nonEmpty, "gap days render as zero bars")
	})

	t.Run("monthly report buckets by month", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seed(t, "motor", time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
		f.seed(t, "motor", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
		f.now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		report, err := f.svc.Build(context.Background(), reports.PeriodMonthly)
		require.NoError(t, err)
		require.Len(t, report.Buckets, 12)
		assert.Equal(t, "Apr 2024", report.Buckets[0].Label)
		assert.Equal(t, "Mar 2025", report.Buckets[11].Label)
		assert.Equal(t, 1, report.Buckets[11].Count)
	})
}

func TestFormatIDR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Rp 0", reports.FormatIDR(0))
	assert.Equal(t, "Rp 2.000", reports.FormatIDR(2000))
	assert.Equal(t, "Rp 1.250.500", reports.FormatIDR(1250500))
}
