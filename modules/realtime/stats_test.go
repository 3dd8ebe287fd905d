package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/parking"
)

func TestComputeStatsRepeatable(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	storage := parking.NewMemoryStorage(nil)
	svc := parking.NewService(storage, parking.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, parking.AreaInput{Name: "Lot", TotalSlots: 10, HourlyRate: 2000})
	require.NoError(t, err)

	done, err := svc.RecordEntry(ctx, parking.EntryInput{PlateNumber: "B 1 A", VehicleType: "motor", AreaID: area.ID})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, parking.EntryInput{PlateNumber: "B 2 B", VehicleType: "mobil", AreaID: area.ID})
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = svc.RecordExit(ctx, done.ID)
	require.NoError(t, err)

	first, err := computeStats(ctx, storage, now)
	require.NoError(t, err)
	second, err := computeStats(ctx, storage, now)
	require.NoError(t, err)

	assert.Equal(t, first, second, "back-to-back recomputes with no new transactions match")
	assert.Equal(t, 1, first.CurrentlyParked)
	assert.Equal(t, 1, first.CompletedToday)
	assert.Equal(t, int64(2000), first.TodayRevenue)
	assert.Equal(t, 2, first.TotalVehicles)
}
