package realtime

import (
	"context"
	"time"

	"github.com/eparking/parkd/modules/parking"
)

// DailyStats is the headline figure block of the dashboard. TodayRevenue
// and CompletedToday cover completions created since local midnight;
// CurrentlyParked counts every parked vehicle regardless of age.
type DailyStats struct {
	CurrentlyParked int   `json:"currently_parked"`
	CompletedToday  int   `json:"completed_today"`
	TodayRevenue    int64 `json:"today_revenue"`
	TotalVehicles   int   `json:"total_vehicles"`
}

// computeStats derives DailyStats from storage. It is a full recompute so
// that replayed or duplicated events cannot skew the figures.
func computeStats(ctx context.Context, storage parking.Storage, now time.Time) (DailyStats, error) {
	parked, err := storage.ListTransactions(ctx, parking.TransactionFilter{
		Status: parking.StatusParked,
	})
	if err != nil {
		return DailyStats{}, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completed, err := storage.ListTransactions(ctx, parking.TransactionFilter{
		Status:       parking.StatusCompleted,
		CreatedAfter: midnight,
	})
	if err != nil {
		return DailyStats{}, err
	}

	var revenue int64
	for _, tx := range completed {
		revenue += tx.Amount
	}
	return DailyStats{
		CurrentlyParked: len(parked),
		CompletedToday:  len(completed),
		TodayRevenue:    revenue,
		TotalVehicles:   len(parked) + len(completed),
	}, nil
}
