package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/eparking/parkd/modules/parking"
)

// Period selects the report window.
type Period string

const (
	PeriodDaily   Period = "daily"   // last 7 days, bucketed per day
	PeriodWeekly  Period = "weekly"  // last 30 days, bucketed per day
	PeriodMonthly Period = "monthly" // last 365 days, bucketed per month
)

// ParsePeriod maps a query value to a Period. Empty selects daily.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(s), nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) days() int {
	switch p {
	case PeriodWeekly:
		return 30
	case PeriodMonthly:
		return 365
	default:
		return 7
	}
}

// Label is the Indonesian window caption used in report headers.
func (p Period) Label() string {
	switch p {
	case PeriodWeekly:
		return "30 Hari Terakhir"
	case PeriodMonthly:
		return "1 Tahun Terakhir"
	default:
		return "7 Hari Terakhir"
	}
}

// Summary is the headline block of a report.
type Summary struct {
	PeriodLabel       string `json:"period_label"`
	TotalRevenue      int64  `json:"total_revenue"`
	TotalTransactions int    `json:"total_transactions"`
	AverageAmount     int64  `json:"average_amount"`
}

// Bucket is one bar of the revenue chart.
type Bucket struct {
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// TypeShare is the vehicle type distribution slice.
type TypeShare struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report is the full periodic report: summary, chart buckets, vehicle
// distribution and the underlying detail rows.
type Report struct {
	Period       Period                `json:"period"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Summary      Summary               `json:"summary"`
	Buckets      []Bucket              `json:"buckets"`
	Distribution []TypeShare           `json:"distribution"`
	Rows         []parking.Transaction `json:"rows"`
}

// Service builds reports and receipts from the parking storage.
type Service struct {
	storage parking.Storage
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(storage parking.Storage, opts ...Option) *Service {
	if storage == nil {
		panic("reports: storage is required")
	}
	s := &Service{
		storage: storage,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// durationHours reads the billed hours of a transaction, zero when the
// exit has not been recorded yet.
func durationHours(tx parking.Transaction) int {
	if tx.DurationHours == nil {
		return 0
	}
	return *tx.DurationHours
}

// Build assembles the report for a period from completed transactions.
func (s *Service) Build(ctx context.Context, period Period) (*Report, error) {
	now := s.now()
	since := now.AddDate(0, 0, -period.days())

	rows, err := s.storage.ListTransactions(ctx, parking.TransactionFilter{
		Status:       parking.StatusCompleted,
		CreatedAfter: since,
	})
	if err != nil {
		return nil, err
	}

	var revenue int64
	byType := map[parking.VehicleType]int{}
	for _, tx := range rows {
		revenue += tx.Amount
		byType[tx.VehicleType]++
	}

	summary := Summary{
		PeriodLabel:       period.Label(),
		TotalRevenue:      revenue,
		TotalTransactions: len(rows),
	}
	if len(rows) > 0 {
		summary.AverageAmount = revenue / int64(len(rows))
	}

	return &Report{
		Period:      period,
		GeneratedAt: now,
		Summary:     summary,
		Buckets:     bucketize(rows, period, now),
		Distribution: []TypeShare{
			{Label: parking.VehicleMotor.Label(), Count: byType[parking.VehicleMotor]},
			{Label: parking.VehicleCar.Label(), Count: byType[parking.VehicleCar]},
		},
		Rows: rows,
	}, nil
}

// bucketize fills the full window so charts render gaps as zero bars.
// Daily and weekly reports bucket per day, monthly per calendar month.
func bucketize(rows []parking.Transaction, period Period, now time.Time) []Bucket {
	type key struct {
		year  int
		month time.Month
		day   int
	}

	byDay := period != PeriodMonthly
	keyOf := func(t time.Time) key {
		y, m, d := t.Date()
		if !byDay {
			d = 0
		}
		return key{year: y, month: m, day: d}
	}

	sums := map[key]*Bucket{}
	for _, tx := range rows {
		k := keyOf(tx.CreatedAt)
		if b, ok := sums[k]; ok {
			b.Revenue += tx.Amount
			b.Count++
		} else {
			sums[k] = &Bucket{Revenue: tx.Amount, Count: 1}
		}
	}

	var out []Bucket
	if byDay {
		for i := period.days() - 1; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			b := Bucket{Label: day.Format("02 Jan")}
			if got, ok := sums[keyOf(day)]; ok {
				b.Revenue, b.Count = got.Revenue, got.Count
			}
			out = append(out, b)
		}
		return out
	}
	for i := 11; i >= 0; i-- {
		// Anchor on the first so month arithmetic never overflows.
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		b := Bucket{Label: month.Format("Jan 2006")}
		if got, ok := sums[keyOf(month)]; ok {
			b.Revenue, b.Count = got.Revenue, got.Count
		}
		out = append(out, b)
	}
	return out
}
