package parking

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eparking/parkd/pkg/logger"
)

// Service applies the transaction lifecycle rules on top of a Storage.
type Service struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for lifecycle events.
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

// NewService creates a Service. Panics when storage is nil.
func NewService(storage Storage, opts ...Option) *Service {
	if storage == nil {
		panic("parking: storage is required")
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

// EntryInput is the operator-supplied payload for a vehicle entry.
type EntryInput struct {
	PlateNumber string
	VehicleType string
	AreaID      uuid.UUID
	OperatorID  *uuid.UUID
}

// RecordEntry opens a parked transaction in the given area. The plate is
// trimmed and uppercased before storage; an empty plate or unknown vehicle
// type is rejected before any store access.
func (s *Service) RecordEntry(ctx context.Context, in EntryInput) (*Transaction, error) {
	plate := strings.ToUpper(strings.TrimSpace(in.PlateNumber))
	if plate == "" {
		return nil, ErrEmptyPlateNumber
	}
	vt, err := ParseVehicleType(in.VehicleType)
	if err != nil {
		return nil, err
	}
	if in.AreaID == uuid.Nil {
		return nil, ErrAreaNotFound
	}

	now := s.now()
	areaID := in.AreaID
	tx := &Transaction{
		ID:            uuid.New(),
		PlateNumber:   plate,
		VehicleType:   vt,
		ParkingAreaID: &areaID,
		OperatorID:    in.OperatorID,
		EntryTime:     now,
		Status:        StatusParked,
		CreatedAt:     now,
	}

	stored, err := s.storage.CreateEntry(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "vehicle entered",
		logger.TransactionID(stored.ID.String()),
		logger.Plate(stored.PlateNumber),
		logger.AreaID(areaID.String()),
	)
	return stored, nil
}

// RecordExit completes a parked transaction, computing the billed duration
// and amount from the entry time and the area rate. Only transactions in
// the parked state can exit.
func (s *Service) RecordExit(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	current, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Parked() {
		return nil, ErrNotParked
	}

	exitAt := s.now()
	duration := billedHours(current.EntryTime, exitAt)
	rate := DefaultHourlyRate
	if current.Area != nil && current.Area.HourlyRate > 0 {
		rate = current.Area.HourlyRate
	}

	stored, err := s.storage.CompleteExit(ctx, id, ExitUpdate{
		ExitTime:      exitAt,
		DurationHours: duration,
		Amount:        int64(duration) * rate,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "vehicle exited",
		logger.TransactionID(stored.ID.String()),
		logger.Plate(stored.PlateNumber),
		slog.Int("duration_hours", duration),
		slog.Int64("amount", stored.Amount),
	)
	return stored, nil
}

// UpdatePlateNumber corrects the plate of an existing transaction. The
// lifecycle state is untouched.
func (s *Service) UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) (*Transaction, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return nil, ErrEmptyPlateNumber
	}
	return s.storage.UpdatePlateNumber(ctx, id, plate)
}

// GetTransaction returns one transaction with its area joined.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// ListTransactions returns transactions matching the filter, newest first.
// When no limit is given, DefaultListLimit applies.
func (s *Service) ListTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	return s.storage.ListTransactions(ctx, f)
}

// AreaInput is the payload for creating or updating a parking area.
type AreaInput struct {
	Name       string
	TotalSlots int
	HourlyRate int64
}

func (in AreaInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyAreaName
	}
	if in.TotalSlots <= 0 {
		return ErrInvalidCapacity
	}
	if in.HourlyRate < 0 {
		return ErrInvalidHourlyRate
	}
	return nil
}

// CreateArea registers a new empty area.
func (s *Service) CreateArea(ctx context.Context, in AreaInput) (*ParkingArea, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	return s.storage.CreateArea(ctx, &ParkingArea{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(in.Name),
		TotalSlots: in.TotalSlots,
		HourlyRate: in.HourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// UpdateArea changes name, capacity or rate of an area. Shrinking capacity
// below the current occupancy is rejected.
func (s *Service) UpdateArea(ctx context.Context, id uuid.UUID, in AreaInput) (*ParkingArea, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	area, err := s.storage.GetArea(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.TotalSlots < area.OccupiedSlots {
		return nil, ErrInvalidCapacity
	}
	area.Name = strings.TrimSpace(in.Name)
	area.TotalSlots = in.TotalSlots
	area.HourlyRate = in.HourlyRate
	area.UpdatedAt = s.now()
	return s.storage.UpdateArea(ctx, area)
}

// DeleteArea removes an area that has no parked vehicles.
func (s *Service) DeleteArea(ctx context.Context, id uuid.UUID) error {
	return s.storage.DeleteArea(ctx, id)
}

// GetArea returns one area.
func (s *Service) GetArea(ctx context.Context, id uuid.UUID) (*ParkingArea, error) {
	return s.storage.GetArea(ctx, id)
}

// ListAreas returns all areas with their live occupancy counters.
func (s *Service) ListAreas(ctx context.Context) ([]ParkingArea, error) {
	return s.storage.ListAreas(ctx)
}

// billedHours rounds the elapsed time up to whole hours with a one hour
// minimum. A non-positive span still bills one hour.
func billedHours(entry, exit time.Time) int {
	h := int(math.Ceil(exit.Sub(entry).Hours()))
	if h < 1 {
		h = 1
	}
	return h
}
