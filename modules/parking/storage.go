package parking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionFilter narrows ListTransactions. Zero values match
// everything. PlateNumber is a case-insensitive substring match.
type TransactionFilter struct {
	Status       TxStatus
	AreaID       uuid.UUID
	PlateNumber  string
	CreatedAfter time.Time
	Limit        int
}

// ExitUpdate carries the computed exit fields applied by CompleteExit.
type ExitUpdate struct {
	ExitTime      time.Time
	DurationHours int
	Amount        int64
}

// Storage persists areas and transactions. Implementations keep the area
// occupancy counter and the transaction row consistent within a single
// store transaction and publish a ChangeEvent for every committed mutation.
type Storage interface {
	// CreateEntry inserts a parked transaction and increments the area
	// occupancy counter atomically. It returns the stored transaction with
	// the area joined, and ErrAreaNotFound when the area does not exist.
	CreateEntry(ctx context.Context, tx *Transaction) (*Transaction, error)

	// CompleteExit moves a parked transaction to completed and decrements
	// the area counter, floored at zero, atomically. It fails with
	// ErrNotParked when the transaction exists but is not parked, and
	// ErrTransactionNotFound when it does not exist.
	CompleteExit(ctx context.Context, id uuid.UUID, upd ExitUpdate) (*Transaction, error)

	// UpdatePlateNumber rewrites the plate of an existing transaction
	// without touching its lifecycle state.
	UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) (*Transaction, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error)

	CreateArea(ctx context.Context, area *ParkingArea) (*ParkingArea, error)
	UpdateArea(ctx context.Context, area *ParkingArea) (*ParkingArea, error)
	// DeleteArea removes an empty area. ErrAreaNotEmpty when vehicles are
	// still parked in it.
	DeleteArea(ctx context.Context, id uuid.UUID) error
	GetArea(ctx context.Context, id uuid.UUID) (*ParkingArea, error)
	ListAreas(ctx context.Context) ([]ParkingArea, error)
}
