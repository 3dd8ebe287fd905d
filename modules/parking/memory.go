package parking

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/eparking/parkd/pkg/broadcast"
)

// MemoryStorage is an in-process Storage keeping the same invariants as the
// Postgres implementation. Intended for tests and single-node demos.
type MemoryStorage struct {
	mu     sync.RWMutex
	areas  map[uuid.UUID]ParkingArea
	txs    map[uuid.UUID]Transaction
	events broadcast.Broadcaster[ChangeEvent]
}

// NewMemoryStorage creates an empty storage. A nil broadcaster disables
// change publishing.
func NewMemoryStorage(events broadcast.Broadcaster[ChangeEvent]) *MemoryStorage {
	return &MemoryStorage{
		areas:  make(map[uuid.UUID]ParkingArea),
		txs:    make(map[uuid.UUID]Transaction),
		events: events,
	}
}

func (m *MemoryStorage) publish(ctx context.Context, ev ChangeEvent) {
	if m.events != nil {
		_ = m.events.Broadcast(ctx, broadcast.Message[ChangeEvent]{Data: ev})
	}
}

// joined returns a copy of tx with its area attached when it still exists.
// Callers must hold at least a read lock.
func (m *MemoryStorage) joined(tx Transaction) *Transaction {
	out := tx
	if tx.ParkingAreaID != nil {
		if area, ok := m.areas[*tx.ParkingAreaID]; ok {
			out.Area = &area
		}
	}
	return &out
}

func (m *MemoryStorage) CreateEntry(ctx context.Context, tx *Transaction) (*Transaction, error) {
	m.mu.Lock()
	if tx.ParkingAreaID == nil {
		m.mu.Unlock()
		return nil, ErrAreaNotFound
	}
	area, ok := m.areas[*tx.ParkingAreaID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrAreaNotFound
	}
	if area.OccupiedSlots >= area.TotalSlots {
		m.mu.Unlock()
		return nil, ErrAreaFull
	}
	area.OccupiedSlots++
	area.UpdatedAt = tx.CreatedAt
	m.areas[area.ID] = area
	m.txs[tx.ID] = *tx
	stored := m.joined(*tx)
	m.mu.Unlock()

	m.publish(ctx, ChangeEvent{Op: OpInsert, New: stored})
	return stored, nil
}

func (m *MemoryStorage) CompleteExit(ctx context.Context, id uuid.UUID, upd ExitUpdate) (*Transaction, error) {
	m.mu.Lock()
	tx, ok := m.txs[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrTransactionNotFound
	}
	if tx.Status != StatusParked {
		m.mu.Unlock()
		return nil, ErrNotParked
	}
	old := m.joined(tx)

	exitAt := upd.ExitTime
	duration := upd.DurationHours
	tx.ExitTime = &exitAt
	tx.DurationHours = &duration
	tx.Amount = upd.Amount
	tx.Status = StatusCompleted
	m.txs[id] = tx

	if tx.ParkingAreaID != nil {
		if area, ok := m.areas[*tx.ParkingAreaID]; ok {
			if area.OccupiedSlots > 0 {
				area.OccupiedSlots--
			}
			area.UpdatedAt = exitAt
			m.areas[area.ID] = area
		}
	}
	stored := m.joined(tx)
	m.mu.Unlock()

	m.publish(ctx, ChangeEvent{Op: OpUpdate, New: stored, Old: old})
	return stored, nil
}

func (m *MemoryStorage) UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) (*Transaction, error) {
	m.mu.Lock()
	tx, ok := m.txs[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrTransactionNotFound
	}
	old := m.joined(tx)
	tx.PlateNumber = plate
	m.txs[id] = tx
	stored := m.joined(tx)
	m.mu.Unlock()

	m.publish(ctx, ChangeEvent{Op: OpUpdate, New: stored, Old: old})
	return stored, nil
}

func (m *MemoryStorage) GetTransaction(_ context.Context, id uuid.UUID) (*Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.txs[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return m.joined(tx), nil
}

func (m *MemoryStorage) ListTransactions(_ context.Context, f TransactionFilter) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Transaction, 0, len(m.txs))
	for _, tx := range m.txs {
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		if f.AreaID != uuid.Nil && (tx.ParkingAreaID == nil || *tx.ParkingAreaID != f.AreaID) {
			continue
		}
		if f.PlateNumber != "" && !strings.Contains(strings.ToUpper(tx.PlateNumber), strings.ToUpper(f.PlateNumber)) {
			continue
		}
		if !f.CreatedAfter.IsZero() && tx.CreatedAt.Before(f.CreatedAfter) {
			continue
		}
		out = append(out, *m.joined(tx))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStorage) CreateArea(_ context.Context, area *ParkingArea) (*ParkingArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *area
	m.areas[stored.ID] = stored
	return &stored, nil
}

func (m *MemoryStorage) UpdateArea(_ context.Context, area *ParkingArea) (*ParkingArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.areas[area.ID]
	if !ok {
		return nil, ErrAreaNotFound
	}
	current.Name = area.Name
	current.TotalSlots = area.TotalSlots
	current.HourlyRate = area.HourlyRate
	current.UpdatedAt = area.UpdatedAt
	m.areas[area.ID] = current
	return &current, nil
}

func (m *MemoryStorage) DeleteArea(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	area, ok := m.areas[id]
	if !ok {
		return ErrAreaNotFound
	}
	if area.OccupiedSlots > 0 {
		return ErrAreaNotEmpty
	}
	delete(m.areas, id)
	return nil
}

func (m *MemoryStorage) GetArea(_ context.Context, id uuid.UUID) (*ParkingArea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	area, ok := m.areas[id]
	if !ok {
		return nil, ErrAreaNotFound
	}
	out := area
	return &out, nil
}

func (m *MemoryStorage) ListAreas(_ context.Context) ([]ParkingArea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ParkingArea, 0, len(m.areas))
	for _, area := range m.areas {
		out = append(out, area)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ Storage = (*MemoryStorage)(nil)
