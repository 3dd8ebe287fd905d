package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eparking/parkd/pkg/broadcast"
	"github.com/eparking/parkd/pkg/pg"
)

// PostgresStorage is the production Storage backed by pgx. Counter updates
// and row mutations share one database transaction; change events are
// published after commit.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	events broadcast.Broadcaster[ChangeEvent]
}

// NewPostgresStorage creates a storage over the given pool. A nil
// broadcaster disables change publishing.
func NewPostgresStorage(pool *pgxpool.Pool, events broadcast.Broadcaster[ChangeEvent]) *PostgresStorage {
	if pool == nil {
		panic("parking: pgx pool is required")
	}
	return &PostgresStorage{pool: pool, events: events}
}

func (s *PostgresStorage) publish(ctx context.Context, ev ChangeEvent) {
	if s.events != nil {
		_ = s.events.Broadcast(ctx, broadcast.Message[ChangeEvent]{Data: ev})
	}
}

const txSelect = `
SELECT t.id, t.plate_number, t.vehicle_type, t.parking_area_id, t.operator_id,
       t.entry_time, t.exit_time, t.duration_hours, t.amount, t.status, t.created_at,
       a.id, a.name, a.total_slots, a.occupied_slots, a.hourly_rate, a.created_at, a.updated_at
FROM transactions t
LEFT JOIN parking_areas a ON a.id = t.parking_area_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var (
		tx        Transaction
		areaID    *uuid.UUID
		areaName  *string
		total     *int
		occupied  *int
		rate      *int64
		createdAt *time.Time
		updatedAt *time.Time
	)
	err := row.Scan(
		&tx.ID, &tx.PlateNumber, &tx.VehicleType, &tx.ParkingAreaID, &tx.OperatorID,
		&tx.EntryTime, &tx.ExitTime, &tx.DurationHours, &tx.Amount, &tx.Status, &tx.CreatedAt,
		&areaID, &areaName, &total, &occupied, &rate, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if areaID != nil {
		tx.Area = &ParkingArea{
			ID:            *areaID,
			Name:          *areaName,
			TotalSlots:    *total,
			OccupiedSlots: *occupied,
			HourlyRate:    *rate,
			CreatedAt:     *createdAt,
			UpdatedAt:     *updatedAt,
		}
	}
	return &tx, nil
}

func (s *PostgresStorage) CreateEntry(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if tx.ParkingAreaID == nil {
		return nil, ErrAreaNotFound
	}

	dbtx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer dbtx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := dbtx.Exec(ctx,
		`UPDATE parking_areas
		 SET occupied_slots = occupied_slots + 1, updated_at = $2
		 WHERE id = $1 AND occupied_slots < total_slots`,
		*tx.ParkingAreaID, tx.CreatedAt,
	)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing area from one at capacity.
		if _, err := scanArea(dbtx.QueryRow(ctx, areaSelect+` WHERE id = $1`, *tx.ParkingAreaID)); err != nil {
			if pg.IsNotFoundError(err) {
				return nil, ErrAreaNotFound
			}
			return nil, errors.Join(ErrGateway, err)
		}
		return nil, ErrAreaFull
	}

	_, err = dbtx.Exec(ctx,
		`INSERT INTO transactions
		   (id, plate_number, vehicle_type, parking_area_id, operator_id, entry_time, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.PlateNumber, tx.VehicleType, tx.ParkingAreaID, tx.OperatorID,
		tx.EntryTime, tx.Status, tx.CreatedAt,
	)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrAreaNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}

	stored, err := scanTransaction(dbtx.QueryRow(ctx, txSelect+` WHERE t.id = $1`, tx.ID))
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if err := dbtx.Commit(ctx); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}

	s.publish(ctx, ChangeEvent{Op: OpInsert, New: stored})
	return stored, nil
}

func (s *PostgresStorage) CompleteExit(ctx context.Context, id uuid.UUID, upd ExitUpdate) (*Transaction, error) {
	dbtx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer dbtx.Rollback(ctx) //nolint:errcheck

	old, err := scanTransaction(dbtx.QueryRow(ctx, txSelect+` WHERE t.id = $1 FOR UPDATE OF t`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTransactionNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	if old.Status != StatusParked {
		return nil, ErrNotParked
	}

	_, err = dbtx.Exec(ctx,
		`UPDATE transactions
		 SET exit_time = $2, duration_hours = $3, amount = $4, status = $5
		 WHERE id = $1`,
		id, upd.ExitTime, upd.DurationHours, upd.Amount, StatusCompleted,
	)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if old.ParkingAreaID != nil {
		_, err = dbtx.Exec(ctx,
			`UPDATE parking_areas SET occupied_slots = GREATEST(occupied_slots - 1, 0), updated_at = $2 WHERE id = $1`,
			*old.ParkingAreaID, upd.ExitTime,
		)
		if err != nil {
			return nil, errors.Join(ErrGateway, err)
		}
	}

	stored, err := scanTransaction(dbtx.QueryRow(ctx, txSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if err := dbtx.Commit(ctx); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}

	s.publish(ctx, ChangeEvent{Op: OpUpdate, New: stored, Old: old})
	return stored, nil
}

func (s *PostgresStorage) UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) (*Transaction, error) {
	old, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET plate_number = $2 WHERE id = $1`, id, plate)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTransactionNotFound
	}

	stored, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ChangeEvent{Op: OpUpdate, New: stored, Old: old})
	return stored, nil
}

func (s *PostgresStorage) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	tx, err := scanTransaction(s.pool.QueryRow(ctx, txSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTransactionNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	return tx, nil
}

func (s *PostgresStorage) ListTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		conds = append(conds, "t.status = "+arg(f.Status))
	}
	if f.AreaID != uuid.Nil {
		conds = append(conds, "t.parking_area_id = "+arg(f.AreaID))
	}
	if f.PlateNumber != "" {
		conds = append(conds, "t.plate_number ILIKE "+arg("%"+f.PlateNumber+"%"))
	}
	if !f.CreatedAfter.IsZero() {
		conds = append(conds, "t.created_at >= "+arg(f.CreatedAfter))
	}

	query := txSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, errors.Join(ErrGateway, err)
		}
		out = append(out, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	return out, nil
}

const areaSelect = `
SELECT id, name, total_slots, occupied_slots, hourly_rate, created_at, updated_at
FROM parking_areas`

func scanArea(row rowScanner) (*ParkingArea, error) {
	var a ParkingArea
	err := row.Scan(&a.ID, &a.Name, &a.TotalSlots, &a.OccupiedSlots, &a.HourlyRate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStorage) CreateArea(ctx context.Context, area *ParkingArea) (*ParkingArea, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO parking_areas (id, name, total_slots, occupied_slots, hourly_rate, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, $4, $5, $6)
		 RETURNING id, name, total_slots, occupied_slots, hourly_rate, created_at, updated_at`,
		area.ID, area.Name, area.TotalSlots, area.HourlyRate, area.CreatedAt, area.UpdatedAt,
	)
	stored, err := scanArea(row)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	return stored, nil
}

func (s *PostgresStorage) UpdateArea(ctx context.Context, area *ParkingArea) (*ParkingArea, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE parking_areas
		 SET name = $2, total_slots = $3, hourly_rate = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING id, name, total_slots, occupied_slots, hourly_rate, created_at, updated_at`,
		area.ID, area.Name, area.TotalSlots, area.HourlyRate, area.UpdatedAt,
	)
	stored, err := scanArea(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAreaNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	return stored, nil
}

func (s *PostgresStorage) DeleteArea(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM parking_areas WHERE id = $1 AND occupied_slots = 0`, id)
	if err != nil {
		return errors.Join(ErrGateway, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing area from one still holding vehicles.
		if _, err := s.GetArea(ctx, id); err != nil {
			return err
		}
		return ErrAreaNotEmpty
	}
	return nil
}

func (s *PostgresStorage) GetArea(ctx context.Context, id uuid.UUID) (*ParkingArea, error) {
	area, err := scanArea(s.pool.QueryRow(ctx, areaSelect+` WHERE id = $1`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAreaNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	return area, nil
}

func (s *PostgresStorage) ListAreas(ctx context.Context) ([]ParkingArea, error) {
	rows, err := s.pool.Query(ctx, areaSelect+` ORDER BY created_at, name`)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer rows.Close()

	var out []ParkingArea
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, errors.Join(ErrGateway, err)
		}
		out = append(out, *area)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	return out, nil
}

var _ Storage = (*PostgresStorage)(nil)
