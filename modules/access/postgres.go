package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eparking/parkd/pkg/pg"
)

// PostgresStorage keeps accounts in the profiles table and role
// assignments in user_roles, joined on every read.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	if pool == nil {
		panic("access: pgx pool is required")
	}
	return &PostgresStorage{pool: pool}
}

const userSelect = `
SELECT p.id, p.email, p.full_name, p.password_hash, r.role, p.created_at, p.updated_at
FROM profiles p
JOIN user_roles r ON r.user_id = p.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, u *User) (*User, error) {
	dbtx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer dbtx.Rollback(ctx) //nolint:errcheck

	_, err = dbtx.Exec(ctx,
		`INSERT INTO profiles (id, email, full_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Join(ErrGateway, err)
	}
	_, err = dbtx.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, u.ID, u.Role)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}

	stored, err := scanUser(dbtx.QueryRow(ctx, userSelect+` WHERE p.id = $1`, u.ID))
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if err := dbtx.Commit(ctx); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	return stored, nil
}

func (s *PostgresStorage) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_roles SET role = $2 WHERE user_id = $1`, id, role)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *PostgresStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return errors.Join(ErrGateway, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	return u, nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userSelect+` WHERE lower(p.email) = lower($1)`, email))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrGateway, err)
	}
	return u, nil
}

func (s *PostgresStorage) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, userSelect+` ORDER BY p.email`)
	if err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Join(ErrGateway, err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrGateway, err)
	}
	return out, nil
}

var _ Storage = (*PostgresStorage)(nil)
