package access

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists user accounts and their role assignments.
type Storage interface {
	// CreateUser stores a new account. ErrEmailTaken when the email is
	// already registered.
	CreateUser(ctx context.Context, u *User) (*User, error)
	// UpdateRole reassigns a user's role.
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
