package access

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eparking/parkd/pkg/logger"
)

const minPasswordLength = 8

// Service manages dashboard accounts.
type Service struct {
	storage Storage
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

func NewService(storage Storage, opts ...Option) *Service {
	if storage == nil {
		panic("access: storage is required")
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

// CreateUserInput is the admin payload for provisioning an account.
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     string
}

// CreateUser provisions an account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user, err := s.storage.CreateUser(ctx, &User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created",
		logger.UserID(user.ID.String()),
		logger.Role(string(user.Role)),
	)
	return user, nil
}

// Authenticate checks email and password and returns the account. The
// error is the same for a missing user and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateUserRole reassigns a role.
func (s *Service) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (*User, error) {
	parsed, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	user, err := s.storage.UpdateRole(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "role updated",
		logger.UserID(user.ID.String()),
		logger.Role(string(user.Role)),
	)
	return user, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.storage.DeleteUser(ctx, id)
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.GetUser(ctx, id)
}

// ListUsers returns all accounts sorted by email.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.storage.ListUsers(ctx)
}
