package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/access"
)

func newService(t *testing.T) *access.Service {
	t.Helper()
	return access.NewService(access.NewMemoryStorage())
}

func TestServiceCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password and normalizes email", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		user, err := svc.CreateUser(context.Background(), access.CreateUserInput{
			Email:    "  Admin@Example.COM ",
			FullName: "Site Admin",
			Password: "correct horse",
			Role:     "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, access.RoleAdmin, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotContains(t, string(user.PasswordHash), "correct horse")
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		_, err := svc.CreateUser(context.Background(), access.CreateUserInput{
			Email: "not-an-email", Password: "long enough", Role: "admin",
		})
		require.ErrorIs(t, err, access.ErrInvalidEmail)

		_, err = svc.CreateUser(context.Background(), access.CreateUserInput{
			Email: "a@b.co", Password: "short", Role: "admin",
		})
		require.ErrorIs(t, err, access.ErrWeakPassword)

		_, err = svc.CreateUser(context.Background(), access.CreateUserInput{
			Email: "a@b.co", Password: "long enough", Role: "root",
		})
		require.ErrorIs(t, err, access.ErrUnknownRole)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)

		in := access.CreateUserInput{Email: "a@b.co", Password: "long enough", Role: "owner"}
		_, err := svc.CreateUser(context.Background(), in)
		require.NoError(t, err)

		in.Email = "A@B.CO"
		_, err = svc.CreateUser(context.Background(), in)
		require.ErrorIs(t, err, access.ErrEmailTaken)
	})
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	created, err := svc.CreateUser(context.Background(), access.CreateUserInput{
		Email: "gate@lot.id", Password: "opensesame1", Role: "petugas",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "gate@lot.id", "opensesame1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// Missing user and wrong password are indistinguishable.
	_, err = svc.Authenticate(context.Background(), "gate@lot.id", "wrong")
	require.ErrorIs(t, err, access.ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "nobody@lot.id", "opensesame1")
	require.ErrorIs(t, err, access.ErrInvalidCredentials)
}

func TestServiceUpdateUserRole(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	user, err := svc.CreateUser(context.Background(), access.CreateUserInput{
		Email: "gate@lot.id", Password: "opensesame1", Role: "petugas",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(context.Background(), user.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, access.RoleOwner, updated.Role)

	_, err = svc.UpdateUserRole(context.Background(), user.ID, "root")
	require.ErrorIs(t, err, access.ErrUnknownRole)
}
