package access_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/access"
)

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := access.CurrentUser(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Email)) //nolint:errcheck
	})
}

func TestAuthenticatorAndGuards(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	sessions := access.NewSessionStore(time.Hour)

	operator, err := svc.CreateUser(context.Background(), access.CreateUserInput{
		Email: "gate@lot.id", Password: "opensesame1", Role: "petugas",
	})
	require.NoError(t, err)
	token, err := sessions.Issue(operator.ID)
	require.NoError(t, err)

	do := func(h http.Handler, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		access.Authenticator(sessions, svc)(h).ServeHTTP(rec, req)
		return rec
	}

	t.Run("anonymous request is unauthorized", func(t *testing.T) {
		t.Parallel()
		h := access.RequireRole(access.RolePetugas)(protectedHandler(t))
		rec := do(h, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stale token is unauthorized", func(t *testing.T) {
		t.Parallel()
		h := access.RequireRole(access.RolePetugas)(protectedHandler(t))
		rec := do(h, "deadbeef")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching role passes", func(t *testing.T) {
		t.Parallel()
		h := access.RequireRole(access.RoleAdmin, access.RolePetugas)(protectedHandler(t))
		rec := do(h, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gate@lot.id", rec.Body.String())
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		t.Parallel()
		h := access.RequireRole(access.RoleAdmin)(protectedHandler(t))
		rec := do(h, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("permission guard follows the role table", func(t *testing.T) {
		t.Parallel()
		allowed := access.RequirePermission(access.PermRecordExit)(protectedHandler(t))
		assert.Equal(t, http.StatusOK, do(allowed, token).Code)

		denied := access.RequirePermission(access.PermManageUsers)(protectedHandler(t))
		assert.Equal(t, http.StatusForbidden, do(denied, token).Code)
	})

	t.Run("revoked token loses access", func(t *testing.T) {
		revokable, err := sessions.Issue(operator.ID)
		require.NoError(t, err)
		h := access.RequireRole(access.RolePetugas)(protectedHandler(t))
		assert.Equal(t, http.StatusOK, do(h, revokable).Code)

		sessions.Revoke(revokable)
		assert.Equal(t, http.StatusUnauthorized, do(h, revokable).Code)
	})
}
