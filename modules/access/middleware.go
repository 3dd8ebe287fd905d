package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eparking/parkd/core"
)

type ctxKey int

const userCtxKey ctxKey = iota

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userCtxKey).(*User)
	return u, ok
}

// UserID returns the authenticated user's id, or nil. Shaped for the
// parking router's operator resolver.
func UserID(ctx context.Context) *uuid.UUID {
	u, ok := CurrentUser(ctx)
	if !ok {
		return nil
	}
	id := u.ID
	return &id
}

// Authenticator resolves the bearer token and loads the account into the
// request context. Requests without a valid token pass through anonymous;
// RequireRole and RequirePermission reject those.
func Authenticator(sessions *SessionStore, svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := sessions.Resolve(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := svc.GetUser(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// RequireRole rejects requests whose user holds none of the given roles.
// Anonymous requests get 401, authenticated but unqualified ones 403.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				core.WriteError(w, core.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			core.WriteError(w, core.ErrForbidden)
		})
	}
}

// RequirePermission rejects requests whose user lacks the capability.
func RequirePermission(p Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				core.WriteError(w, core.ErrUnauthorized)
				return
			}
			if !Allowed(user.Role, p) {
				core.WriteError(w, core.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
