package access

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eparking/parkd/core"
)

type router struct {
	svc      *Service
	sessions *SessionStore
}

// NewRouter exposes login, the role view endpoint and user administration.
// The Authenticator middleware must be mounted above this router.
func NewRouter(svc *Service, sessions *SessionStore) http.Handler {
	rt := &router{svc: svc, sessions: sessions}

	r := chi.NewRouter()
	r.Post("/login", rt.handleLogin)
	r.Post("/logout", rt.handleLogout)
	r.With(RequireRole(RoleAdmin, RoleOwner, RolePetugas)).Get("/views", rt.handleViews)

	r.Route("/users", func(r chi.Router) {
		r.Use(RequirePermission(PermManageUsers))
		r.Get("/", rt.handleListUsers)
		r.Post("/", rt.handleCreateUser)
		r.Patch("/{id}/role", rt.handleUpdateRole)
		r.Delete("/{id}", rt.handleDeleteUser)
	})
	return r
}

func respondError(w http.ResponseWriter, err error) {
	var httpErr core.HTTPError
	switch {
	case errors.Is(err, ErrUnknownRole),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrWeakPassword):
		httpErr = core.ErrBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		httpErr = core.ErrUnauthorized
	case errors.Is(err, ErrUserNotFound):
		httpErr = core.ErrNotFound
	case errors.Is(err, ErrEmailTaken):
		httpErr = core.ErrConflict
	case errors.Is(err, ErrGateway):
		httpErr = core.ErrBadGateway
	default:
		core.WriteError(w, err)
		return
	}
	core.WriteError(w, fmt.Errorf("%w: %v", httpErr, err))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
	View  View   `json:"view"`
}

func (rt *router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	user, err := rt.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	token, err := rt.sessions.Issue(user.ID)
	if err != nil {
		core.WriteError(w, core.ErrInternalServerError)
		return
	}
	view, err := ViewFor(user.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user, View: view})
}

func (rt *router) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := bearerToken(r); ok {
		rt.sessions.Revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) handleViews(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	view, err := ViewFor(user.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, view)
}

type createUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (rt *router) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	user, err := rt.svc.CreateUser(r.Context(), CreateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusCreated, user)
}

func (rt *router) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := rt.svc.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSONMeta(w, http.StatusOK, users, map[string]any{"count": len(users)})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (rt *router) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	user, err := rt.svc.UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, user)
}

func (rt *router) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	if err := rt.svc.DeleteUser(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
