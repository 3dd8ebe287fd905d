package parking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eparking/parkd/core"
)

// RouterOption configures the HTTP router.
type RouterOption func(*router)

// WithOperatorResolver supplies the function used to attribute entries to
// the authenticated operator. Without it entries are stored unattributed.
func WithOperatorResolver(fn func(ctx context.Context) *uuid.UUID) RouterOption {
	return func(r *router) {
		if fn != nil {
			r.operator = fn
		}
	}
}

// RouteGuards carries the middleware applied per operation class. Nil
// fields leave the routes unguarded, which tests rely on. The access
// module supplies the real implementations.
type RouteGuards struct {
	Entry            func(http.Handler) http.Handler
	Exit             func(http.Handler) http.Handler
	ViewTransactions func(http.Handler) http.Handler
	ViewAreas        func(http.Handler) http.Handler
	ManageAreas      func(http.Handler) http.Handler
}

// WithGuards installs authorization middleware on the route classes.
func WithGuards(g RouteGuards) RouterOption {
	return func(r *router) {
		r.guards = g
	}
}

// WithReceiptHandler mounts a handler at GET /transactions/{id}/receipt.
// The receipt itself lives in the reports module; this keeps it on the
// transaction path without coupling the packages.
func WithReceiptHandler(h http.HandlerFunc) RouterOption {
	return func(r *router) {
		r.receipt = h
	}
}

type router struct {
	svc      *Service
	operator func(ctx context.Context) *uuid.UUID
	receipt  http.HandlerFunc
	guards   RouteGuards
}

func guarded(mw func(http.Handler) http.Handler, h http.HandlerFunc) http.HandlerFunc {
	if mw == nil {
		return h
	}
	return mw(h).ServeHTTP
}

// NewRouter exposes the parking service over HTTP. Mount it under the API
// root; all paths below are relative.
func NewRouter(svc *Service, opts ...RouterOption) http.Handler {
	rt := &router{
		svc:      svc,
		operator: func(context.Context) *uuid.UUID { return nil },
	}
	for _, opt := range opts {
		opt(rt)
	}

	g := rt.guards
	r := chi.NewRouter()
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/entry", guarded(g.Entry, rt.handleEntry))
		r.Get("/", guarded(g.ViewTransactions, rt.handleListTransactions))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", guarded(g.ViewTransactions, rt.handleGetTransaction))
			r.Post("/exit", guarded(g.Exit, rt.handleExit))
			r.Patch("/plate", guarded(g.Exit, rt.handleUpdatePlate))
			if rt.receipt != nil {
				r.Get("/receipt", guarded(g.ViewTransactions, rt.receipt))
			}
		})
	})
	r.Route("/areas", func(r chi.Router) {
		r.Get("/", guarded(g.ViewAreas, rt.handleListAreas))
		r.Post("/", guarded(g.ManageAreas, rt.handleCreateArea))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", guarded(g.ViewAreas, rt.handleGetArea))
			r.Put("/", guarded(g.ManageAreas, rt.handleUpdateArea))
			r.Delete("/", guarded(g.ManageAreas, rt.handleDeleteArea))
		})
	})
	return r
}

// respondError translates domain sentinels into HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var httpErr core.HTTPError
	switch {
	case errors.Is(err, ErrEmptyPlateNumber),
		errors.Is(err, ErrInvalidVehicleType),
		errors.Is(err, ErrInvalidCapacity),
		errors.Is(err, ErrInvalidHourlyRate),
		errors.Is(err, ErrEmptyAreaName):
		httpErr = core.ErrBadRequest
	case errors.Is(err, ErrAreaNotFound), errors.Is(err, ErrTransactionNotFound):
		httpErr = core.ErrNotFound
	case errors.Is(err, ErrNotParked), errors.Is(err, ErrAreaNotEmpty), errors.Is(err, ErrAreaFull):
		httpErr = core.ErrConflict
	case errors.Is(err, ErrGateway):
		httpErr = core.ErrBadGateway
	default:
		core.WriteError(w, err)
		return
	}
	core.WriteError(w, fmt.Errorf("%w: %v", httpErr, err))
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type entryRequest struct {
	PlateNumber   string    `json:"plate_number"`
	VehicleType   string    `json:"vehicle_type"`
	ParkingAreaID uuid.UUID `json:"parking_area_id"`
}

func (rt *router) handleEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	tx, err := rt.svc.RecordEntry(r.Context(), EntryInput{
		PlateNumber: req.PlateNumber,
		VehicleType: req.VehicleType,
		AreaID:      req.ParkingAreaID,
		OperatorID:  rt.operator(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusCreated, tx)
}

func (rt *router) handleExit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	tx, err := rt.svc.RecordExit(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, tx)
}

type plateRequest struct {
	PlateNumber string `json:"plate_number"`
}

func (rt *router) handleUpdatePlate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	var req plateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	tx, err := rt.svc.UpdatePlateNumber(r.Context(), id, req.PlateNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, tx)
}

func (rt *router) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	tx, err := rt.svc.GetTransaction(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, tx)
}

func (rt *router) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := TransactionFilter{
		Status:      TxStatus(q.Get("status")),
		PlateNumber: q.Get("plate_number"),
	}
	if raw := q.Get("area_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			core.WriteError(w, core.ErrBadRequest)
			return
		}
		f.AreaID = id
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			core.WriteError(w, core.ErrBadRequest)
			return
		}
		f.Limit = n
	}
	txs, err := rt.svc.ListTransactions(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSONMeta(w, http.StatusOK, txs, map[string]any{"count": len(txs)})
}

// areaView decorates an area with its derived occupancy snapshot.
type areaView struct {
	ParkingArea
	Occupancy Occupancy `json:"occupancy"`
}

func toAreaView(a ParkingArea) areaView {
	return areaView{ParkingArea: a, Occupancy: a.Occupancy()}
}

type areaRequest struct {
	Name       string `json:"name"`
	TotalSlots int    `json:"total_slots"`
	HourlyRate int64  `json:"hourly_rate"`
}

func (rt *router) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	area, err := rt.svc.CreateArea(r.Context(), AreaInput{
		Name:       req.Name,
		TotalSlots: req.TotalSlots,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusCreated, toAreaView(*area))
}

func (rt *router) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	var req areaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	area, err := rt.svc.UpdateArea(r.Context(), id, AreaInput{
		Name:       req.Name,
		TotalSlots: req.TotalSlots,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, toAreaView(*area))
}

func (rt *router) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	if err := rt.svc.DeleteArea(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) handleGetArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		core.WriteError(w, core.ErrBadRequest)
		return
	}
	area, err := rt.svc.GetArea(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, toAreaView(*area))
}

func (rt *router) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := rt.svc.ListAreas(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]areaView, 0, len(areas))
	for _, a := range areas {
		views = append(views, toAreaView(a))
	}
	core.WriteJSON(w, http.StatusOK, views)
}
