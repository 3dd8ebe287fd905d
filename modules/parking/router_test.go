package parking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/parking"
)

func newTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture(t)
	srv := httptest.NewServer(parking.NewRouter(f.svc))
	t.Cleanup(srv.Close)
	return srv, f
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouterEntryExit(t *testing.T) {
	t.Parallel()
	srv, f := newTestServer(t)
	area := f.createArea(t, "Lot", 5, 3000)

	resp := postJSON(t, srv.URL+"/transactions/entry", map[string]any{
		"plate_number":    "b 1234 xyz",
		"vehicle_type":    "motor",
		"parking_area_id": area.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data parking.Transaction `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "B 1234 XYZ", created.Data.PlateNumber)
	assert.Equal(t, parking.StatusParked, created.Data.Status)

	f.now = f.now.Add(time.Hour)
	resp = postJSON(t, srv.URL+"/transactions/"+created.Data.ID.String()+"/exit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var done struct {
		Data parking.Transaction `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&done))
	assert.Equal(t, parking.StatusCompleted, done.Data.Status)
	assert.Equal(t, int64(3000), done.Data.Amount)

	// Exiting twice maps the state conflict to 409.
	resp = postJSON(t, srv.URL+"/transactions/"+created.Data.ID.String()+"/exit", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouterErrorMapping(t *testing.T) {
	t.Parallel()
	srv, f := newTestServer(t)
	area := f.createArea(t, "Lot", 5, 0)

	full := f.createArea(t, "Full", 1, 0)
	_, err := f.svc.RecordEntry(t.Context(), parking.EntryInput{
		PlateNumber: "B 0 Z", VehicleType: "motor", AreaID: full.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{
			name: "empty plate", method: http.MethodPost, path: "/transactions/entry",
			body:   map[string]any{"plate_number": " ", "vehicle_type": "motor", "parking_area_id": area.ID},
			status: http.StatusBadRequest,
		},
		{
			name: "bad vehicle type", method: http.MethodPost, path: "/transactions/entry",
			body:   map[string]any{"plate_number": "B 1 A", "vehicle_type": "truck", "parking_area_id": area.ID},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown area", method: http.MethodPost, path: "/transactions/entry",
			body:   map[string]any{"plate_number": "B 1 A", "vehicle_type": "motor", "parking_area_id": uuid.New()},
			status: http.StatusNotFound,
		},
		{
			name: "full area", method: http.MethodPost, path: "/transactions/entry",
			body:   map[string]any{"plate_number": "B 2 B", "vehicle_type": "motor", "parking_area_id": full.ID},
			status: http.StatusConflict,
		},
		{
			name: "unknown transaction exit", method: http.MethodPost,
			path: "/transactions/" + uuid.NewString() + "/exit", status: http.StatusNotFound,
		},
		{
			name: "malformed transaction id", method: http.MethodPost,
			path: "/transactions/not-a-uuid/exit", status: http.StatusBadRequest,
		},
		{
			name: "zero capacity area", method: http.MethodPost, path: "/areas",
			body:   map[string]any{"name": "Tiny", "total_slots": 0},
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, bytes.NewReader(payload))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouterAreaViews(t *testing.T) {
	t.Parallel()
	srv, f := newTestServer(t)
	area := f.createArea(t, "Lot", 10, 0)

	for range 7 {
		_, err := f.svc.RecordEntry(t.Context(), parking.EntryInput{
			PlateNumber: "B 1 A", VehicleType: "motor", AreaID: area.ID,
		})
		require.NoError(t, err)
	}

	resp, err := http.Get(fmt.Sprintf("%s/areas/%s", srv.URL, area.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			parking.ParkingArea
			Occupancy parking.Occupancy `json:"occupancy"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body.Data.Occupancy.Used)
	assert.Equal(t, 70, body.Data.Occupancy.Percent)
	assert.Equal(t, parking.LevelWarning, body.Data.Occupancy.Level)
}
