package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/core"
	"github.com/eparking/parkd/modules/realtime"
)

func TestRealtimeRouter(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	srv := httptest.NewServer(realtime.NewRouter(h.agg))
	t.Cleanup(srv.Close)

	h.enter(t, "B 1 A")
	waitFeedLen(t, h.agg, 1)
	require.Eventually(t, func() bool {
		return h.agg.Stats().CurrentlyParked == 1
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("notifications", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/notifications")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body core.JSONResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		items, ok := body.Data.([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
	})

	t.Run("stats", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/stats")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data realtime.DailyStats `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 1, body.Data.CurrentlyParked)
	})

	t.Run("clear", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, srv.URL+"/notifications", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, h.agg.Notifications())
	})
}
