package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eparking/parkd/core"
)

// NewRouter exposes the aggregator state over HTTP, including a
// server-sent-events stream pushing a snapshot after every processed
// change.
func NewRouter(agg *Aggregator) http.Handler {
	r := chi.NewRouter()
	r.Get("/notifications", func(w http.ResponseWriter, req *http.Request) {
		core.WriteJSON(w, http.StatusOK, agg.Notifications())
	})
	r.Delete("/notifications", func(w http.ResponseWriter, req *http.Request) {
		agg.Clear(req.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		core.WriteJSON(w, http.StatusOK, agg.Stats())
	})
	r.Get("/stream", streamHandler(agg))
	return r
}

func streamHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			core.WriteError(w, core.ErrInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		ctx := req.Context()
		sub := agg.Subscribe(ctx)
		defer sub.Close() //nolint:errcheck

		// Initial state so clients render without waiting for traffic.
		writeSSE(w, agg.snapshot())
		flusher.Flush()

		ch := sub.Receive(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				writeSSE(w, msg.Data)
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
}
