package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// --- GET /api/stats/{userID}/live (SSE) ---

// handleStatsLive streams stats snapshots for one user as server-sent
// events. The current state is sent immediately, then every change until
// the client disconnects. Snapshots may coalesce for slow consumers.
func (s *Server) handleStatsLive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, cancel := s.engine.Subscribe(userID)
	defer cancel()

	// Initial snapshot so clients render without waiting for a change
	if stats, err := s.engine.Points().Stats(userID); err == nil {
		writeSSE(w, stats)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case stats, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, stats)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
