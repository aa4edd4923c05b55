// Package api provides the HTTP server for the Aura engine.
// It exposes the activity, stats, points, friends, and cheers endpoints
// plus an SSE feed of live stats snapshots.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aura-wellness/aura/internal/app/engine"
	"github.com/aura-wellness/aura/internal/domain"
)

// Version is the API version string, set at build time via the daemon.
var Version = "dev"

// Server is the Aura HTTP API server.
type Server struct {
	engine         *engine.Engine
	metricsEnabled bool
}

// NewServer creates a new API server over the engine.
func NewServer(eng *engine.Engine) *Server {
	return &Server{engine: eng}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/activity", s.handleActivity)

		r.Get("/stats/{userID}", s.handleStats)
		r.Get("/stats/{userID}/live", s.handleStatsLive)

		r.Post("/points/spend", s.handleSpend)
		r.Get("/points/{userID}/history", s.handlePointsHistory)

		r.Get("/score/{userID}", s.handleScore)
		r.Get("/streak/{userID}", s.handleStreak)

		r.Post("/friends", s.handleFriendAdd)
		r.Post("/friends/accept", s.handleFriendAccept)
		r.Get("/friends/{userID}", s.handleFriendList)

		r.Get("/cheers/{userID}", s.handleCheerList)
		r.Post("/cheers/{id}/seen", s.handleCheerSeen)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrSelfFriend):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrScoreNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
