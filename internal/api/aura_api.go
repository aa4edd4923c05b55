package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aura-wellness/aura/internal/domain"
)

// --- POST /api/activity ---

type activityRequest struct {
	UserID        string     `json:"user_id"`
	Kind          string     `json:"kind"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
	Mood          int        `json:"mood,omitempty"`
	Ref           string     `json:"ref,omitempty"`
	Points        int64      `json:"points,omitempty"`
	DurationSec   int        `json:"duration_sec,omitempty"`
	CompletionPct float64    `json:"completion_pct,omitempty"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev := domain.ActivityEvent{
		UserID:        req.UserID,
		Kind:          domain.EventKind(req.Kind),
		Mood:          req.Mood,
		Ref:           req.Ref,
		Points:        req.Points,
		DurationSec:   req.DurationSec,
		CompletionPct: req.CompletionPct,
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = *req.OccurredAt
	}

	result, err := s.engine.RecordActivity(ev)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/stats/{userID} ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stats, err := s.engine.Points().Stats(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- POST /api/points/spend ---

type spendRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tx, err := s.engine.Spend(req.UserID, req.Amount, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// --- GET /api/points/{userID}/history ---

func (s *Server) handlePointsHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 50)

	txs, err := s.engine.Points().History(userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}

// --- GET /api/score/{userID}?date=YYYY-MM-DD ---

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		dateKey = domain.DateKey(time.Now())
	} else if _, err := domain.ParseDateKey(dateKey); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	ds, err := s.engine.Scores().ScoreFor(userID, dateKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// --- GET /api/streak/{userID} ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	current, longest, shields, lastKey, err := s.engine.Streaks().Current(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":         userID,
		"current_streak":  current,
		"longest_streak":  longest,
		"streak_shields":  shields,
		"last_streak_key": lastKey,
	})
}

// --- POST /api/friends ---

type friendRequest struct {
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id"`
}

func (s *Server) handleFriendAdd(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.Cheers().Add(req.UserID, req.FriendID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

// --- POST /api/friends/accept ---

func (s *Server) handleFriendAccept(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.Cheers().Accept(req.UserID, req.FriendID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// --- GET /api/friends/{userID}?status= ---

func (s *Server) handleFriendList(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	status := domain.FriendStatus(r.URL.Query().Get("status"))

	edges, err := s.engine.Cheers().Friends(userID, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"friends": edges,
	})
}

// --- GET /api/cheers/{userID} ---

func (s *Server) handleCheerList(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 50)

	notices, err := s.engine.Cheers().Pending(userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cheers": notices,
	})
}

// --- POST /api/cheers/{id}/seen ---

func (s *Server) handleCheerSeen(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cheer id")
		return
	}

	if err := s.engine.Cheers().MarkSeen(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
