// Package events implements the append-only activity log.
// Every user action (mood check-in, boost, journal entry, session completion)
// enters the engine through here. No update or delete is exposed.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/metrics"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// Store validates and appends activity events.
type Store struct {
	db *sqlite.DB
}

// NewStore creates an event store.
func NewStore(db *sqlite.DB) *Store {
	return &Store{db: db}
}

// Append validates and appends an event, returning its id.
// Missing ids are assigned; a zero OccurredAt becomes now.
func (s *Store) Append(e domain.ActivityEvent) (string, error) {
	if err := e.Validate(); err != nil {
		metrics.EventsRejected.Inc()
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	if err := s.db.InsertEvent(e); err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}
	metrics.EventsAppended.WithLabelValues(string(e.Kind)).Inc()
	return e.ID, nil
}

// Query returns a user's events with OccurredAt in [from, to), ascending.
// An empty kind matches all kinds.
func (s *Store) Query(userID string, from, to time.Time, kind domain.EventKind) ([]domain.ActivityEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.db.EventsInRange(userID, from, to, kind)
}

// CountOnDay counts a user's events of one kind on a UTC calendar day.
func (s *Store) CountOnDay(userID, dateKey string, kind domain.EventKind) (int, error) {
	return s.db.CountEventsOnDay(userID, dateKey, kind)
}
