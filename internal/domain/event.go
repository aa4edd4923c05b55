// Package domain holds the pure types of the Aura wellness engine.
// Domain types carry no infrastructure dependency.
package domain

import (
	"fmt"
	"time"
)

// EventKind identifies a class of user activity.
type EventKind string

const (
	KindMoodCheckin        EventKind = "mood_checkin"
	KindBoostComplete      EventKind = "boost_complete"
	KindJournalEntry       EventKind = "journal_entry"
	KindMeditationComplete EventKind = "meditation_complete"
	KindWorkoutComplete    EventKind = "workout_complete"
)

// KnownEventKinds lists every kind the engine accepts.
var KnownEventKinds = []EventKind{
	KindMoodCheckin,
	KindBoostComplete,
	KindJournalEntry,
	KindMeditationComplete,
	KindWorkoutComplete,
}

// ActivityEvent is one immutable entry in the per-user activity log.
// Events are append-only: never mutated, never deleted.
type ActivityEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`

	// Kind-specific payload. Zero values mean "not applicable".
	Mood          int     `json:"mood,omitempty"`           // mood_checkin: 1–5
	Ref           string  `json:"ref,omitempty"`            // boost id, session id, entry id
	Points        int64   `json:"points,omitempty"`         // boost_complete: points the boost is worth
	DurationSec   int     `json:"duration_sec,omitempty"`   // meditation/workout
	CompletionPct float64 `json:"completion_pct,omitempty"` // meditation/workout: 0–100
}

// Validate checks the event against its kind-specific schema.
func (e ActivityEvent) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	switch e.Kind {
	case KindMoodCheckin:
		if e.Mood < 1 || e.Mood > 5 {
			return fmt.Errorf("%w: mood must be in 1..5, got %d", ErrValidation, e.Mood)
		}
	case KindBoostComplete:
		if e.Ref == "" {
			return fmt.Errorf("%w: boost_complete requires a boost ref", ErrValidation)
		}
		if e.Points < 0 {
			return fmt.Errorf("%w: boost points must be >= 0, got %d", ErrValidation, e.Points)
		}
	case KindJournalEntry:
		// No payload constraints — the entry itself lives in the journal store.
	case KindMeditationComplete, KindWorkoutComplete:
		if e.Ref == "" {
			return fmt.Errorf("%w: %s requires a session ref", ErrValidation, e.Kind)
		}
		if e.CompletionPct < 0 || e.CompletionPct > 100 {
			return fmt.Errorf("%w: completion must be in 0..100, got %.1f", ErrValidation, e.CompletionPct)
		}
	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrValidation, e.Kind)
	}
	return nil
}

// DateKey returns the UTC calendar date string ("2006-01-02") for t.
// All daily bookkeeping (scores, caps, streaks) is keyed by UTC date.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey parses a UTC date key back into the start of that day.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", key, time.UTC)
}

// DaysBetween returns the whole calendar days from key a to key b (b - a).
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDateKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDateKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
