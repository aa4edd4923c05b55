// Package engine orchestrates the activity pipeline: append the event,
// recompute the daily score, award points, evaluate the streak, and fan
// cheers out to friends — all as one logical operation per user.
//
// All mutations for a given user run under a per-user mutex so near-
// simultaneous activities (two boosts finishing together) serialize instead
// of losing updates. SQLite write contention is retried with backoff.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/aura-wellness/aura/internal/app/cheer"
	"github.com/aura-wellness/aura/internal/app/events"
	"github.com/aura-wellness/aura/internal/app/points"
	"github.com/aura-wellness/aura/internal/app/score"
	"github.com/aura-wellness/aura/internal/app/streak"
	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// PointValues configures how many points each activity kind awards.
// Boost completions carry their own value in the event payload; Boost is
// the fallback when the payload is zero.
type PointValues struct {
	Mood       int64
	Boost      int64
	Journal    int64
	Meditation int64
	Workout    int64
}

// DefaultPointValues returns the product defaults.
func DefaultPointValues() PointValues {
	return PointValues{Mood: 5, Boost: 10, Journal: 10, Meditation: 15, Workout: 15}
}

const (
	maxWriteAttempts = 3
	retryBackoff     = 50 * time.Millisecond
)

// Engine wires the activity pipeline together.
type Engine struct {
	events *events.Store
	score  *score.Aggregator
	streak *streak.Tracker
	points *points.Ledger
	cheer  *cheer.Dispatcher
	values PointValues

	locks sync.Map // userID → *sync.Mutex

	subMu sync.Mutex
	subs  map[string]map[chan domain.UserAuraStats]struct{}
}

// New creates an engine over the given services.
func New(ev *events.Store, sc *score.Aggregator, st *streak.Tracker, pt *points.Ledger, ch *cheer.Dispatcher, values PointValues) *Engine {
	if values == (PointValues{}) {
		values = DefaultPointValues()
	}
	return &Engine{
		events: ev,
		score:  sc,
		streak: st,
		points: pt,
		cheer:  ch,
		values: values,
		subs:   make(map[string]map[chan domain.UserAuraStats]struct{}),
	}
}

// ActivityResult reports everything one recorded activity caused.
type ActivityResult struct {
	EventID    string               `json:"event_id"`
	Score      *domain.DailyScore   `json:"score,omitempty"` // set for mood check-ins
	Award      *domain.AwardResult  `json:"award,omitempty"`
	Streak     domain.StreakResult  `json:"streak"`
	CheersSent int                  `json:"cheers_sent"`
	Stats      domain.UserAuraStats `json:"stats"`
}

// RecordActivity runs the full pipeline for one activity event.
// The userID on the event is trusted — identity is the caller's problem.
func (e *Engine) RecordActivity(ev domain.ActivityEvent) (ActivityResult, error) {
	var res ActivityResult

	if err := ev.Validate(); err != nil {
		return res, err
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	unlock := e.lockUser(ev.UserID)
	defer unlock()

	// 1. Append to the activity log
	err := e.withRetry(func() error {
		id, aerr := e.events.Append(ev)
		if aerr == nil {
			res.EventID = id
		}
		return aerr
	})
	if err != nil {
		return res, err
	}
	if ev.ID == "" {
		ev.ID = res.EventID
	}

	// 2. Recompute the daily score (mood check-ins only)
	if ev.Kind == domain.KindMoodCheckin {
		var ds domain.DailyScore
		err = e.withRetry(func() error {
			var serr error
			ds, serr = e.score.RecordMoodCheckin(ev.UserID, ev.Mood, ev.OccurredAt)
			return serr
		})
		if err != nil {
			return res, err
		}
		res.Score = &ds
	}

	// 3. Award points under the daily cap
	source, amount := e.awardFor(ev)
	if amount > 0 {
		var award domain.AwardResult
		err = e.withRetry(func() error {
			var perr error
			award, perr = e.points.AwardAt(ev.UserID, source, amount, ev.OccurredAt)
			return perr
		})
		if err != nil {
			return res, err
		}
		res.Award = &award
	}

	// 4. Evaluate the streak
	err = e.withRetry(func() error {
		var serr error
		res.Streak, serr = e.streak.Evaluate(ev.UserID, ev.OccurredAt)
		return serr
	})
	if err != nil {
		return res, err
	}

	// 5. Cheer fan-out on saves and milestones (best-effort)
	if res.Streak.Saved || res.Streak.Milestone > 0 {
		sent, err := e.cheer.Dispatch(ev.UserID, res.Streak, ev.OccurredAt)
		if err != nil {
			return res, err
		}
		res.CheersSent = sent
	}

	stats, err := e.points.Stats(ev.UserID)
	if err != nil {
		return res, err
	}
	res.Stats = stats
	e.publish(stats)

	return res, nil
}

// Spend debits points, serialized with the user's other mutations.
func (e *Engine) Spend(userID string, amount int64, reason string) (domain.PointsTransaction, error) {
	unlock := e.lockUser(userID)
	defer unlock()

	var tx domain.PointsTransaction
	err := e.withRetry(func() error {
		var serr error
		tx, serr = e.points.SpendAt(userID, amount, reason, time.Now())
		return serr
	})
	if err != nil {
		return tx, err
	}

	if stats, serr := e.points.Stats(userID); serr == nil {
		e.publish(stats)
	}
	return tx, nil
}

// ─── Stats Subscription ─────────────────────────────────────────────────────

// Subscribe returns a channel of stats snapshots for one user and a cancel
// function. Snapshots may coalesce under load: a slow consumer sees the
// latest state, not every intermediate one. Cancellation is caller-initiated.
func (e *Engine) Subscribe(userID string) (<-chan domain.UserAuraStats, func()) {
	ch := make(chan domain.UserAuraStats, 8)

	e.subMu.Lock()
	if e.subs[userID] == nil {
		e.subs[userID] = make(map[chan domain.UserAuraStats]struct{})
	}
	e.subs[userID][ch] = struct{}{}
	e.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs[userID], ch)
			if len(e.subs[userID]) == 0 {
				delete(e.subs, userID)
			}
			e.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (e *Engine) publish(stats domain.UserAuraStats) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subs[stats.UserID] {
		select {
		case ch <- stats:
		default:
			// Slow consumer — drop the oldest snapshot and retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- stats:
			default:
			}
		}
	}
}

// ─── Internals ──────────────────────────────────────────────────────────────

// awardFor derives the idempotency source key and amount for an event.
// Repeatable activities get date- or id-scoped keys so they stay repeatable
// at the right granularity (one mood award per day, one per boost per day,
// one per meditation/workout session).
func (e *Engine) awardFor(ev domain.ActivityEvent) (string, int64) {
	dateKey := domain.DateKey(ev.OccurredAt)
	switch ev.Kind {
	case domain.KindMoodCheckin:
		return "mood:" + dateKey, e.values.Mood
	case domain.KindBoostComplete:
		amount := ev.Points
		if amount == 0 {
			amount = e.values.Boost
		}
		return fmt.Sprintf("boost:%s:%s", ev.Ref, dateKey), amount
	case domain.KindJournalEntry:
		return "journal:" + ev.ID, e.values.Journal
	case domain.KindMeditationComplete:
		return "meditation_complete:" + ev.Ref, e.values.Meditation
	case domain.KindWorkoutComplete:
		return "workout_complete:" + ev.Ref, e.values.Workout
	default:
		return "", 0
	}
}

// lockUser acquires the per-user mutex, creating it on first use.
func (e *Engine) lockUser(userID string) func() {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// withRetry retries fn on SQLite lock contention with linear backoff.
// Validation and domain errors surface immediately.
func (e *Engine) withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !sqlite.IsBusy(err) {
			return err
		}
		if attempt < maxWriteAttempts {
			time.Sleep(time.Duration(attempt) * retryBackoff)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

// Components exposes the underlying services for read paths.

func (e *Engine) Events() *events.Store     { return e.events }
func (e *Engine) Scores() *score.Aggregator { return e.score }
func (e *Engine) Streaks() *streak.Tracker  { return e.streak }
func (e *Engine) Points() *points.Ledger    { return e.points }
func (e *Engine) Cheers() *cheer.Dispatcher { return e.cheer }
