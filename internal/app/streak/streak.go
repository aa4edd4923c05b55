// Package streak implements the consecutive-day activity streak tracker.
// Evaluation is lazy — it runs on the next qualifying activity, comparing
// UTC date keys. Streak shields bridge gap days instead of breaking.
package streak

import (
	"fmt"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/metrics"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// DefaultMilestones are the streak lengths that grant a shield and trigger
// a milestone cheer.
var DefaultMilestones = []int{7, 30, 100}

// Tracker manages per-user streak state.
type Tracker struct {
	db         *sqlite.DB
	milestones []int
}

// NewTracker creates a streak tracker. A nil milestones slice uses defaults.
func NewTracker(db *sqlite.DB, milestones []int) *Tracker {
	if milestones == nil {
		milestones = DefaultMilestones
	}
	return &Tracker{db: db, milestones: milestones}
}

// Evaluate advances the user's streak for a qualifying activity at the given
// time. Idempotent within a day: a second evaluation for the same UTC date
// is a no-op, guarded by lastStreakKey.
//
// Gap handling: 0 days → no-op; 1 day → increment; >1 days → consume
// (gap-1) shields if available (streak continues, "save"), else reset to 1.
func (t *Tracker) Evaluate(userID string, at time.Time) (domain.StreakResult, error) {
	stats, err := t.db.GetStats(userID)
	if err != nil {
		return domain.StreakResult{}, fmt.Errorf("get stats: %w", err)
	}
	if stats == nil {
		stats = &domain.UserAuraStats{UserID: userID}
	}

	today := domain.DateKey(at)
	res := domain.StreakResult{CurrentStreak: stats.CurrentStreak, LastStreakKey: stats.LastStreakKey}

	if stats.LastStreakKey == "" {
		// First qualifying activity ever
		stats.CurrentStreak = 1
		res.Extended = true
	} else {
		gap, err := domain.DaysBetween(stats.LastStreakKey, today)
		if err != nil {
			return res, fmt.Errorf("compare date keys: %w", err)
		}

		switch {
		case gap <= 0:
			// Already counted today — no-op
			return res, nil

		case gap == 1:
			stats.CurrentStreak++
			res.Extended = true

		default:
			missed := gap - 1
			if stats.StreakShields >= missed {
				// Bridge the gap: streak continues uninterrupted
				stats.StreakShields -= missed
				stats.CurrentStreak++
				res.Saved = true
				res.ShieldsUsed = missed
				metrics.StreakSaves.Inc()
			} else {
				stats.CurrentStreak = 1
				res.Broke = true
				metrics.StreakBreaks.Inc()
			}
		}
	}

	stats.LastStreakKey = today
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}

	if (res.Extended || res.Saved) && t.isMilestone(stats.CurrentStreak) {
		res.Milestone = stats.CurrentStreak
		stats.StreakShields++ // milestones grant one shield
	}

	if err := t.db.UpdateStats(*stats); err != nil {
		return res, fmt.Errorf("save streak state: %w", err)
	}

	res.CurrentStreak = stats.CurrentStreak
	res.LastStreakKey = stats.LastStreakKey
	return res, nil
}

// Current returns the user's streak fields from the cached aggregate.
func (t *Tracker) Current(userID string) (current, longest, shields int, lastKey string, err error) {
	stats, err := t.db.GetStats(userID)
	if err != nil {
		return 0, 0, 0, "", fmt.Errorf("get stats: %w", err)
	}
	if stats == nil {
		return 0, 0, 0, "", nil
	}
	return stats.CurrentStreak, stats.LongestStreak, stats.StreakShields, stats.LastStreakKey, nil
}

func (t *Tracker) isMilestone(days int) bool {
	for _, m := range t.milestones {
		if days == m {
			return true
		}
	}
	return false
}
