// Package score implements the daily Aura score aggregator.
// The composite is 50% mood, 30% boosts, 20% glow (reserved, always zero),
// recomputed on every mood check-in and merge-upserted per (user, UTC day).
package score

import (
	"fmt"
	"math"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/metrics"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// Aggregator recomputes daily scores from same-day events.
type Aggregator struct {
	db *sqlite.DB
}

// NewAggregator creates a score aggregator.
func NewAggregator(db *sqlite.DB) *Aggregator {
	return &Aggregator{db: db}
}

// MoodNorm normalizes a 1–5 mood to 0–100.
func MoodNorm(mood int) int {
	return clamp(int(math.Round(float64(mood-1)/4.0*100.0)), 0, 100)
}

// BoostsNorm normalizes a same-day boost count to 0–100.
// Five boosts max out the component.
func BoostsNorm(count int) int {
	if count > domain.BoostsPerFullScore {
		count = domain.BoostsPerFullScore
	}
	return clamp(int(math.Round(float64(count)/float64(domain.BoostsPerFullScore)*100.0)), 0, 100)
}

// Composite combines normalized components into the 0–100 Aura score.
func Composite(moodNorm, boostsNorm, glowNorm int) int {
	s := domain.WeightMood*float64(moodNorm) +
		domain.WeightBoosts*float64(boostsNorm) +
		domain.WeightGlow*float64(glowNorm)
	return clamp(int(math.Round(s)), 0, 100)
}

// RecordMoodCheckin recomputes and upserts the day's score for a mood
// check-in at the given time. Later check-ins on the same day overwrite.
// Boost completions alone never trigger recomputation; they are picked up
// by the next same-day check-in.
func (a *Aggregator) RecordMoodCheckin(userID string, mood int, at time.Time) (domain.DailyScore, error) {
	dateKey := domain.DateKey(at)

	boosts, err := a.db.CountEventsOnDay(userID, dateKey, domain.KindBoostComplete)
	if err != nil {
		return domain.DailyScore{}, fmt.Errorf("count boosts: %w", err)
	}

	ds := domain.DailyScore{
		UserID:          userID,
		DateKey:         dateKey,
		MoodComponent:   MoodNorm(mood),
		BoostsComponent: BoostsNorm(boosts),
		GlowComponent:   0, // reserved signal
		UpdatedAt:       at.UTC(),
	}
	ds.Score = Composite(ds.MoodComponent, ds.BoostsComponent, ds.GlowComponent)

	if err := a.db.UpsertDailyScore(ds); err != nil {
		return domain.DailyScore{}, fmt.Errorf("upsert daily score: %w", err)
	}

	metrics.ScoreUpdates.Inc()
	metrics.ScoreValue.Observe(float64(ds.Score))
	return ds, nil
}

// ScoreFor returns the recorded score for (user, day).
// ErrScoreNotFound if the user has not checked in that day.
func (a *Aggregator) ScoreFor(userID, dateKey string) (domain.DailyScore, error) {
	ds, err := a.db.GetDailyScore(userID, dateKey)
	if err != nil {
		return domain.DailyScore{}, fmt.Errorf("get daily score: %w", err)
	}
	if ds == nil {
		return domain.DailyScore{}, domain.ErrScoreNotFound
	}
	return *ds, nil
}

// History returns a user's most recent daily scores, newest first.
func (a *Aggregator) History(userID string, limit int) ([]domain.DailyScore, error) {
	return a.db.ScoreHistory(userID, limit)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
