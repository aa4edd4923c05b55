// Package metrics provides Prometheus metrics for Aura — counters and
// histograms for activity events, scoring, points, streaks, and cheers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Activity ───────────────────────────────────────────────────────────────

// EventsAppended tracks appended activity events by kind.
var EventsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "events_appended_total",
	Help:      "Total activity events appended to the log.",
}, []string{"kind"})

// EventsRejected tracks events rejected by validation.
var EventsRejected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "events_rejected_total",
	Help:      "Total activity events rejected by validation.",
})

// ─── Scoring ────────────────────────────────────────────────────────────────

// ScoreUpdates tracks daily score recomputations.
var ScoreUpdates = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "score_updates_total",
	Help:      "Total daily score recomputations.",
})

// ScoreValue observes computed daily scores.
var ScoreValue = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "aura",
	Name:      "score_value",
	Help:      "Distribution of computed daily scores (0-100).",
	Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
})

// ─── Points ─────────────────────────────────────────────────────────────────

// PointsEarned tracks granted points by source prefix.
var PointsEarned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "points_earned_total",
	Help:      "Total points granted.",
}, []string{"source"})

// PointsSpent tracks spent points.
var PointsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "points_spent_total",
	Help:      "Total points spent.",
})

// AwardsCapped tracks awards clamped by the daily cap.
var AwardsCapped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "awards_capped_total",
	Help:      "Total awards clamped by the daily earning cap.",
})

// AwardsDuplicate tracks idempotent no-op awards.
var AwardsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "awards_duplicate_total",
	Help:      "Total awards skipped because the source was already credited.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakSaves tracks streak gaps bridged by shields.
var StreakSaves = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "streak_saves_total",
	Help:      "Total streak gaps bridged by consuming shields.",
})

// StreakBreaks tracks streak resets.
var StreakBreaks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "streak_breaks_total",
	Help:      "Total streaks broken and reset to 1.",
})

// ─── Cheers ─────────────────────────────────────────────────────────────────

// CheersSent tracks delivered cheer notices by kind.
var CheersSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "cheers_sent_total",
	Help:      "Total cheer notices delivered to friends.",
}, []string{"kind"})

// CheersFailed tracks per-friend delivery failures (best-effort fan-out).
var CheersFailed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aura",
	Name:      "cheers_failed_total",
	Help:      "Total cheer notice writes that failed.",
})
