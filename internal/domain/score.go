package domain

import "time"

// Score component weights. The glow dimension is a reserved signal that is
// always zero in the current model; its weight is kept so the composite
// formula matches the product definition.
const (
	WeightMood   = 0.5
	WeightBoosts = 0.3
	WeightGlow   = 0.2
)

// BoostsPerFullScore is the boost count that maxes out the boosts component.
const BoostsPerFullScore = 5

// DailyScore is the per-user, per-UTC-day wellness composite.
// Keyed by (UserID, DateKey); later mood check-ins on the same day overwrite
// the record — no history of intermediate values is kept.
type DailyScore struct {
	UserID          string    `json:"user_id"`
	DateKey         string    `json:"date_key"`
	MoodComponent   int       `json:"mood_component"`   // 0–100
	BoostsComponent int       `json:"boosts_component"` // 0–100
	GlowComponent   int       `json:"glow_component"`   // reserved, always 0
	Score           int       `json:"score"`            // 0–100
	UpdatedAt       time.Time `json:"updated_at"`
}
