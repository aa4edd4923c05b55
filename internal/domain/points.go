package domain

import "time"

// TxType distinguishes ledger entry directions.
type TxType string

const (
	TxEarn  TxType = "earn"
	TxSpend TxType = "spend"
)

// PointsTransaction is one entry in the append-only points ledger.
// The ledger is the source of truth; UserAuraStats carries derived aggregates.
type PointsTransaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       TxType    `json:"type"`
	Source     string    `json:"source"` // idempotency key for earns, e.g. "boost:breathe-1:2024-01-05"
	Amount     int64     `json:"amount"` // >= 0
	OccurredAt time.Time `json:"occurred_at"`
}

// UserAuraStats is the cached per-user aggregate over the ledger and streak
// state. Mutated only by the points ledger and the streak tracker, always
// inside a transaction with the write that caused the change.
type UserAuraStats struct {
	UserID            string `json:"user_id"`
	TotalPoints       int64  `json:"total_points"`
	AvailablePoints   int64  `json:"available_points"`
	DailyPointsEarned int64  `json:"daily_points_earned"`
	DailyKey          string `json:"daily_key"` // UTC date the daily counter covers
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	StreakShields     int    `json:"streak_shields"`
	LastStreakKey     string `json:"last_streak_key"`
	Level             int    `json:"level"`
}

// AwardResult reports what an award call actually credited.
// Granted < Requested means the daily cap clamped the award; Duplicate means
// an earn with the same source already existed and nothing was written.
type AwardResult struct {
	TransactionID string `json:"transaction_id"`
	Requested     int64  `json:"requested"`
	Granted       int64  `json:"granted"`
	Capped        bool   `json:"capped"`
	Duplicate     bool   `json:"duplicate"`
}
