// Package points implements the append-only points ledger.
// Every award and spend appends exactly one transaction and atomically
// updates the cached per-user aggregate. The ledger is the source of truth.
package points

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/metrics"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// DefaultDailyCap is the maximum points a user can earn per UTC day.
const DefaultDailyCap int64 = 50

// Ledger manages the points economy.
type Ledger struct {
	db       *sqlite.DB
	dailyCap int64
}

// NewLedger creates a points ledger. A non-positive cap uses the default.
func NewLedger(db *sqlite.DB, dailyCap int64) *Ledger {
	if dailyCap <= 0 {
		dailyCap = DefaultDailyCap
	}
	return &Ledger{db: db, dailyCap: dailyCap}
}

// Award credits points for a source key at the current time.
func (l *Ledger) Award(userID, source string, amount int64) (domain.AwardResult, error) {
	return l.AwardAt(userID, source, amount, time.Now())
}

// AwardAt credits points for a source key at the given time.
//
// The source string is an idempotency key: a second earn for the same
// (user, source) is a no-op success returning the existing transaction id.
// Awards that would exceed the daily cap are clamped to the remaining
// headroom; the result reports Requested vs Granted.
func (l *Ledger) AwardAt(userID, source string, amount int64, at time.Time) (domain.AwardResult, error) {
	if userID == "" {
		return domain.AwardResult{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if source == "" {
		return domain.AwardResult{}, fmt.Errorf("%w: award source is required", domain.ErrValidation)
	}
	if amount <= 0 {
		return domain.AwardResult{}, fmt.Errorf("%w: got %d", domain.ErrAmountNotPositive, amount)
	}

	res := domain.AwardResult{Requested: amount}

	existing, err := l.db.FindEarnBySource(userID, source)
	if err != nil {
		return res, fmt.Errorf("lookup source: %w", err)
	}
	if existing != nil {
		res.TransactionID = existing.ID
		res.Duplicate = true
		metrics.AwardsDuplicate.Inc()
		return res, nil
	}

	stats, err := l.statsOrZero(userID)
	if err != nil {
		return res, err
	}

	// Roll the daily earning counter at UTC midnight
	today := domain.DateKey(at)
	if stats.DailyKey != today {
		stats.DailyKey = today
		stats.DailyPointsEarned = 0
	}

	headroom := l.dailyCap - stats.DailyPointsEarned
	if headroom < 0 {
		headroom = 0
	}
	granted := amount
	if granted > headroom {
		granted = headroom
		res.Capped = true
		metrics.AwardsCapped.Inc()
	}
	res.Granted = granted

	if granted == 0 {
		// Cap exhausted — nothing to record
		return res, nil
	}

	tx := domain.PointsTransaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       domain.TxEarn,
		Source:     source,
		Amount:     granted,
		OccurredAt: at.UTC(),
	}
	stats.TotalPoints += granted
	stats.AvailablePoints += granted
	stats.DailyPointsEarned += granted

	if err := l.db.InsertTransactionWithStats(tx, stats); err != nil {
		// A concurrent award for the same source can land first; the unique
		// earn index turns that into a duplicate, not a double credit.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			if prior, ferr := l.db.FindEarnBySource(userID, source); ferr == nil && prior != nil {
				res.Granted = 0
				res.Capped = false
				res.TransactionID = prior.ID
				res.Duplicate = true
				metrics.AwardsDuplicate.Inc()
				return res, nil
			}
		}
		return res, fmt.Errorf("record award: %w", err)
	}

	res.TransactionID = tx.ID
	metrics.PointsEarned.WithLabelValues(sourcePrefix(source)).Add(float64(granted))
	return res, nil
}

// Spend debits points from a user's available balance.
func (l *Ledger) Spend(userID string, amount int64, reason string) (domain.PointsTransaction, error) {
	return l.SpendAt(userID, amount, reason, time.Now())
}

// SpendAt debits points at the given time.
func (l *Ledger) SpendAt(userID string, amount int64, reason string, at time.Time) (domain.PointsTransaction, error) {
	if userID == "" {
		return domain.PointsTransaction{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if amount <= 0 {
		return domain.PointsTransaction{}, fmt.Errorf("%w: got %d", domain.ErrAmountNotPositive, amount)
	}

	stats, err := l.statsOrZero(userID)
	if err != nil {
		return domain.PointsTransaction{}, err
	}
	if stats.AvailablePoints < amount {
		return domain.PointsTransaction{}, fmt.Errorf("%w: have %d, need %d",
			domain.ErrInsufficientBalance, stats.AvailablePoints, amount)
	}

	tx := domain.PointsTransaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       domain.TxSpend,
		Source:     "spend:" + reason,
		Amount:     amount,
		OccurredAt: at.UTC(),
	}
	stats.AvailablePoints -= amount

	if err := l.db.InsertTransactionWithStats(tx, stats); err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("record spend: %w", err)
	}

	metrics.PointsSpent.Add(float64(amount))
	return tx, nil
}

// Stats returns a user's aggregates with the derived level filled in.
// Unknown users get a zero-valued record.
func (l *Ledger) Stats(userID string) (domain.UserAuraStats, error) {
	stats, err := l.statsOrZero(userID)
	if err != nil {
		return domain.UserAuraStats{}, err
	}
	stats.Level = LevelForPoints(stats.TotalPoints)
	return stats, nil
}

// History returns a user's most recent transactions, newest first.
func (l *Ledger) History(userID string, limit int) ([]domain.PointsTransaction, error) {
	return l.db.LedgerHistory(userID, limit)
}

// VerifyBalance checks the cached aggregate against the ledger.
// Returns the ledger-derived balance and whether the cache matches.
func (l *Ledger) VerifyBalance(userID string) (int64, bool, error) {
	earned, spent, err := l.db.LedgerSums(userID)
	if err != nil {
		return 0, false, fmt.Errorf("ledger sums: %w", err)
	}
	stats, err := l.statsOrZero(userID)
	if err != nil {
		return 0, false, err
	}
	derived := earned - spent
	return derived, derived == stats.AvailablePoints, nil
}

// DailyCap returns the configured daily earning ceiling.
func (l *Ledger) DailyCap() int64 { return l.dailyCap }

func (l *Ledger) statsOrZero(userID string) (domain.UserAuraStats, error) {
	stats, err := l.db.GetStats(userID)
	if err != nil {
		return domain.UserAuraStats{}, fmt.Errorf("get stats: %w", err)
	}
	if stats == nil {
		return domain.UserAuraStats{UserID: userID}, nil
	}
	return *stats, nil
}

// ─── Level Curve ────────────────────────────────────────────────────────────

// PointsForLevel returns the cumulative points required to reach a level.
// Exponential curve: 100 * 1.2^(level-1) for level >= 2.
func PointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(100 * math.Pow(1.2, float64(level-1)))
}

// LevelForPoints returns the level for a lifetime points total.
// Monotonic step function, capped at 100.
func LevelForPoints(points int64) int {
	level := 1
	for level < 100 {
		if points < PointsForLevel(level+1) {
			return level
		}
		level++
	}
	return 100
}

// sourcePrefix reduces a source key to its category for metric labels,
// e.g. "boost:breathe-1:2024-01-05" → "boost".
func sourcePrefix(source string) string {
	if i := strings.IndexByte(source, ':'); i > 0 {
		return source[:i]
	}
	return source
}
