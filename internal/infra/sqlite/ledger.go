package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
)

// ─── Points Ledger ──────────────────────────────────────────────────────────

// InsertTransactionWithStats appends a ledger entry and writes the updated
// user aggregate in a single SQLite transaction. The caller computes the new
// stats; this method only guarantees the pair lands atomically.
func (d *DB) InsertTransactionWithStats(tx domain.PointsTransaction, stats domain.UserAuraStats) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.Exec(
		`INSERT INTO points_ledger (id, user_id, type, source, amount, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, string(tx.Type), tx.Source, tx.Amount, tx.OccurredAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := upsertStats(sqlTx, stats); err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}

	return sqlTx.Commit()
}

// FindEarnBySource returns the earn transaction for (user, source), or nil.
func (d *DB) FindEarnBySource(userID, source string) (*domain.PointsTransaction, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, type, source, amount, occurred_at
		 FROM points_ledger WHERE user_id = ? AND source = ? AND type = 'earn'`,
		userID, source,
	)
	return scanTransaction(row)
}

// LedgerHistory returns a user's most recent transactions, newest first.
func (d *DB) LedgerHistory(userID string, limit int) ([]domain.PointsTransaction, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, source, amount, occurred_at
		 FROM points_ledger WHERE user_id = ? ORDER BY occurred_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PointsTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// LedgerSums returns total earned and spent for a user. Used to verify the
// cached aggregate against the ledger, which is the source of truth.
func (d *DB) LedgerSums(userID string) (earned, spent int64, err error) {
	err = d.db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN type = 'earn' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'spend' THEN amount ELSE 0 END), 0)
		 FROM points_ledger WHERE user_id = ?`,
		userID,
	).Scan(&earned, &spent)
	return earned, spent, err
}

// ─── User Stats ─────────────────────────────────────────────────────────────

// GetStats retrieves a user's cached aggregates. Nil if the user has none yet.
func (d *DB) GetStats(userID string) (*domain.UserAuraStats, error) {
	row := d.db.QueryRow(
		`SELECT user_id, total_points, available_points, daily_points_earned, daily_key,
		        current_streak, longest_streak, streak_shields, last_streak_key
		 FROM user_stats WHERE user_id = ?`,
		userID,
	)
	return scanStats(row)
}

// UpdateStats writes a user's aggregate row outside a ledger transaction.
// Used by the streak tracker, which mutates no ledger rows.
func (d *DB) UpdateStats(stats domain.UserAuraStats) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := upsertStats(tx, stats); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertStats(tx *sql.Tx, s domain.UserAuraStats) error {
	_, err := tx.Exec(
		`INSERT INTO user_stats (user_id, total_points, available_points, daily_points_earned, daily_key,
		                         current_streak, longest_streak, streak_shields, last_streak_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			total_points=excluded.total_points,
			available_points=excluded.available_points,
			daily_points_earned=excluded.daily_points_earned,
			daily_key=excluded.daily_key,
			current_streak=excluded.current_streak,
			longest_streak=excluded.longest_streak,
			streak_shields=excluded.streak_shields,
			last_streak_key=excluded.last_streak_key`,
		s.UserID, s.TotalPoints, s.AvailablePoints, s.DailyPointsEarned, s.DailyKey,
		s.CurrentStreak, s.LongestStreak, s.StreakShields, s.LastStreakKey,
	)
	return err
}

func scanTransaction(s scanner) (*domain.PointsTransaction, error) {
	var t domain.PointsTransaction
	var occurredAt int64

	err := s.Scan(&t.ID, &t.UserID, &t.Type, &t.Source, &t.Amount, &occurredAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	t.OccurredAt = time.Unix(occurredAt, 0).UTC()
	return &t, nil
}

func scanStats(s scanner) (*domain.UserAuraStats, error) {
	var st domain.UserAuraStats

	err := s.Scan(&st.UserID, &st.TotalPoints, &st.AvailablePoints,
		&st.DailyPointsEarned, &st.DailyKey,
		&st.CurrentStreak, &st.LongestStreak, &st.StreakShields, &st.LastStreakKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan stats: %w", err)
	}
	return &st, nil
}
