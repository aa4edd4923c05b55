package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
)

// ─── Daily Scores ───────────────────────────────────────────────────────────

// UpsertDailyScore writes the day's score with merge semantics: later
// check-ins on the same (user, day) overwrite, last write wins.
func (d *DB) UpsertDailyScore(s domain.DailyScore) error {
	_, err := d.db.Exec(
		`INSERT INTO daily_scores (user_id, date_key, mood_component, boosts_component, glow_component, score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date_key) DO UPDATE SET
			mood_component=excluded.mood_component,
			boosts_component=excluded.boosts_component,
			glow_component=excluded.glow_component,
			score=excluded.score,
			updated_at=excluded.updated_at`,
		s.UserID, s.DateKey, s.MoodComponent, s.BoostsComponent,
		s.GlowComponent, s.Score, s.UpdatedAt.Unix(),
	)
	return err
}

// GetDailyScore retrieves the score for one (user, day). Nil if no mood
// check-in happened that day.
func (d *DB) GetDailyScore(userID, dateKey string) (*domain.DailyScore, error) {
	row := d.db.QueryRow(
		`SELECT user_id, date_key, mood_component, boosts_component, glow_component, score, updated_at
		 FROM daily_scores WHERE user_id = ? AND date_key = ?`,
		userID, dateKey,
	)
	return scanScore(row)
}

// ScoreHistory returns a user's most recent daily scores, newest first.
func (d *DB) ScoreHistory(userID string, limit int) ([]domain.DailyScore, error) {
	rows, err := d.db.Query(
		`SELECT user_id, date_key, mood_component, boosts_component, glow_component, score, updated_at
		 FROM daily_scores WHERE user_id = ? ORDER BY date_key DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.DailyScore
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *s)
	}
	return scores, rows.Err()
}

func scanScore(s scanner) (*domain.DailyScore, error) {
	var ds domain.DailyScore
	var updatedAt int64

	err := s.Scan(&ds.UserID, &ds.DateKey, &ds.MoodComponent,
		&ds.BoostsComponent, &ds.GlowComponent, &ds.Score, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan score: %w", err)
	}

	ds.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &ds, nil
}
