package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
)

// ─── Activity Event Log ─────────────────────────────────────────────────────
// Append-only: the API exposes insert and range reads, nothing else.

// InsertEvent appends an activity event.
func (d *DB) InsertEvent(e domain.ActivityEvent) error {
	_, err := d.db.Exec(
		`INSERT INTO events (id, user_id, kind, occurred_at, mood, ref, points, duration_sec, completion_pct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Kind), e.OccurredAt.Unix(),
		e.Mood, nullStr(e.Ref), e.Points, e.DurationSec, e.CompletionPct,
	)
	return err
}

// EventsInRange returns a user's events with occurred_at in [from, to),
// ordered ascending. An empty kind matches all kinds.
func (d *DB) EventsInRange(userID string, from, to time.Time, kind domain.EventKind) ([]domain.ActivityEvent, error) {
	var rows *sql.Rows
	var err error
	if kind == "" {
		rows, err = d.db.Query(
			`SELECT id, user_id, kind, occurred_at, mood, ref, points, duration_sec, completion_pct
			 FROM events WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
			 ORDER BY occurred_at ASC, id ASC`,
			userID, from.Unix(), to.Unix(),
		)
	} else {
		rows, err = d.db.Query(
			`SELECT id, user_id, kind, occurred_at, mood, ref, points, duration_sec, completion_pct
			 FROM events WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ? AND kind = ?
			 ORDER BY occurred_at ASC, id ASC`,
			userID, from.Unix(), to.Unix(), string(kind),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// CountEventsOnDay counts a user's events of one kind on a UTC calendar day.
func (d *DB) CountEventsOnDay(userID, dateKey string, kind domain.EventKind) (int, error) {
	start, err := domain.ParseDateKey(dateKey)
	if err != nil {
		return 0, fmt.Errorf("parse date key: %w", err)
	}
	end := start.AddDate(0, 0, 1)

	var count int
	err = d.db.QueryRow(
		`SELECT COUNT(*) FROM events
		 WHERE user_id = ? AND kind = ? AND occurred_at >= ? AND occurred_at < ?`,
		userID, string(kind), start.Unix(), end.Unix(),
	).Scan(&count)
	return count, err
}

func scanEvent(s scanner) (*domain.ActivityEvent, error) {
	var e domain.ActivityEvent
	var occurredAt int64
	var ref sql.NullString

	err := s.Scan(&e.ID, &e.UserID, &e.Kind, &occurredAt,
		&e.Mood, &ref, &e.Points, &e.DurationSec, &e.CompletionPct)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}

	e.OccurredAt = time.Unix(occurredAt, 0).UTC()
	if ref.Valid {
		e.Ref = ref.String
	}
	return &e, nil
}
