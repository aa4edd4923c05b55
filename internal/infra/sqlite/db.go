// Package sqlite provides SQLite-based persistent storage for Aura.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Append-only activity log. Events are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS events (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			kind           TEXT NOT NULL,
			occurred_at    INTEGER NOT NULL,
			mood           INTEGER,
			ref            TEXT,
			points         INTEGER,
			duration_sec   INTEGER,
			completion_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_time ON events(user_id, occurred_at)`,

		// Daily wellness composite, one row per (user, UTC day).
		`CREATE TABLE IF NOT EXISTS daily_scores (
			user_id          TEXT NOT NULL,
			date_key         TEXT NOT NULL,
			mood_component   INTEGER NOT NULL,
			boosts_component INTEGER NOT NULL,
			glow_component   INTEGER NOT NULL DEFAULT 0,
			score            INTEGER NOT NULL,
			updated_at       INTEGER NOT NULL,
			PRIMARY KEY (user_id, date_key)
		)`,

		// Points ledger. Earn rows are unique per (user, source) — the source
		// string is the idempotency key.
		`CREATE TABLE IF NOT EXISTS points_ledger (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			type        TEXT NOT NULL,
			source      TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			occurred_at INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_earn_source
			ON points_ledger(user_id, source) WHERE type = 'earn'`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user_time ON points_ledger(user_id, occurred_at)`,

		// Cached per-user aggregates (ledger is the source of truth).
		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id             TEXT PRIMARY KEY,
			total_points        INTEGER NOT NULL DEFAULT 0,
			available_points    INTEGER NOT NULL DEFAULT 0,
			daily_points_earned INTEGER NOT NULL DEFAULT 0,
			daily_key           TEXT NOT NULL DEFAULT '',
			current_streak      INTEGER NOT NULL DEFAULT 0,
			longest_streak      INTEGER NOT NULL DEFAULT 0,
			streak_shields      INTEGER NOT NULL DEFAULT 0,
			last_streak_key     TEXT NOT NULL DEFAULT ''
		)`,

		// Directed friend edges, independently owned per user.
		`CREATE TABLE IF NOT EXISTS friends (
			owner_id   TEXT NOT NULL,
			friend_id  TEXT NOT NULL,
			status     TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (owner_id, friend_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_friends_status ON friends(owner_id, status)`,

		// Cheer notices fanned out to friends on streak saves and milestones.
		`CREATE TABLE IF NOT EXISTS cheer_notices (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			from_uid   TEXT NOT NULL,
			to_uid     TEXT NOT NULL,
			kind       TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			seen       BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cheers_to ON cheer_notices(to_uid, seen)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// IsBusy reports whether err is a SQLite lock/busy contention error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
