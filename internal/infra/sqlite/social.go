package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
)

// ─── Friend Edges ───────────────────────────────────────────────────────────

// UpsertFriendEdge inserts or updates a directed friend edge.
func (d *DB) UpsertFriendEdge(e domain.FriendEdge) error {
	_, err := d.db.Exec(
		`INSERT INTO friends (owner_id, friend_id, status, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner_id, friend_id) DO UPDATE SET status=excluded.status`,
		e.OwnerID, e.FriendID, string(e.Status), e.CreatedAt.Unix(),
	)
	return err
}

// GetFriendEdge retrieves one directed edge. Nil if absent.
func (d *DB) GetFriendEdge(ownerID, friendID string) (*domain.FriendEdge, error) {
	row := d.db.QueryRow(
		`SELECT owner_id, friend_id, status, created_at
		 FROM friends WHERE owner_id = ? AND friend_id = ?`,
		ownerID, friendID,
	)
	return scanEdge(row)
}

// ListFriends returns a user's edges, optionally filtered by status.
func (d *DB) ListFriends(ownerID string, status domain.FriendStatus) ([]domain.FriendEdge, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = d.db.Query(
			`SELECT owner_id, friend_id, status, created_at
			 FROM friends WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
	} else {
		rows, err = d.db.Query(
			`SELECT owner_id, friend_id, status, created_at
			 FROM friends WHERE owner_id = ? AND status = ? ORDER BY created_at ASC`,
			ownerID, string(status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.FriendEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, *e)
	}
	return edges, rows.Err()
}

// AsymmetricAcceptedEdges returns accepted edges whose reverse edge is not
// accepted. Friendship is intended to be symmetric; these rows violate that.
func (d *DB) AsymmetricAcceptedEdges() ([]domain.FriendEdge, error) {
	rows, err := d.db.Query(
		`SELECT a.owner_id, a.friend_id, a.status, a.created_at
		 FROM friends a
		 LEFT JOIN friends b
		   ON b.owner_id = a.friend_id AND b.friend_id = a.owner_id AND b.status = 'accepted'
		 WHERE a.status = 'accepted' AND b.owner_id IS NULL
		 ORDER BY a.owner_id, a.friend_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.FriendEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, *e)
	}
	return edges, rows.Err()
}

// ─── Cheer Notices ──────────────────────────────────────────────────────────

// InsertCheerNotice appends a cheer notice for one friend.
func (d *DB) InsertCheerNotice(n domain.CheerNotice) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO cheer_notices (from_uid, to_uid, kind, body, created_at, seen)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.FromUID, n.ToUID, string(n.Kind), n.Body, n.CreatedAt.Unix(), n.Seen,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListPendingCheers returns unseen notices addressed to a user, newest first.
func (d *DB) ListPendingCheers(toUID string, limit int) ([]domain.CheerNotice, error) {
	rows, err := d.db.Query(
		`SELECT id, from_uid, to_uid, kind, body, created_at, seen
		 FROM cheer_notices WHERE to_uid = ? AND seen = 0
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		toUID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []domain.CheerNotice
	for rows.Next() {
		var n domain.CheerNotice
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.FromUID, &n.ToUID, &n.Kind, &n.Body, &createdAt, &n.Seen); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// MarkCheerSeen marks a notice as seen.
func (d *DB) MarkCheerSeen(id int64) error {
	_, err := d.db.Exec(`UPDATE cheer_notices SET seen = 1 WHERE id = ?`, id)
	return err
}

func scanEdge(s scanner) (*domain.FriendEdge, error) {
	var e domain.FriendEdge
	var createdAt int64

	err := s.Scan(&e.OwnerID, &e.FriendID, &e.Status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan friend edge: %w", err)
	}

	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &e, nil
}
