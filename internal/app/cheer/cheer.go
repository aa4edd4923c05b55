// Package cheer implements the friend graph and the cheer fan-out.
// When a streak is saved by a shield or hits a milestone, every accepted
// friend gets a lightweight notice. Delivery is best-effort: one friend's
// failed write never rolls back the others.
package cheer

import (
	"fmt"
	"log"
	"time"

	"github.com/aura-wellness/aura/internal/domain"
	"github.com/aura-wellness/aura/internal/infra/metrics"
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// Dispatcher manages friend edges and cheer notices.
type Dispatcher struct {
	db *sqlite.DB
}

// NewDispatcher creates a cheer dispatcher.
func NewDispatcher(db *sqlite.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// ─── Friend Graph ───────────────────────────────────────────────────────────

// Add creates a pending edge from owner to friend. Adding an already
// accepted friend is a no-op.
func (c *Dispatcher) Add(ownerID, friendID string) error {
	if ownerID == "" || friendID == "" {
		return fmt.Errorf("%w: both user ids are required", domain.ErrValidation)
	}
	if ownerID == friendID {
		return domain.ErrSelfFriend
	}

	existing, err := c.db.GetFriendEdge(ownerID, friendID)
	if err != nil {
		return fmt.Errorf("get edge: %w", err)
	}
	if existing != nil && existing.Status == domain.FriendAccepted {
		return nil
	}

	return c.db.UpsertFriendEdge(domain.FriendEdge{
		OwnerID:   ownerID,
		FriendID:  friendID,
		Status:    domain.FriendPending,
		CreatedAt: time.Now().UTC(),
	})
}

// Accept accepts a pending request from requesterID to ownerID.
// Both directed edges become accepted, keeping the graph symmetric.
func (c *Dispatcher) Accept(ownerID, requesterID string) error {
	if ownerID == requesterID {
		return domain.ErrSelfFriend
	}

	edge, err := c.db.GetFriendEdge(requesterID, ownerID)
	if err != nil {
		return fmt.Errorf("get edge: %w", err)
	}
	if edge == nil {
		return domain.ErrEdgeNotFound
	}

	now := time.Now().UTC()
	if err := c.db.UpsertFriendEdge(domain.FriendEdge{
		OwnerID: requesterID, FriendID: ownerID,
		Status: domain.FriendAccepted, CreatedAt: edge.CreatedAt,
	}); err != nil {
		return fmt.Errorf("accept forward edge: %w", err)
	}
	if err := c.db.UpsertFriendEdge(domain.FriendEdge{
		OwnerID: ownerID, FriendID: requesterID,
		Status: domain.FriendAccepted, CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("accept reverse edge: %w", err)
	}
	return nil
}

// Friends returns a user's edges, optionally filtered by status.
func (c *Dispatcher) Friends(userID string, status domain.FriendStatus) ([]domain.FriendEdge, error) {
	return c.db.ListFriends(userID, status)
}

// VerifySymmetry reports accepted edges whose reverse edge is not accepted.
// The model does not enforce symmetry; this surfaces violations instead of
// silently repairing them.
func (c *Dispatcher) VerifySymmetry() ([]domain.FriendEdge, error) {
	return c.db.AsymmetricAcceptedEdges()
}

// ─── Cheer Fan-Out ──────────────────────────────────────────────────────────

// Dispatch fans a streak-save or milestone out to the user's accepted
// friends. Returns the number of notices delivered; per-friend failures are
// logged and skipped, at most once per friend per trigger.
func (c *Dispatcher) Dispatch(fromUID string, res domain.StreakResult, at time.Time) (int, error) {
	kind, body := noticeFor(res)
	if kind == "" {
		return 0, nil
	}

	friends, err := c.db.ListFriends(fromUID, domain.FriendAccepted)
	if err != nil {
		return 0, fmt.Errorf("list friends: %w", err)
	}

	sent := 0
	for _, f := range friends {
		_, err := c.db.InsertCheerNotice(domain.CheerNotice{
			FromUID:   fromUID,
			ToUID:     f.FriendID,
			Kind:      kind,
			Body:      body,
			CreatedAt: at.UTC(),
		})
		if err != nil {
			log.Printf("[cheer] notice to %s failed: %v", f.FriendID, err)
			metrics.CheersFailed.Inc()
			continue
		}
		sent++
		metrics.CheersSent.WithLabelValues(string(kind)).Inc()
	}
	return sent, nil
}

// Pending returns unseen notices addressed to a user, newest first.
func (c *Dispatcher) Pending(userID string, limit int) ([]domain.CheerNotice, error) {
	return c.db.ListPendingCheers(userID, limit)
}

// MarkSeen marks a notice as seen.
func (c *Dispatcher) MarkSeen(id int64) error {
	return c.db.MarkCheerSeen(id)
}

// noticeFor maps a streak result to a notice kind and body.
// Saves win over milestones when both happen in one evaluation.
func noticeFor(res domain.StreakResult) (domain.CheerKind, string) {
	switch {
	case res.Saved:
		return domain.CheerStreakSave,
			fmt.Sprintf("kept a %d-day streak alive with a shield", res.CurrentStreak)
	case res.Milestone > 0:
		return domain.CheerMilestone,
			fmt.Sprintf("reached a %d-day streak", res.Milestone)
	default:
		return "", ""
	}
}
