package domain

import "time"

// FriendStatus is the acceptance state of a directed friend edge.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// FriendEdge is a directed, independently-owned friendship edge.
// Friendship is intended to be symmetric but the model does not enforce it;
// VerifySymmetry on the cheer service surfaces asymmetric accepted edges.
type FriendEdge struct {
	OwnerID   string       `json:"owner_id"`
	FriendID  string       `json:"friend_id"`
	Status    FriendStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// CheerKind categorizes cheer notices.
type CheerKind string

const (
	CheerStreakSave CheerKind = "streak_save"
	CheerMilestone  CheerKind = "milestone"
)

// CheerNotice is a lightweight social notification delivered to one friend.
// Delivery is best-effort, at most once per friend per trigger.
type CheerNotice struct {
	ID        int64     `json:"id"`
	FromUID   string    `json:"from_uid"`
	ToUID     string    `json:"to_uid"`
	Kind      CheerKind `json:"kind"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Seen      bool      `json:"seen"`
}
