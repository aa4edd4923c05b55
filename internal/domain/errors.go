package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Validation failures
// wrap ErrValidation so the API layer can map the whole family to 400.

var (
	// Input validation
	ErrValidation = errors.New("validation failed")

	// Points ledger
	ErrDuplicateAward      = errors.New("award already credited for this source")
	ErrInsufficientBalance = errors.New("insufficient points balance")
	ErrAmountNotPositive   = errors.New("amount must be positive")

	// Concurrency / storage
	ErrConflict           = errors.New("write conflict — retries exhausted")
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// Lookups
	ErrUserNotFound  = errors.New("user has no recorded stats")
	ErrScoreNotFound = errors.New("no daily score recorded for that day")

	// Friend graph
	ErrSelfFriend     = errors.New("cannot friend yourself")
	ErrEdgeNotFound   = errors.New("friend edge not found")
	ErrEdgeNotPending = errors.New("friend edge is not pending")
)
