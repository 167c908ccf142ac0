package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeletionRequest is a pending, code-protected account deletion.
// At most one exists per user.
type DeletionRequest struct {
	UserID    uuid.UUID
	Code      string
	Email     string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
}

// Expired reports whether the request is no longer valid at now.
// A request is still valid at exactly ExpiresAt.
func (r DeletionRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// DeletionDecision tells a DeletionStore what to do with a request after an update.
type DeletionDecision int

const (
	// DeletionKeep persists the (possibly modified) request.
	DeletionKeep DeletionDecision = iota
	// DeletionDrop removes the request.
	DeletionDrop
)

// DeletionUpdateFunc inspects and mutates a request while the store holds it
// exclusively. The returned decision is applied even when err is non-nil.
type DeletionUpdateFunc func(req *DeletionRequest) (DeletionDecision, error)

// DeletionStore persists pending deletion requests.
type DeletionStore interface {
	// Upsert stores req, replacing any existing request of the same user.
	Upsert(ctx context.Context, req DeletionRequest) error
	// Update runs fn on the user's request under exclusive access and applies
	// its decision. It returns ErrNotFound when no request exists, otherwise
	// the error returned by fn.
	Update(ctx context.Context, userID uuid.UUID, fn DeletionUpdateFunc) error
	// PurgeExpired removes requests that expired before the given time.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// DeletedItems counts what an erasure removed.
type DeletedItems struct {
	Profile     int64 `json:"profile"`
	Messages    int64 `json:"messages"`
	Files       int   `json:"files"`
	Connections int   `json:"connections"`
}

// DeletionTicket describes a freshly issued deletion request.
type DeletionTicket struct {
	ExpiresIn time.Duration
}

// DeletionResult is returned by a successful confirmation.
type DeletionResult struct {
	Items   DeletedItems
	AuditID string
}
