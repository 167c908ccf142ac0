package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction names an audited event.
type AuditAction string

const (
	AuditDeletionRequested AuditAction = "deletion_requested"
	AuditAccountDeleted    AuditAction = "account_deleted"
)

// AuditEntry is an append-only record of a sensitive operation.
type AuditEntry struct {
	ID           string
	Action       AuditAction
	UserID       uuid.UUID
	IP           string
	Timestamp    time.Time
	DeletedItems *DeletedItems
}

// AuditStore persists audit entries.
type AuditStore interface {
	Append(ctx context.Context, entry AuditEntry) error
	// Recent returns up to limit newest entries in chronological order.
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
	Count(ctx context.Context) (int64, error)
}
