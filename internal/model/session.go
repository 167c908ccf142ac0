package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionRegistry tracks live client connections per user.
type SessionRegistry interface {
	// Disconnect closes every connection of the user and returns how many were closed.
	Disconnect(userID uuid.UUID) int
}

// Notifier delivers out-of-band messages to users.
type Notifier interface {
	SendDeletionCode(ctx context.Context, email, code string) error
	SendDeletionConfirmation(ctx context.Context, email string) error
}
