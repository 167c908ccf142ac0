package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users. Text is ciphertext at rest.
type Message struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Text        string
	CreatedAt   time.Time
}

// MessageStore persists direct messages.
type MessageStore interface {
	Create(ctx context.Context, msg Message) (Message, error)
	// Conversation returns messages exchanged between a and b ordered by date.
	Conversation(ctx context.Context, a, b uuid.UUID) ([]Message, error)
	DeleteBySender(ctx context.Context, senderID uuid.UUID) (int64, error)
}
