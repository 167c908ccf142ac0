package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.MessageStore = (*MessageRepository)(nil)

type MessageRepository struct {
	db *Connection
}

func NewMessageRepository(db *Connection) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	query := `INSERT INTO messages (id, sender_id, recipient_id, text, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, sender_id, recipient_id, text, created_at`

	var saved model.Message
	err := r.db.QueryRow(ctx, query, msg.ID, msg.SenderID, msg.RecipientID, msg.Text, msg.CreatedAt).
		Scan(&saved.ID, &saved.SenderID, &saved.RecipientID, &saved.Text, &saved.CreatedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to create message: %w", err)
	}

	return saved, nil
}

func (r *MessageRepository) Conversation(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	query := `SELECT id, sender_id, recipient_id, text, created_at
			  FROM messages
			  WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
			  ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) DeleteBySender(ctx context.Context, senderID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1`, senderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
