package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// MaxMessageLength bounds direct message text in bytes.
const MaxMessageLength = 4096

// Messages handles direct messages between users.
type Messages struct {
	messageStore model.MessageStore
	userStore    model.UserStore
	encryptor    model.FieldEncryptor
	logger       *logger.Logger
	now          func() time.Time
}

func NewMessages(messageStore model.MessageStore, userStore model.UserStore, encryptor model.FieldEncryptor, logger *logger.Logger) *Messages {
	return &Messages{
		messageStore: messageStore,
		userStore:    userStore,
		encryptor:    encryptor,
		logger:       logger,
		now:          time.Now,
	}
}

// Send stores a message from sender to recipient. The text is encrypted at rest.
func (m *Messages) Send(ctx context.Context, sender, recipient uuid.UUID, text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > MaxMessageLength {
		return model.Message{}, fmt.Errorf("%w: message must be 1..%d bytes", model.ErrInvalidInput, MaxMessageLength)
	}
	if sender == recipient {
		return model.Message{}, fmt.Errorf("%w: cannot message yourself", model.ErrInvalidInput)
	}

	if _, err := m.userStore.GetByID(ctx, recipient); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Message{}, fmt.Errorf("%w: recipient", model.ErrNotFound)
		}
		return model.Message{}, fmt.Errorf("failed to get recipient: %w", err)
	}

	ciphertext, err := m.encryptor.Encrypt(text)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to encrypt message: %w", err)
	}

	saved, err := m.messageStore.Create(ctx, model.Message{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Text:        ciphertext,
		CreatedAt:   m.now(),
	})
	if err != nil {
		m.logger.Error("Message service: failed to store message",
			"sender_id", sender,
			"error", err.Error())
		return model.Message{}, fmt.Errorf("failed to store message: %w", err)
	}

	saved.Text = text
	return saved, nil
}

// Conversation returns the decrypted messages between a and b ordered by date.
func (m *Messages) Conversation(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	messages, err := m.messageStore.Conversation(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	for i := range messages {
		plain, err := m.encryptor.Decrypt(messages[i].Text)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt message: %w", err)
		}
		messages[i].Text = plain
	}
	return messages, nil
}
