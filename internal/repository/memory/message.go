package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.MessageStore = (*MessageStore)(nil)

type MessageStore struct {
	mu       sync.RWMutex
	messages []model.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) Create(_ context.Context, msg model.Message) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *MessageStore) Conversation(_ context.Context, a, b uuid.UUID) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Message
	for _, m := range s.messages {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(x, y model.Message) int {
		return x.CreatedAt.Compare(y.CreatedAt)
	})
	return out, nil
}

func (s *MessageStore) DeleteBySender(_ context.Context, senderID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.messages)
	s.messages = slices.DeleteFunc(s.messages, func(m model.Message) bool {
		return m.SenderID == senderID
	})
	return int64(before - len(s.messages)), nil
}
