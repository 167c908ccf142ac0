package memory

import (
	"context"
	"sync"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.AuditStore = (*AuditStore)(nil)

type AuditStore struct {
	mu      sync.RWMutex
	entries []model.AuditEntry
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Append(_ context.Context, entry model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

func (s *AuditStore) Recent(_ context.Context, limit int) ([]model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(len(s.entries)-limit, 0)
	out := make([]model.AuditEntry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out, nil
}

func (s *AuditStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.entries)), nil
}
