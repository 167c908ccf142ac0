package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.DeletionStore = (*DeletionStore)(nil)

// DeletionStore serializes all updates behind a single mutex.
type DeletionStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]model.DeletionRequest
}

func NewDeletionStore() *DeletionStore {
	return &DeletionStore{requests: make(map[uuid.UUID]model.DeletionRequest)}
}

func (s *DeletionStore) Upsert(_ context.Context, req model.DeletionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[req.UserID] = req
	return nil
}

func (s *DeletionStore) Update(_ context.Context, userID uuid.UUID, fn model.DeletionUpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[userID]
	if !ok {
		return model.ErrNotFound
	}

	decision, err := fn(&req)
	if decision == model.DeletionDrop {
		delete(s.requests, userID)
	} else {
		s.requests[userID] = req
	}
	return err
}

func (s *DeletionStore) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, req := range s.requests {
		if req.ExpiresAt.Before(before) {
			delete(s.requests, id)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the user's pending request.
func (s *DeletionStore) Get(userID uuid.UUID) (model.DeletionRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[userID]
	return req, ok
}
