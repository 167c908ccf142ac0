// Package memory provides mutex-guarded in-process stores for development
// and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return model.User{}, model.ErrDuplicateEmail
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user, nil
}

func (s *UserStore) DeleteByID(_ context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	return 1, nil
}

// Ping always succeeds.
func (s *UserStore) Ping(context.Context) error {
	return nil
}
