package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.Storage = (*Storage)(nil)

// Storage keeps objects in a map keyed by object key.
type Storage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{objects: make(map[string][]byte)}
}

func (s *Storage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = data
	return nil
}

func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[key]
	return ok, nil
}

func (s *Storage) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
			n++
		}
	}
	return n, nil
}
