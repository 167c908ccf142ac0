package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/medapp-server/internal/model"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	u := model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: "h", Role: model.RolePatient}

	_, err := s.Create(ctx, u)
	require.NoError(t, err)

	_, err = s.Create(ctx, model.User{ID: uuid.New(), Email: "a@b.c"})
	require.ErrorIs(t, err, model.ErrDuplicateEmail)

	got, err := s.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	n, err := s.DeleteByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.DeleteByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = s.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.GetByEmail(ctx, "a@b.c")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, model.User{ID: uuid.New(), Email: "race@b.c"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestDeletionStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewDeletionStore()
	userID := uuid.New()

	err := s.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
		t.Fatal("fn must not run for a missing request")
		return model.DeletionKeep, nil
	})
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Upsert(ctx, model.DeletionRequest{UserID: userID, Code: "123456"}))

	err = s.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
		req.Attempts++
		return model.DeletionKeep, model.ErrInvalidCode
	})
	require.ErrorIs(t, err, model.ErrInvalidCode)

	req, ok := s.Get(userID)
	require.True(t, ok)
	assert.Equal(t, 1, req.Attempts)

	err = s.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
		return model.DeletionDrop, model.ErrTooManyAttempts
	})
	require.ErrorIs(t, err, model.ErrTooManyAttempts)

	_, ok = s.Get(userID)
	assert.False(t, ok)
}

func TestDeletionStore_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	s := NewDeletionStore()
	userID := uuid.New()
	require.NoError(t, s.Upsert(ctx, model.DeletionRequest{UserID: userID, Code: "123456"}))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed int
		notFound int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
				return model.DeletionDrop, nil
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				consumed++
			case errors.Is(err, model.ErrNotFound):
				notFound++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, consumed)
	assert.Equal(t, 9, notFound)
}

func TestDeletionStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	s := NewDeletionStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, model.DeletionRequest{UserID: uuid.New(), ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, s.Upsert(ctx, model.DeletionRequest{UserID: uuid.New(), ExpiresAt: now}))

	n, err := s.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuditStore_Recent(t *testing.T) {
	ctx := context.Background()
	s := NewAuditStore()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.Append(ctx, model.AuditEntry{ID: id}))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].ID)
	assert.Equal(t, "3", entries[1].ID)

	entries, err = s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestMessageStore(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = s.Create(ctx, model.Message{SenderID: b, RecipientID: a, Text: "second", CreatedAt: base.Add(time.Second)})
	_, _ = s.Create(ctx, model.Message{SenderID: a, RecipientID: b, Text: "first", CreatedAt: base})
	_, _ = s.Create(ctx, model.Message{SenderID: a, RecipientID: c, Text: "other", CreatedAt: base})

	conv, err := s.Conversation(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "first", conv[0].Text)

	n, err := s.DeleteBySender(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStorage_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	require.NoError(t, s.Upload(ctx, "users/1/avatar", strings.NewReader("a"), 1, ""))
	require.NoError(t, s.Upload(ctx, "users/1/doc", strings.NewReader("b"), 1, ""))
	require.NoError(t, s.Upload(ctx, "users/2/avatar", strings.NewReader("c"), 1, ""))

	rc, err := s.Download(ctx, "users/2/avatar")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))

	n, err := s.DeletePrefix(ctx, "users/1/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := s.Exists(ctx, "users/2/avatar")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Download(ctx, "users/1/avatar")
	require.ErrorIs(t, err, model.ErrNotFound)
}
