package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/testutil"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) (*DeletionRepository, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewDeletionRepository(client, time.Hour)
	r.now = testutil.FixedClock(testNow)
	return r, srv
}

func newRequest(userID uuid.UUID) model.DeletionRequest {
	return model.DeletionRequest{
		UserID:    userID,
		Code:      "123456",
		Email:     "alice@test.com",
		ExpiresAt: testNow.Add(10 * time.Minute),
		CreatedAt: testNow,
	}
}

func TestDeletionRepository_Upsert_TTLIncludesRetention(t *testing.T) {
	r, srv := newTestRepository(t)
	userID := uuid.New()

	require.NoError(t, r.Upsert(context.Background(), newRequest(userID)))

	assert.Equal(t, 70*time.Minute, srv.TTL(key(userID)))
}

func TestDeletionRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("missing request", func(t *testing.T) {
		r, _ := newTestRepository(t)

		err := r.Update(ctx, uuid.New(), func(*model.DeletionRequest) (model.DeletionDecision, error) {
			t.Fatal("update func must not run without a request")
			return model.DeletionKeep, nil
		})
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("keep persists changes and ttl", func(t *testing.T) {
		r, srv := newTestRepository(t)
		userID := uuid.New()
		require.NoError(t, r.Upsert(ctx, newRequest(userID)))

		err := r.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
			req.Attempts++
			return model.DeletionKeep, &model.InvalidCodeError{Remaining: 2}
		})
		require.ErrorIs(t, err, model.ErrInvalidCode)
		assert.Equal(t, 70*time.Minute, srv.TTL(key(userID)))

		var seen model.DeletionRequest
		require.NoError(t, r.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
			seen = *req
			return model.DeletionKeep, nil
		}))
		assert.Equal(t, 1, seen.Attempts)
		assert.Equal(t, "123456", seen.Code)
		assert.True(t, seen.ExpiresAt.Equal(testNow.Add(10*time.Minute)))
	})

	t.Run("drop removes the key and returns the func error", func(t *testing.T) {
		r, srv := newTestRepository(t)
		userID := uuid.New()
		require.NoError(t, r.Upsert(ctx, newRequest(userID)))

		err := r.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
			return model.DeletionDrop, model.ErrCodeExpired
		})
		require.ErrorIs(t, err, model.ErrCodeExpired)
		assert.False(t, srv.Exists(key(userID)))
	})

	t.Run("retries when the key changes concurrently", func(t *testing.T) {
		r, _ := newTestRepository(t)
		userID := uuid.New()
		require.NoError(t, r.Upsert(ctx, newRequest(userID)))

		calls := 0
		err := r.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
			calls++
			if calls == 1 {
				competing := newRequest(userID)
				competing.Attempts = 1
				require.NoError(t, r.Upsert(ctx, competing))
			}
			req.Attempts++
			return model.DeletionKeep, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)

		var seen model.DeletionRequest
		require.NoError(t, r.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
			seen = *req
			return model.DeletionKeep, nil
		}))
		assert.Equal(t, 2, seen.Attempts)
	})

	t.Run("gives up under constant contention", func(t *testing.T) {
		r, _ := newTestRepository(t)
		userID := uuid.New()
		require.NoError(t, r.Upsert(ctx, newRequest(userID)))

		calls := 0
		err := r.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
			calls++
			require.NoError(t, r.Upsert(ctx, newRequest(userID)))
			return model.DeletionKeep, nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too much contention")
		assert.Equal(t, maxRetries, calls)
	})
}

func TestDeletionRepository_PurgeExpired_NoOp(t *testing.T) {
	r, srv := newTestRepository(t)
	userID := uuid.New()
	require.NoError(t, r.Upsert(context.Background(), newRequest(userID)))

	n, err := r.PurgeExpired(context.Background(), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.True(t, srv.Exists(key(userID)))
}

func TestDeletionRepository_Ping(t *testing.T) {
	r, srv := newTestRepository(t)
	require.NoError(t, r.Ping(context.Background()))

	srv.Close()
	require.Error(t, r.Ping(context.Background()))
}
