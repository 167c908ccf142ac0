//go:build integration

package redis_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/medapp-server/internal/config"
	"github.com/dtroode/medapp-server/internal/model"
	repo "github.com/dtroode/medapp-server/internal/repository/redis"
)

var addr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	addr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestDeletionRepository(t *testing.T) {
	ctx := context.Background()
	client, err := repo.NewClient(ctx, config.Redis{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := repo.NewDeletionRepository(client, time.Hour)
	require.NoError(t, store.Ping(ctx))
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	err = store.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
		return model.DeletionKeep, nil
	})
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, store.Upsert(ctx, model.DeletionRequest{
		UserID: userID, Code: "123456", Email: "a@b.c", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now,
	}))

	err = store.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
		req.Attempts++
		return model.DeletionKeep, &model.InvalidCodeError{Remaining: 2}
	})
	require.ErrorIs(t, err, model.ErrInvalidCode)

	ttl, err := client.TTL(ctx, "deletion:"+userID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour, "attempt update keeps the ttl")

	err = store.Update(ctx, userID, func(req *model.DeletionRequest) (model.DeletionDecision, error) {
		assert.Equal(t, 1, req.Attempts)
		assert.Equal(t, "123456", req.Code)
		return model.DeletionKeep, nil
	})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, userID, func(*model.DeletionRequest) (model.DeletionDecision, error) {
				return model.DeletionDrop, nil
			})
			if err == nil {
				mu.Lock()
				consumed++
				mu.Unlock()
			} else if !errors.Is(err, model.ErrNotFound) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, consumed)
}
