package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

const (
	keyPrefix  = "deletion:"
	maxRetries = 10
)

var _ model.DeletionStore = (*DeletionRepository)(nil)

// DeletionRepository stores one JSON document per user. Keys outlive the
// request expiry by the retention period so late confirmations can still be
// told apart from missing requests; redis evicts them afterwards.
type DeletionRepository struct {
	client    redis.UniversalClient
	retention time.Duration
	now       func() time.Time
}

func NewDeletionRepository(client redis.UniversalClient, retention time.Duration) *DeletionRepository {
	return &DeletionRepository{
		client:    client,
		retention: retention,
		now:       time.Now,
	}
}

type deletionDocument struct {
	UserID    uuid.UUID `json:"user_id"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (r *DeletionRepository) Upsert(ctx context.Context, req model.DeletionRequest) error {
	data, err := json.Marshal(deletionDocument(req))
	if err != nil {
		return fmt.Errorf("failed to marshal deletion request: %w", err)
	}

	ttl := req.ExpiresAt.Sub(r.now()) + r.retention
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, key(req.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store deletion request: %w", err)
	}
	return nil
}

// Update uses optimistic locking: the key is watched and the write happens in
// a MULTI block that fails if another client touched the key in between.
func (r *DeletionRepository) Update(ctx context.Context, userID uuid.UUID, fn model.DeletionUpdateFunc) error {
	k := key(userID)

	var fnErr error
	txf := func(tx *redis.Tx) error {
		fnErr = nil

		data, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return model.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read deletion request: %w", err)
		}

		var doc deletionDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal deletion request: %w", err)
		}

		req := model.DeletionRequest(doc)
		decision, err := fn(&req)
		fnErr = err

		updated, err := json.Marshal(deletionDocument(req))
		if err != nil {
			return fmt.Errorf("failed to marshal deletion request: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if decision == model.DeletionDrop {
				pipe.Del(ctx, k)
			} else {
				pipe.Set(ctx, k, updated, redis.KeepTTL)
			}
			return nil
		})
		return err
	}

	for range maxRetries {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		return fnErr
	}

	return fmt.Errorf("failed to update deletion request: too much contention")
}

// PurgeExpired is a no-op because redis evicts keys on its own.
func (r *DeletionRepository) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *DeletionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
