package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.DeletionStore = (*DeletionRepository)(nil)

type DeletionRepository struct {
	db *Connection
}

func NewDeletionRepository(db *Connection) *DeletionRepository {
	return &DeletionRepository{
		db: db,
	}
}

func (r *DeletionRepository) Upsert(ctx context.Context, req model.DeletionRequest) error {
	query := `INSERT INTO deletion_requests (user_id, code, email, expires_at, attempts, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id) DO UPDATE SET
				code = EXCLUDED.code,
				email = EXCLUDED.email,
				expires_at = EXCLUDED.expires_at,
				attempts = EXCLUDED.attempts,
				created_at = EXCLUDED.created_at`

	_, err := r.db.Exec(ctx, query, req.UserID, req.Code, req.Email, req.ExpiresAt, req.Attempts, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert deletion request: %w", err)
	}

	return nil
}

// Update locks the user's row with SELECT ... FOR UPDATE so concurrent
// confirmations are serialized.
func (r *DeletionRepository) Update(ctx context.Context, userID uuid.UUID, fn model.DeletionUpdateFunc) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `SELECT user_id, code, email, expires_at, attempts, created_at
			  FROM deletion_requests WHERE user_id = $1 FOR UPDATE`

	var req model.DeletionRequest
	err = tx.QueryRow(ctx, query, userID).Scan(
		&req.UserID, &req.Code, &req.Email, &req.ExpiresAt, &req.Attempts, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to lock deletion request: %w", err)
	}

	decision, fnErr := fn(&req)

	switch decision {
	case model.DeletionDrop:
		_, err = tx.Exec(ctx, `DELETE FROM deletion_requests WHERE user_id = $1`, userID)
	default:
		_, err = tx.Exec(ctx, `UPDATE deletion_requests SET attempts = $2 WHERE user_id = $1`, userID, req.Attempts)
	}
	if err != nil {
		return fmt.Errorf("failed to apply deletion request decision: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deletion request: %w", err)
	}

	return fnErr
}

func (r *DeletionRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM deletion_requests WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deletion requests: %w", err)
	}
	return tag.RowsAffected(), nil
}
