package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dtroode/medapp-server/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

type AuditRepository struct {
	db *Connection
}

func NewAuditRepository(db *Connection) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Append(ctx context.Context, entry model.AuditEntry) error {
	var items []byte
	if entry.DeletedItems != nil {
		var err error
		items, err = json.Marshal(entry.DeletedItems)
		if err != nil {
			return fmt.Errorf("failed to marshal deleted items: %w", err)
		}
	}

	query := `INSERT INTO audit_log (id, action, user_id, ip, deleted_items, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, entry.ID, entry.Action, entry.UserID, entry.IP, items, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	query := `SELECT id, action, user_id, ip, deleted_items, created_at
			  FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			e     model.AuditEntry
			items []byte
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.IP, &items, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(items) > 0 {
			e.DeletedItems = &model.DeletedItems{}
			if err := json.Unmarshal(items, e.DeletedItems); err != nil {
				return nil, fmt.Errorf("failed to unmarshal deleted items: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit log: %w", err)
	}

	slices.Reverse(entries)
	return entries, nil
}

func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM audit_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit log: %w", err)
	}
	return n, nil
}
