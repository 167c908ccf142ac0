// Package context stores request scoped values for HTTP handlers.
package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

type contextKey int

const (
	userIDKey contextKey = iota
	clientIPKey
)

var _ model.ContextManager = (*Manager)(nil)

// Manager keeps the authenticated user ID and the client address in a context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext reports false when no user is set or the stored ID is nil.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (m *Manager) SetClientIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func (m *Manager) GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
