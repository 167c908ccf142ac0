package model

import (
	"context"

	"github.com/google/uuid"
)

type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
	SetClientIPToContext(ctx context.Context, ip string) context.Context
	GetClientIPFromContext(ctx context.Context) string
}
