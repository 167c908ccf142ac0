package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// TokenService resolves bearer tokens to existing users.
type TokenService struct {
	manager   model.TokenManager
	userStore model.UserStore
	logger    *logger.Logger
}

func NewTokenService(manager model.TokenManager, userStore model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, userStore: userStore, logger: logger}
}

// Authenticate verifies the token and checks that its subject still exists.
// A valid token of a deleted account yields model.ErrUserDoesNotExist.
func (s *TokenService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, model.ErrTokenMissing
	}

	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected",
			"error", err.Error())
		return uuid.Nil, err
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrUserDoesNotExist
		}
		return uuid.Nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return userID, nil
}
