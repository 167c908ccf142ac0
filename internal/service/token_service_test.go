package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/medapp-server/internal/mocks"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/testutil"
)

func TestTokenService_Authenticate(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		manager := servermocks.NewTokenManager(t)
		store := servermocks.NewUserStore(t)

		manager.On("ParseAccessToken", "tok").Return(userID, nil)
		store.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID}, nil)

		got, err := NewTokenService(manager, store, testutil.MakeNoopLogger()).Authenticate(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := NewTokenService(servermocks.NewTokenManager(t), servermocks.NewUserStore(t), testutil.MakeNoopLogger())

		_, err := svc.Authenticate(context.Background(), "")
		require.ErrorIs(t, err, model.ErrTokenMissing)
	})

	t.Run("expired token", func(t *testing.T) {
		manager := servermocks.NewTokenManager(t)
		manager.On("ParseAccessToken", "tok").Return(uuid.Nil, model.ErrTokenExpired)

		_, err := NewTokenService(manager, servermocks.NewUserStore(t), testutil.MakeNoopLogger()).Authenticate(context.Background(), "tok")
		require.ErrorIs(t, err, model.ErrTokenExpired)
	})

	t.Run("deleted subject", func(t *testing.T) {
		manager := servermocks.NewTokenManager(t)
		store := servermocks.NewUserStore(t)

		manager.On("ParseAccessToken", "tok").Return(userID, nil)
		store.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound)

		_, err := NewTokenService(manager, store, testutil.MakeNoopLogger()).Authenticate(context.Background(), "tok")
		require.ErrorIs(t, err, model.ErrUserDoesNotExist)
	})
}
