package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/medapp-server/internal/mocks"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/testutil"
)

func TestDeletion_RequestDeletion(t *testing.T) {
	userID := uuid.New()
	svc := servermocks.NewDeletionService(t)
	h := NewDeletion(svc, ctxManager, testutil.MakeNoopLogger())

	svc.On("RequestDeletion", mock.Anything, userID, "alice@test.com").
		Return(model.DeletionTicket{ExpiresIn: 10 * time.Minute}, nil)

	c, rec := newContext(http.MethodPost, "/user/request-delete", `{"email":"alice@test.com"}`, userID)
	require.NoError(t, h.RequestDeletion(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp RequestDeletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 600, resp.ExpiresIn)
}

func TestDeletion_RequestDeletion_Unauthenticated(t *testing.T) {
	h := NewDeletion(servermocks.NewDeletionService(t), ctxManager, testutil.MakeNoopLogger())

	c, _ := newContext(http.MethodPost, "/user/request-delete", `{}`, uuid.Nil)
	require.ErrorIs(t, h.RequestDeletion(c), model.ErrTokenMissing)
}

func TestDeletion_ConfirmDeletion(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := servermocks.NewDeletionService(t)
		h := NewDeletion(svc, ctxManager, testutil.MakeNoopLogger())
		svc.On("ConfirmDeletion", mock.Anything, userID, "123456").Return(model.DeletionResult{
			Items:   model.DeletedItems{Profile: 1, Messages: 4, Files: 2, Connections: 1},
			AuditID: "audit-1",
		}, nil)

		c, rec := newContext(http.MethodDelete, "/user/delete", `{"code":"123456"}`, userID)
		require.NoError(t, h.ConfirmDeletion(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"status": "deleted",
			"message": "Your account and all associated data have been deleted",
			"deleted_items": {"profile": 1, "messages": 4, "files": 2, "connections": 1},
			"audit_id": "audit-1"
		}`, rec.Body.String())
	})

	t.Run("confirmation_code alias", func(t *testing.T) {
		svc := servermocks.NewDeletionService(t)
		h := NewDeletion(svc, ctxManager, testutil.MakeNoopLogger())
		svc.On("ConfirmDeletion", mock.Anything, userID, "654321").Return(model.DeletionResult{}, nil)

		c, _ := newContext(http.MethodDelete, "/user/delete", `{"confirmation_code":"654321"}`, userID)
		require.NoError(t, h.ConfirmDeletion(c))
	})

	t.Run("missing code", func(t *testing.T) {
		h := NewDeletion(servermocks.NewDeletionService(t), ctxManager, testutil.MakeNoopLogger())

		c, _ := newContext(http.MethodDelete, "/user/delete", `{}`, userID)
		require.ErrorIs(t, h.ConfirmDeletion(c), model.ErrInvalidInput)
	})

	t.Run("invalid code", func(t *testing.T) {
		svc := servermocks.NewDeletionService(t)
		h := NewDeletion(svc, ctxManager, testutil.MakeNoopLogger())
		svc.On("ConfirmDeletion", mock.Anything, userID, "000000").
			Return(model.DeletionResult{}, &model.InvalidCodeError{Remaining: 1})

		c, _ := newContext(http.MethodDelete, "/user/delete", `{"code":"000000"}`, userID)
		err := h.ConfirmDeletion(c)
		var invalid *model.InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 1, invalid.Remaining)
	})
}

func TestDeletion_AuditLog(t *testing.T) {
	userID := uuid.New()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"default", "", 50},
		{"explicit", "?limit=10", 10},
		{"capped", "?limit=10000", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := servermocks.NewDeletionService(t)
			h := NewDeletion(svc, ctxManager, testutil.MakeNoopLogger())
			svc.On("AuditLog", mock.Anything, tt.wantLimit).Return([]model.AuditEntry{{
				ID:        "id-1",
				Action:    model.AuditAccountDeleted,
				UserID:    userID,
				IP:        "10.0.0.1",
				Timestamp: ts,
				DeletedItems: &model.DeletedItems{
					Profile: 1,
				},
			}}, int64(7), nil)

			c, rec := newContext(http.MethodGet, "/admin/audit-log"+tt.query, "", userID)
			require.NoError(t, h.AuditLog(c))

			var resp AuditLogResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, int64(7), resp.Total)
			require.Len(t, resp.Logs, 1)
			assert.Equal(t, "account_deleted", resp.Logs[0].Action)
			assert.True(t, ts.Equal(resp.Logs[0].Timestamp))
		})
	}

	t.Run("invalid limit", func(t *testing.T) {
		h := NewDeletion(servermocks.NewDeletionService(t), ctxManager, testutil.MakeNoopLogger())

		c, _ := newContext(http.MethodGet, "/admin/audit-log?limit=abc", "", userID)
		require.ErrorIs(t, h.AuditLog(c), model.ErrInvalidInput)
	})
}
