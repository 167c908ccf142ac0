package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restctx "github.com/dtroode/medapp-server/internal/api/rest/context"
	"github.com/dtroode/medapp-server/internal/logger"
	servermocks "github.com/dtroode/medapp-server/internal/mocks"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/testutil"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticate_Handle(t *testing.T) {
	ctxManager := restctx.NewManager()
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		tokens := servermocks.NewTokenService(t)
		tokens.On("Authenticate", mock.Anything, "good").Return(userID, nil)
		m := NewAuthenticate(tokens, ctxManager, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		c := echo.New().NewContext(req, httptest.NewRecorder())

		var got uuid.UUID
		err := m.Handle(func(c echo.Context) error {
			got, _ = ctxManager.GetUserIDFromContext(c.Request().Context())
			return nil
		})(c)

		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing header", func(t *testing.T) {
		m := NewAuthenticate(servermocks.NewTokenService(t), ctxManager, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())

		err := m.Handle(func(echo.Context) error {
			t.Fatal("next must not run")
			return nil
		})(c)
		require.ErrorIs(t, err, model.ErrTokenMissing)
	})

	t.Run("rejected token", func(t *testing.T) {
		tokens := servermocks.NewTokenService(t)
		tokens.On("Authenticate", mock.Anything, "old").Return(uuid.Nil, model.ErrTokenExpired)
		m := NewAuthenticate(tokens, ctxManager, testutil.MakeNoopLogger())

		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer old")
		c := echo.New().NewContext(req, httptest.NewRecorder())

		err := m.Handle(func(echo.Context) error { return nil })(c)
		require.ErrorIs(t, err, model.ErrTokenExpired)
	})
}

func TestClientIP(t *testing.T) {
	ctxManager := restctx.NewManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c := echo.New().NewContext(req, httptest.NewRecorder())

	var got string
	err := ClientIP(ctxManager)(func(c echo.Context) error {
		got = ctxManager.GetClientIPFromContext(c.Request().Context())
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", got)
}

func TestLogging_Handle(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogging(logger.NewWithFormat(&buf, 0, "json"))

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.NoContent(http.StatusTeapot)
	}
	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := l.Handle(func(echo.Context) error { return assert.AnError })(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/brew"`)
}
