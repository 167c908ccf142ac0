package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	restctx "github.com/dtroode/medapp-server/internal/api/rest/context"
)

var ctxManager = restctx.NewManager()

// newContext builds an echo context for a JSON request. A non-nil userID is
// stored as the authenticated caller.
func newContext(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != uuid.Nil {
		req = req.WithContext(ctxManager.SetUserIDToContext(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}
