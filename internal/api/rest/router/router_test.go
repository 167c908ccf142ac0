package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restctx "github.com/dtroode/medapp-server/internal/api/rest/context"
	servermocks "github.com/dtroode/medapp-server/internal/mocks"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/realtime"
	"github.com/dtroode/medapp-server/internal/testutil"
)

type routerMocks struct {
	auth     *servermocks.AuthService
	tokens   *servermocks.TokenService
	deletion *servermocks.DeletionService
	profile  *servermocks.ProfileService
	messages *servermocks.MessageService
}

func newTestRouter(t *testing.T) (*echo.Echo, routerMocks) {
	t.Helper()
	m := routerMocks{
		auth:     servermocks.NewAuthService(t),
		tokens:   servermocks.NewTokenService(t),
		deletion: servermocks.NewDeletionService(t),
		profile:  servermocks.NewProfileService(t),
		messages: servermocks.NewMessageService(t),
	}
	r := New(Services{
		Auth:     m.auth,
		Tokens:   m.tokens,
		Deletion: m.deletion,
		Profile:  m.profile,
		Messages: m.messages,
		Sessions: realtime.NewHub(testutil.MakeNoopLogger()),
	}, restctx.NewManager(), testutil.MakeNoopLogger())
	return r.Register(), m
}

func serve(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e, m := newTestRouter(t)

	m.auth.On("Register", mock.Anything, mock.Anything).Return(model.SessionResult{AccessToken: "t1"}, nil)
	m.auth.On("Login", mock.Anything, "alice@test.com", "pw").Return(model.SessionResult{}, model.ErrUserDoesNotExist)

	rec := serve(e, http.MethodPost, "/register", `{"email":"alice@test.com","password":"pw","password_confirm":"pw"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(e, http.MethodPost, "/login", `{"email":"alice@test.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":"UserDoesNotExist","detail":"user does not exist"}`, rec.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newTestRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/user/request-delete"},
		{http.MethodDelete, "/user/delete"},
		{http.MethodGet, "/user/me"},
		{http.MethodGet, "/user/avatar"},
		{http.MethodPut, "/user/avatar"},
		{http.MethodGet, "/dm/" + uuid.NewString() + "/messages"},
		{http.MethodPost, "/dm/" + uuid.NewString() + "/messages"},
		{http.MethodGet, "/admin/audit-log"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := serve(e, r.method, r.path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"Malformed"`)
		})
	}
}

func TestRouter_DeletionFlow(t *testing.T) {
	e, m := newTestRouter(t)
	userID := uuid.New()

	m.tokens.On("Authenticate", mock.Anything, "tok").Return(userID, nil)
	m.deletion.On("ConfirmDeletion", mock.Anything, userID, "111111").
		Return(model.DeletionResult{}, &model.InvalidCodeError{Remaining: 2}).Once()
	m.deletion.On("ConfirmDeletion", mock.Anything, userID, "222222").
		Return(model.DeletionResult{}, model.ErrTooManyAttempts).Once()
	m.deletion.On("ConfirmDeletion", mock.Anything, userID, "333333").
		Return(model.DeletionResult{}, model.ErrCodeExpired).Once()

	rec := serve(e, http.MethodDelete, "/user/delete", `{"code":"111111"}`, "tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining_attempts":2`)

	rec = serve(e, http.MethodDelete, "/user/delete", `{"code":"222222"}`, "tok")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = serve(e, http.MethodDelete, "/user/delete", `{"code":"333333"}`, "tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"CodeExpired"`)
}

func TestRouter_PassesClientIPToServices(t *testing.T) {
	e, m := newTestRouter(t)
	userID := uuid.New()
	ctxManager := restctx.NewManager()

	var ip string
	m.tokens.On("Authenticate", mock.Anything, "tok").Return(userID, nil)
	m.deletion.On("RequestDeletion", mock.Anything, userID, "").
		Run(func(args mock.Arguments) {
			ip = ctxManager.GetClientIPFromContext(args.Get(0).(context.Context))
		}).
		Return(model.DeletionTicket{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/user/request-delete", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "198.51.100.7", ip)
}

func TestRouter_UnknownRoute(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NotFound"`)
}
