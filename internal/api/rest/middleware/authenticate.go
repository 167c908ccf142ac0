package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid "Authorization: Bearer" header.
func (m *Authenticate) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return model.ErrTokenMissing
		}

		ctx := c.Request().Context()
		userID, err := m.tokenService.Authenticate(ctx, token)
		if err != nil {
			m.logger.Debug("Authenticate middleware: request rejected",
				"path", c.Path(),
				"error", err.Error())
			return err
		}

		c.SetRequest(c.Request().WithContext(m.contextManager.SetUserIDToContext(ctx, userID)))
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
