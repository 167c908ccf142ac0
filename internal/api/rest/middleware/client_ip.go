package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/model"
)

// ClientIP stores the caller address in the request context for auditing.
func ClientIP(contextManager model.ContextManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := contextManager.SetClientIPToContext(c.Request().Context(), c.RealIP())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
