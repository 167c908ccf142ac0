package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
)

// Logging writes one access log line per request.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle renders handler errors itself so the logged status is the one sent
// to the client.
func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_ip", c.RealIP(),
		}

		switch {
		case status >= 500:
			l.logger.Error("HTTP request completed", args...)
		case status >= 400:
			l.logger.Warn("HTTP request completed", args...)
		default:
			l.logger.Info("HTTP request completed", args...)
		}
		return nil
	}
}
