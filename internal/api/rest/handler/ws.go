package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/realtime"
)

// TokenService resolves the user ID behind a bearer token.
type TokenService interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// SessionHub registers and runs live sessions.
type SessionHub interface {
	Register(s *realtime.Session)
	Unregister(s *realtime.Session)
	Serve(s *realtime.Session)
}

// maxFrameSize bounds inbound frames, which are echoed back to the client.
const maxFrameSize = 4 << 10

// WebSocket upgrades authenticated clients to a live session.
type WebSocket struct {
	tokenService TokenService
	hub          SessionHub
	upgrader     websocket.Upgrader
	logger       *logger.Logger
}

func NewWebSocket(tokenService TokenService, hub SessionHub, logger *logger.Logger) *WebSocket {
	return &WebSocket{
		tokenService: tokenService,
		hub:          hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Connect authenticates the token query parameter before upgrading, so a
// rejected client gets a regular HTTP error response.
func (h *WebSocket) Connect(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.QueryParam("token")

	userID, err := h.tokenService.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Info("WebSocket handler: upgrade failed",
			"user_id", userID,
			"error", err.Error())
		return nil
	}
	conn.SetReadLimit(maxFrameSize)

	s := realtime.NewSession(userID, conn)
	h.hub.Register(s)

	// The account may have been erased between authentication and
	// registration, in which case erasure could not see this session.
	if _, err := h.tokenService.Authenticate(ctx, token); err != nil {
		h.logger.Info("WebSocket handler: session rejected after registration",
			"user_id", userID,
			"error", err.Error())
		h.hub.Unregister(s)
		return nil
	}

	h.logger.Debug("WebSocket handler: session opened",
		"user_id", userID,
		"session_id", s.ID)

	h.hub.Serve(s)

	h.logger.Debug("WebSocket handler: session closed",
		"user_id", userID,
		"session_id", s.ID)
	return nil
}
