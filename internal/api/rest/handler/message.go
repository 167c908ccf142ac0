package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// MessageService defines direct messaging between users.
type MessageService interface {
	Send(ctx context.Context, sender, recipient uuid.UUID, text string) (model.Message, error)
	Conversation(ctx context.Context, a, b uuid.UUID) ([]model.Message, error)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is the wire form of model.Message.
type MessageResponse struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message handles the direct message endpoints.
type Message struct {
	messageService MessageService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewMessage(messageService MessageService, contextManager model.ContextManager, logger *logger.Logger) *Message {
	return &Message{
		messageService: messageService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Message) Send(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}
	partnerID, err := uuid.Parse(c.Param("partnerId"))
	if err != nil {
		return badRequest("invalid partner id")
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}

	msg, err := h.messageService.Send(c.Request().Context(), userID, partnerID, req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (h *Message) Conversation(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}
	partnerID, err := uuid.Parse(c.Param("partnerId"))
	if err != nil {
		return badRequest("invalid partner id")
	}

	messages, err := h.messageService.Conversation(c.Request().Context(), userID, partnerID)
	if err != nil {
		return err
	}

	resp := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
