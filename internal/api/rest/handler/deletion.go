package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// DeletionService defines the code-confirmed account deletion workflow.
type DeletionService interface {
	RequestDeletion(ctx context.Context, userID uuid.UUID, email string) (model.DeletionTicket, error)
	ConfirmDeletion(ctx context.Context, userID uuid.UUID, code string) (model.DeletionResult, error)
	AuditLog(ctx context.Context, limit int) ([]model.AuditEntry, int64, error)
}

type requestDeletionRequest struct {
	Email string `json:"email"`
}

type confirmDeletionRequest struct {
	Code             string `json:"code"`
	ConfirmationCode string `json:"confirmation_code"`
}

// RequestDeletionResponse tells the caller a code is on its way.
type RequestDeletionResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

// ConfirmDeletionResponse reports what was erased.
type ConfirmDeletionResponse struct {
	Status       string             `json:"status"`
	Message      string             `json:"message"`
	DeletedItems model.DeletedItems `json:"deleted_items"`
	AuditID      string             `json:"audit_id"`
}

// AuditLogEntry is the wire form of model.AuditEntry.
type AuditLogEntry struct {
	ID           string              `json:"id"`
	Action       string              `json:"action"`
	UserID       uuid.UUID           `json:"user_id"`
	IP           string              `json:"ip,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
	DeletedItems *model.DeletedItems `json:"deleted_items,omitempty"`
}

// AuditLogResponse is the page returned by the audit log endpoint.
type AuditLogResponse struct {
	Logs  []AuditLogEntry `json:"logs"`
	Total int64           `json:"total"`
}

// Deletion handles the account deletion endpoints.
type Deletion struct {
	deletionService DeletionService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

func NewDeletion(deletionService DeletionService, contextManager model.ContextManager, logger *logger.Logger) *Deletion {
	return &Deletion{
		deletionService: deletionService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// RequestDeletion issues a confirmation code for the caller.
func (h *Deletion) RequestDeletion(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}

	var req requestDeletionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}

	ticket, err := h.deletionService.RequestDeletion(c.Request().Context(), userID, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RequestDeletionResponse{
		Status:    "pending",
		Message:   "A confirmation code has been sent to your email address",
		ExpiresIn: int(ticket.ExpiresIn.Seconds()),
	})
}

// ConfirmDeletion checks the code and erases the caller's account.
func (h *Deletion) ConfirmDeletion(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}

	var req confirmDeletionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	code := req.Code
	if code == "" {
		code = req.ConfirmationCode
	}
	if code == "" {
		return badRequest("code is required")
	}

	result, err := h.deletionService.ConfirmDeletion(c.Request().Context(), userID, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ConfirmDeletionResponse{
		Status:       "deleted",
		Message:      "Your account and all associated data have been deleted",
		DeletedItems: result.Items,
		AuditID:      result.AuditID,
	})
}

// AuditLog returns the most recent audit entries.
func (h *Deletion) AuditLog(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("limit must be a positive integer")
		}
		limit = min(n, maxAuditLimit)
	}

	entries, total, err := h.deletionService.AuditLog(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	logs := make([]AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, AuditLogEntry{
			ID:           e.ID,
			Action:       string(e.Action),
			UserID:       e.UserID,
			IP:           e.IP,
			Timestamp:    e.Timestamp.UTC(),
			DeletedItems: e.DeletedItems,
		})
	}

	return c.JSON(http.StatusOK, AuditLogResponse{Logs: logs, Total: total})
}

func userIDFromContext(c echo.Context, contextManager model.ContextManager) (uuid.UUID, error) {
	userID, ok := contextManager.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, model.ErrTokenMissing
	}
	return userID, nil
}
