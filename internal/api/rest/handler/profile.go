package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// MaxAvatarSize bounds uploaded avatars.
const MaxAvatarSize = 5 << 20

// ProfileService defines access to the caller's own account data.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, size int64, contentType string) error
	Avatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error)
}

// ProfileResponse is the wire form of model.Profile.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	MedID     string    `json:"med_id"`
}

// Profile handles the /user/me and avatar endpoints.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Profile) Me(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}

	p, err := h.profileService.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      string(p.Role),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		MedID:     p.MedID,
	})
}

// UploadAvatar stores the raw request body as the caller's avatar.
func (h *Profile) UploadAvatar(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}

	req := c.Request()
	if req.ContentLength <= 0 {
		return badRequest("avatar body with Content-Length is required")
	}
	if req.ContentLength > MaxAvatarSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "avatar exceeds 5 MiB")
	}

	contentType := req.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(c.Response(), req.Body, MaxAvatarSize)
	if err := h.profileService.SetAvatar(req.Context(), userID, body, req.ContentLength, contentType); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Profile) Avatar(c echo.Context) error {
	userID, err := userIDFromContext(c, h.contextManager)
	if err != nil {
		return err
	}

	rc, err := h.profileService.Avatar(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, "application/octet-stream", rc)
}
