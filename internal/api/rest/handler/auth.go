package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.SessionResult, error)
	Login(ctx context.Context, email, password string) (model.SessionResult, error)
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	MedID           string `json:"med_id"`
	Role            string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Auth handles registration and login.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, logger: logger}
}

// Register creates an account and responds 201 with a token.
func (h *Auth) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	result, err := h.authService.Register(c.Request().Context(), model.RegisterParams{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		MedID:           req.MedID,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, TokenResponse{AccessToken: result.AccessToken, TokenType: "bearer"})
}

// Login verifies credentials and responds with a token.
func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{AccessToken: result.AccessToken, TokenType: "bearer"})
}
