package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code              string `json:"code"`
	Detail            string `json:"detail"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{model.ErrDuplicateEmail, http.StatusConflict, "DuplicateEmail"},
	{model.ErrUserDoesNotExist, http.StatusUnauthorized, "UserDoesNotExist"},
	{model.ErrWrongPassword, http.StatusUnauthorized, "WrongPassword"},
	{model.ErrTokenInvalidSignature, http.StatusUnauthorized, "InvalidSignature"},
	{model.ErrTokenExpired, http.StatusUnauthorized, "Expired"},
	{model.ErrTokenMissing, http.StatusUnauthorized, "Malformed"},
	{model.ErrTokenMalformed, http.StatusUnauthorized, "Malformed"},
	{model.ErrPasswordMismatch, http.StatusBadRequest, "PasswordMismatch"},
	{model.ErrInvalidRole, http.StatusBadRequest, "InvalidRole"},
	{model.ErrInvalidInput, http.StatusBadRequest, "InvalidInput"},
	{model.ErrEmailMismatch, http.StatusBadRequest, "EmailMismatch"},
	{model.ErrNoRequestFound, http.StatusBadRequest, "NoRequestFound"},
	{model.ErrCodeExpired, http.StatusBadRequest, "CodeExpired"},
	{model.ErrInvalidCode, http.StatusBadRequest, "InvalidCode"},
	{model.ErrTooManyAttempts, http.StatusTooManyRequests, "TooManyAttempts"},
	{model.ErrNotFound, http.StatusNotFound, "NotFound"},
}

// toResponse maps err to a status code and body. Unknown errors become an
// opaque 500.
func toResponse(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{
			Code:   strings.ReplaceAll(http.StatusText(httpErr.Code), " ", ""),
			Detail: fmt.Sprint(httpErr.Message),
		}
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := ErrorResponse{Code: m.code, Detail: err.Error()}
		var invalid *model.InvalidCodeError
		if errors.As(err, &invalid) {
			remaining := invalid.Remaining
			resp.RemainingAttempts = &remaining
		}
		return m.status, resp
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:   "Internal",
		Detail: "internal server error",
	}
}

// NewErrorHandler returns the echo error handler that renders ErrorResponse.
func NewErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := toResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("HTTP handler: request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err.Error())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			logger.Error("HTTP handler: failed to write error response",
				"error", err.Error())
		}
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidInput}, args...)...)
}
