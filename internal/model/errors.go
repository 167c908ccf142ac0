package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Account errors.
var (
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrUserDoesNotExist = errors.New("user does not exist")
	ErrWrongPassword    = errors.New("wrong password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmailMismatch    = errors.New("email does not match account")
)

// Deletion workflow errors.
var (
	ErrNoRequestFound  = errors.New("no deletion request found, please request deletion first")
	ErrCodeExpired     = errors.New("confirmation code expired, please request deletion again")
	ErrTooManyAttempts = errors.New("too many failed attempts, please request deletion again")
	ErrInvalidCode     = errors.New("invalid confirmation code")
)

// InvalidCodeError reports a wrong confirmation code together with the
// number of attempts left before the request is destroyed.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("%s, %d attempts remaining", ErrInvalidCode, e.Remaining)
}

// Is makes errors.Is(err, ErrInvalidCode) hold for *InvalidCodeError.
func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidCode
}
