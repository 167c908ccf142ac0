package model

import "errors"

var (
	ErrTokenMissing          = errors.New("authorization token is missing")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)
