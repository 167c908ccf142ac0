package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and verifies signed bearer tokens.
type TokenManager interface {
	// Issue signs a token for subject that expires after ttl.
	Issue(subject uuid.UUID, ttl time.Duration) (string, error)
	// GenerateAccessToken issues a token with the configured access TTL.
	GenerateAccessToken(userID uuid.UUID) (string, error)
	// ParseAccessToken returns the token subject or one of ErrTokenMalformed,
	// ErrTokenInvalidSignature, ErrTokenExpired.
	ParseAccessToken(token string) (uuid.UUID, error)
}

// PasswordHasher computes and checks adaptive password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password reproduces hash. Malformed hashes yield false.
	Verify(password, hash string) bool
}

// FieldEncryptor encrypts individual fields at rest.
type FieldEncryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
