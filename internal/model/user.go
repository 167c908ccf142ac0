package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the kind of account a user holds.
type Role string

const (
	// RolePatient is the default role assigned at registration.
	RolePatient Role = "patient"
	// RoleDoctor marks medical staff accounts.
	RoleDoctor Role = "doctor"
)

// ParseRole maps raw input to a Role. Empty input yields RolePatient.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Create inserts the user atomically. It fails with ErrDuplicateEmail when
	// the normalized email is already taken.
	Create(ctx context.Context, user User) (User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
}

// User represents a stored user with authentication material.
// FirstName, LastName and MedID hold ciphertext produced by a FieldEncryptor.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	FirstName    string
	LastName     string
	MedID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the fields every stored record must carry.
func (u User) Validate() error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if u.Email == "" || u.Email != NormalizeEmail(u.Email) {
		return fmt.Errorf("%w: email must be normalized and non-empty", ErrInvalidInput)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", ErrInvalidInput)
	}
	if u.Role != RolePatient && u.Role != RoleDoctor {
		return fmt.Errorf("%w: %q", ErrInvalidRole, u.Role)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterParams carries registration input as received from a client.
type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	MedID           string
	Role            string
}

// SessionResult is returned after a successful registration or login.
type SessionResult struct {
	UserID      uuid.UUID
	AccessToken string
}

// Profile is the decrypted view of a user.
type Profile struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	FirstName string
	LastName  string
	MedID     string
}
