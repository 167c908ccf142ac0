package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/password"
)

type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	encryptor model.FieldEncryptor
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	encryptor model.FieldEncryptor,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		encryptor: encryptor,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates an account and returns a session for it. Uniqueness of
// the email is left to the store so that concurrent registrations of the
// same address cannot both succeed.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.SessionResult, error) {
	email := model.NormalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if email == "" || params.Password == "" {
		return model.SessionResult{}, fmt.Errorf("%w: email and password are required", model.ErrInvalidInput)
	}
	if len(params.Password) > password.MaxLength {
		return model.SessionResult{}, fmt.Errorf("%w: password longer than %d bytes", model.ErrInvalidInput, password.MaxLength)
	}
	if params.Password != params.PasswordConfirm {
		return model.SessionResult{}, model.ErrPasswordMismatch
	}

	role, err := model.ParseRole(params.Role)
	if err != nil {
		return model.SessionResult{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.SessionResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := a.encryptProfile(&user, params); err != nil {
		return model.SessionResult{}, err
	}
	now := a.now()
	user.CreatedAt, user.UpdatedAt = now, now

	if err := user.Validate(); err != nil {
		return model.SessionResult{}, err
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrDuplicateEmail) {
		a.logger.Info("Auth service: email already registered",
			"email", email)
		return model.SessionResult{}, model.ErrDuplicateEmail
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.SessionResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokens.GenerateAccessToken(saved.ID)
	if err != nil {
		return model.SessionResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", saved.ID,
		"role", saved.Role)

	return model.SessionResult{UserID: saved.ID, AccessToken: token}, nil
}

// Login verifies credentials and returns a fresh session.
func (a *Auth) Login(ctx context.Context, email, plain string) (model.SessionResult, error) {
	email = model.NormalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return model.SessionResult{}, model.ErrUserDoesNotExist
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.SessionResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(plain, user.PasswordHash) {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.SessionResult{}, model.ErrWrongPassword
	}

	token, err := a.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return model.SessionResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return model.SessionResult{UserID: user.ID, AccessToken: token}, nil
}

func (a *Auth) encryptProfile(user *model.User, params model.RegisterParams) error {
	fields := []struct {
		dst *string
		src string
	}{
		{&user.FirstName, params.FirstName},
		{&user.LastName, params.LastName},
		{&user.MedID, params.MedID},
	}
	for _, f := range fields {
		enc, err := a.encryptor.Encrypt(f.src)
		if err != nil {
			return fmt.Errorf("failed to encrypt profile: %w", err)
		}
		*f.dst = enc
	}
	return nil
}
