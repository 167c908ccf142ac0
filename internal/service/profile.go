package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// Profile serves the authenticated user's own account data.
type Profile struct {
	userStore model.UserStore
	encryptor model.FieldEncryptor
	storage   model.Storage
	logger    *logger.Logger
}

func NewProfile(userStore model.UserStore, encryptor model.FieldEncryptor, storage model.Storage, logger *logger.Logger) *Profile {
	return &Profile{userStore: userStore, encryptor: encryptor, storage: storage, logger: logger}
}

// Get returns the decrypted profile of the user.
func (p *Profile) Get(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	user, err := p.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrUserDoesNotExist
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user: %w", err)
	}

	profile := model.Profile{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	fields := []struct {
		dst *string
		src string
	}{
		{&profile.FirstName, user.FirstName},
		{&profile.LastName, user.LastName},
		{&profile.MedID, user.MedID},
	}
	for _, f := range fields {
		plain, err := p.encryptor.Decrypt(f.src)
		if err != nil {
			p.logger.Error("Profile service: failed to decrypt profile",
				"user_id", userID,
				"error", err.Error())
			return model.Profile{}, fmt.Errorf("failed to decrypt profile: %w", err)
		}
		*f.dst = plain
	}

	return profile, nil
}

// SetAvatar stores the user's avatar, replacing the previous one.
func (p *Profile) SetAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, size int64, contentType string) error {
	key := model.AvatarKey(userID.String())
	if err := p.storage.Upload(ctx, key, r, size, contentType); err != nil {
		p.logger.Error("Profile service: failed to store avatar",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	p.logger.Info("Profile service: avatar updated",
		"user_id", userID,
		"size", size)
	return nil
}

// Avatar opens the user's avatar. It returns model.ErrNotFound when none is set.
func (p *Profile) Avatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	rc, err := p.storage.Download(ctx, model.AvatarKey(userID.String()))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	return rc, nil
}
