package model

import (
	"context"
	"io"
)

// Storage keeps binary objects such as avatars.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// DeletePrefix removes every object whose key starts with prefix and
	// returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// UserPrefix is the object key prefix owned by a user.
func UserPrefix(userID string) string {
	return "users/" + userID + "/"
}

// AvatarKey is the object key of a user's avatar.
func AvatarKey(userID string) string {
	return UserPrefix(userID) + "avatar"
}
