package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/medapp-server/internal/model"
)

// Claims represents JWT claims with token type. The subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ,omitempty"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	accessTTL time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

const typeAccess = "access"

// Option configures a JWT manager.
type Option func(*JWT)

// WithClock replaces the wall clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

// NewJWT creates a new JWT token manager with the provided secret key and
// lifetime for access tokens.
func NewJWT(secretKey string, accessTTL time.Duration, opts ...Option) *JWT {
	j := &JWT{
		secretKey: []byte(secretKey),
		accessTTL: accessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Issue signs a token for subject valid for ttl. Claims carry whole seconds,
// so the expiry is rounded up and the token never expires before now+ttl.
func (j *JWT) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now.Truncate(time.Second)),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
		},
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); r.Before(t) {
		return r.Add(time.Second)
	}
	return t
}

// GenerateAccessToken issues a token with the configured access lifetime.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return j.Issue(userID, j.accessTTL)
}

// ParseAccessToken validates the token and extracts the user ID from its subject.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	if claims.TokenType != "" && claims.TokenType != typeAccess {
		return uuid.Nil, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenMalformed, claims.TokenType)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", model.ErrTokenMalformed)
	}
	return userID, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return model.ErrTokenInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
}
