package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// PasswordHasher is a mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (_m *PasswordHasher) Hash(password string) (string, error) {
	ret := _m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (_m *PasswordHasher) Verify(password, hash string) bool {
	ret := _m.Called(password, hash)
	return ret.Bool(0)
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (_m *TokenManager) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	ret := _m.Called(subject, ttl)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	ret := _m.Called(userID)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	ret := _m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FieldEncryptor is a mock of model.FieldEncryptor.
type FieldEncryptor struct {
	mock.Mock
}

func (_m *FieldEncryptor) Encrypt(plaintext string) (string, error) {
	ret := _m.Called(plaintext)
	return ret.String(0), ret.Error(1)
}

func (_m *FieldEncryptor) Decrypt(ciphertext string) (string, error) {
	ret := _m.Called(ciphertext)
	return ret.String(0), ret.Error(1)
}

func NewFieldEncryptor(t testingT) *FieldEncryptor {
	m := &FieldEncryptor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
