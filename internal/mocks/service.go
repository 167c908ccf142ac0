package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/medapp-server/internal/model"
)

// AuthService is a mock of the registration and login service.
type AuthService struct {
	mock.Mock
}

func (_m *AuthService) Register(ctx context.Context, params model.RegisterParams) (model.SessionResult, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.SessionResult), ret.Error(1)
}

func (_m *AuthService) Login(ctx context.Context, email, password string) (model.SessionResult, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.SessionResult), ret.Error(1)
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// TokenService is a mock of the bearer token authenticator.
type TokenService struct {
	mock.Mock
}

func (_m *TokenService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// DeletionService is a mock of the account deletion workflow.
type DeletionService struct {
	mock.Mock
}

func (_m *DeletionService) RequestDeletion(ctx context.Context, userID uuid.UUID, email string) (model.DeletionTicket, error) {
	ret := _m.Called(ctx, userID, email)
	return ret.Get(0).(model.DeletionTicket), ret.Error(1)
}

func (_m *DeletionService) ConfirmDeletion(ctx context.Context, userID uuid.UUID, code string) (model.DeletionResult, error) {
	ret := _m.Called(ctx, userID, code)
	return ret.Get(0).(model.DeletionResult), ret.Error(1)
}

func (_m *DeletionService) AuditLog(ctx context.Context, limit int) ([]model.AuditEntry, int64, error) {
	ret := _m.Called(ctx, limit)
	entries, _ := ret.Get(0).([]model.AuditEntry)
	return entries, ret.Get(1).(int64), ret.Error(2)
}

func NewDeletionService(t testingT) *DeletionService {
	m := &DeletionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ProfileService is a mock of the profile service.
type ProfileService struct {
	mock.Mock
}

func (_m *ProfileService) Get(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.Profile), ret.Error(1)
}

func (_m *ProfileService) SetAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, size int64, contentType string) error {
	ret := _m.Called(ctx, userID, r, size, contentType)
	return ret.Error(0)
}

func (_m *ProfileService) Avatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	ret := _m.Called(ctx, userID)
	rc, _ := ret.Get(0).(io.ReadCloser)
	return rc, ret.Error(1)
}

func NewProfileService(t testingT) *ProfileService {
	m := &ProfileService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MessageService is a mock of the direct message service.
type MessageService struct {
	mock.Mock
}

func (_m *MessageService) Send(ctx context.Context, sender, recipient uuid.UUID, text string) (model.Message, error) {
	ret := _m.Called(ctx, sender, recipient, text)
	return ret.Get(0).(model.Message), ret.Error(1)
}

func (_m *MessageService) Conversation(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	ret := _m.Called(ctx, a, b)
	messages, _ := ret.Get(0).([]model.Message)
	return messages, ret.Error(1)
}

func NewMessageService(t testingT) *MessageService {
	m := &MessageService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
