package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/medapp-server/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	if rf, ok := ret.Get(0).(func(context.Context, model.User) model.User); ok {
		return rf(ctx, user), ret.Error(1)
	}
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MessageStore is a mock of model.MessageStore.
type MessageStore struct {
	mock.Mock
}

func (_m *MessageStore) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	ret := _m.Called(ctx, msg)
	return ret.Get(0).(model.Message), ret.Error(1)
}

func (_m *MessageStore) Conversation(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	ret := _m.Called(ctx, a, b)
	messages, _ := ret.Get(0).([]model.Message)
	return messages, ret.Error(1)
}

func (_m *MessageStore) DeleteBySender(ctx context.Context, senderID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, senderID)
	return ret.Get(0).(int64), ret.Error(1)
}

func NewMessageStore(t testingT) *MessageStore {
	m := &MessageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// DeletionStore is a mock of model.DeletionStore. Update runs the passed
// function against the request given to Return unless an error is returned.
type DeletionStore struct {
	mock.Mock
}

func (_m *DeletionStore) Upsert(ctx context.Context, req model.DeletionRequest) error {
	ret := _m.Called(ctx, req)
	return ret.Error(0)
}

func (_m *DeletionStore) Update(ctx context.Context, userID uuid.UUID, fn model.DeletionUpdateFunc) error {
	ret := _m.Called(ctx, userID, fn)
	if err := ret.Error(1); err != nil {
		return err
	}
	req := ret.Get(0).(model.DeletionRequest)
	_, err := fn(&req)
	return err
}

func (_m *DeletionStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	ret := _m.Called(ctx, before)
	return ret.Get(0).(int64), ret.Error(1)
}

func NewDeletionStore(t testingT) *DeletionStore {
	m := &DeletionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AuditStore is a mock of model.AuditStore.
type AuditStore struct {
	mock.Mock
}

func (_m *AuditStore) Append(ctx context.Context, entry model.AuditEntry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

func (_m *AuditStore) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	ret := _m.Called(ctx, limit)
	entries, _ := ret.Get(0).([]model.AuditEntry)
	return entries, ret.Error(1)
}

func (_m *AuditStore) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func NewAuditStore(t testingT) *AuditStore {
	m := &AuditStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (_m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ret := _m.Called(ctx, key, reader, size, contentType)
	return ret.Error(0)
}

func (_m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, key)
	rc, _ := ret.Get(0).(io.ReadCloser)
	return rc, ret.Error(1)
}

func (_m *Storage) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func (_m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Storage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	ret := _m.Called(ctx, prefix)
	return ret.Int(0), ret.Error(1)
}

func NewStorage(t testingT) *Storage {
	m := &Storage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
