package mocks

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

func (_m *SecurityLayer) Listen(network, addr string) (net.Listener, error) {
	ret := _m.Called(network, addr)
	l, _ := ret.Get(0).(net.Listener)
	return l, ret.Error(1)
}

func NewSecurityLayer(t testingT) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Notifier is a mock of model.Notifier.
type Notifier struct {
	mock.Mock
}

func (_m *Notifier) SendDeletionCode(ctx context.Context, email, code string) error {
	ret := _m.Called(ctx, email, code)
	return ret.Error(0)
}

func (_m *Notifier) SendDeletionConfirmation(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

func NewNotifier(t testingT) *Notifier {
	m := &Notifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SessionRegistry is a mock of model.SessionRegistry.
type SessionRegistry struct {
	mock.Mock
}

func (_m *SessionRegistry) Disconnect(userID uuid.UUID) int {
	ret := _m.Called(userID)
	return ret.Int(0)
}

func NewSessionRegistry(t testingT) *SessionRegistry {
	m := &SessionRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
