package model

import (
	"context"
	"net"
)

// SecurityLayer opens listeners, optionally wrapping them in TLS.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a network server with a managed lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
