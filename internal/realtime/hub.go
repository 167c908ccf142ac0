// Package realtime tracks live WebSocket sessions per user.
package realtime

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

const sendBuffer = 64

var (
	pingFrame = []byte("ping")
	pongFrame = []byte("pong")
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is one live connection of a user.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	conn   Conn
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

// NewSession wraps conn for the given user.
func NewSession(userID uuid.UUID, conn Conn) *Session {
	return &Session{
		ID:     uuid.New(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
	s.conn.Close()
}

// enqueue reports false once the session is closed or its buffer is full.
func (s *Session) enqueue(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

var _ model.SessionRegistry = (*Hub)(nil)

// Hub is the connection registry. All operations are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*Session]struct{}
	logger   *logger.Logger
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]map[*Session]struct{}),
		logger:   logger,
	}
}

// Register adds the session to the registry. Registering a session twice is
// a no-op, as is registering one that has already been closed.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	if h.sessions[s.UserID] == nil {
		h.sessions[s.UserID] = make(map[*Session]struct{})
	}
	h.sessions[s.UserID][s] = struct{}{}
}

// Unregister removes the session and closes its connection. It is a no-op
// for sessions already removed.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	set, ok := h.sessions[s.UserID]
	if ok {
		if _, ok = set[s]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.sessions, s.UserID)
			}
		}
	}
	h.mu.Unlock()

	if ok {
		s.close()
	}
}

// Disconnect closes every session of the user.
func (h *Hub) Disconnect(userID uuid.UUID) int {
	h.mu.Lock()
	set := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()

	for s := range set {
		s.close()
	}

	if len(set) > 0 {
		h.logger.Info("Realtime hub: user disconnected",
			"user_id", userID,
			"sessions", len(set))
	}
	return len(set)
}

// Count returns the number of live sessions of the user.
func (h *Hub) Count(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// Serve registers the session and pumps messages until the connection fails
// or the session is disconnected. A "ping" frame is answered with "pong",
// anything else is echoed back.
func (h *Hub) Serve(s *Session) {
	h.Register(s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range s.send {
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			break
		}

		reply := msg
		if bytes.Equal(bytes.TrimSpace(msg), pingFrame) {
			reply = pongFrame
		}
		if !s.enqueue(reply) {
			break
		}
	}

	h.Unregister(s)
	<-done
}

// CloseAll disconnects every session. It is used on shutdown, since hijacked
// connections are not tracked by the HTTP server.
func (h *Hub) CloseAll() int {
	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[uuid.UUID]map[*Session]struct{})
	h.mu.Unlock()

	n := 0
	for _, set := range all {
		for s := range set {
			s.close()
			n++
		}
	}
	return n
}
