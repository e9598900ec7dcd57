package game

import (
	"sync"

	"github.com/google/uuid"
)

const defaultOutboxSize = 256

// Session is one connected participant. While registered, the room is the
// only sender on its outbox; the connection adapter is the only receiver.
type Session struct {
	id        uuid.UUID
	username  string
	outbox    chan ServerMessage
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(username string, outboxSize int) *Session {
	if outboxSize <= 0 {
		outboxSize = defaultOutboxSize
	}
	return &Session{
		id:       uuid.New(),
		username: username,
		outbox:   make(chan ServerMessage, outboxSize),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Username() string {
	return s.username
}

func (s *Session) Outbox() <-chan ServerMessage {
	return s.outbox
}

// Done is closed once the session has been asked to tear down its transport.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Send never blocks. A client that cannot keep up with its outbox is closed
// and gets reaped through its own disconnect.
func (s *Session) Send(msg ServerMessage) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.outbox <- msg:
		return nil
	default:
		s.Close()
		return ErrSendBufferFull
	}
}
