package game

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Registry maps usernames to their live session. It is owned by the room
// actor and has no goroutine of its own.
type Registry struct {
	sessions map[string]*Session
	order    []string
	logger   zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Add registers s and returns the session it displaced, already closed.
func (r *Registry) Add(s *Session) *Session {
	old, exists := r.sessions[s.Username()]
	r.sessions[s.Username()] = s
	if !exists {
		r.order = append(r.order, s.Username())
		return nil
	}
	if old != s {
		old.Close()
		return old
	}
	return nil
}

func (r *Registry) Get(username string) (*Session, bool) {
	s, ok := r.sessions[username]
	return s, ok
}

// Remove detaches and closes the session. Removing an absent user is a no-op.
func (r *Registry) Remove(username string) bool {
	s, ok := r.sessions[username]
	if !ok {
		return false
	}
	delete(r.sessions, username)
	if i := slices.Index(r.order, username); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	s.Close()
	return true
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// Usernames lists registered users in join order.
func (r *Registry) Usernames() []string {
	return slices.Clone(r.order)
}

func (r *Registry) SendTo(username string, msg ServerMessage) error {
	s, ok := r.sessions[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return s.Send(msg)
}

// Broadcast returns how many sessions accepted the message.
func (r *Registry) Broadcast(msg ServerMessage) int {
	return r.BroadcastEach(func(string) ServerMessage { return msg })
}

// BroadcastEach sends every session its own message. Failed deliveries are
// logged and skipped.
func (r *Registry) BroadcastEach(build func(username string) ServerMessage) int {
	delivered := 0
	for _, username := range r.order {
		msg := build(username)
		if err := r.sessions[username].Send(msg); err != nil {
			r.logger.Warn().
				Err(err).
				Str("username", username).
				Str("msg_type", msg.kind()).
				Msg("dropping message")
			continue
		}
		delivered++
	}
	return delivered
}
