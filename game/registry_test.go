package game

import (
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Session) []ServerMessage {
	var out []ServerMessage
	for {
		select {
		case msg := <-s.Outbox():
			out = append(out, msg)
		default:
			return out
		}
	}
}

func isClosed(s *Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

func TestRegistryAddRemove(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(zerolog.Nop())
	a, b := NewSession("a", 8), NewSession("b", 8)

	assert.Nil(t, reg.Add(a))
	assert.Nil(t, reg.Add(b))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"a", "b"}, reg.Usernames())

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, reg.Remove("a"))
	assert.True(t, isClosed(a))
	assert.False(t, reg.Remove("a"), "second remove is a no-op")
	assert.Equal(t, []string{"b"}, reg.Usernames())
}

func TestRegistryReplace(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(zerolog.Nop())
	first := NewSession("a", 8)
	reg.Add(first)
	reg.Add(NewSession("b", 8))

	second := NewSession("a", 8)
	old := reg.Add(second)

	assert.Same(t, first, old)
	assert.True(t, isClosed(first))
	assert.False(t, isClosed(second))
	assert.Equal(t, []string{"a", "b"}, reg.Usernames(), "replacement keeps join position")

	assert.Nil(t, reg.Add(second), "re-adding the same session replaces nothing")
}

func TestRegistrySendTo(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(zerolog.Nop())
	a := NewSession("a", 8)
	reg.Add(a)

	require.NoError(t, reg.SendTo("a", ClearCanvas{}))
	assert.Equal(t, []ServerMessage{ClearCanvas{}}, drain(a))

	err := reg.SendTo("ghost", ClearCanvas{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRegistryBroadcastSkipsDeadSessions(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(zerolog.Nop())
	a, dead, c := NewSession("a", 8), NewSession("dead", 8), NewSession("c", 8)
	reg.Add(a)
	reg.Add(dead)
	reg.Add(c)
	dead.Close()

	delivered := reg.Broadcast(ClearCanvas{})

	assert.Equal(t, 2, delivered)
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(c), 1)
	assert.Equal(t, 3, reg.Len(), "dead sessions are reaped by their own leave")
}

func TestRegistryBroadcastEach(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(zerolog.Nop())
	a, b := NewSession("a", 8), NewSession("b", 8)
	reg.Add(a)
	reg.Add(b)

	reg.BroadcastEach(func(username string) ServerMessage {
		return NewMessage{Message: SystemMessage("hi " + username)}
	})

	assert.Equal(t, []ServerMessage{NewMessage{Message: SystemMessage("hi a")}}, drain(a))
	assert.Equal(t, []ServerMessage{NewMessage{Message: SystemMessage("hi b")}}, drain(b))
}

// Registry size always equals joins minus matching leaves, and every
// username maps to exactly one live session.
func TestRegistrySizeProperty(t *testing.T) {
	t.Parallel()
	names := []string{"a", "b", "c", "d", "e"}
	rng := rand.New(rand.NewPCG(1, 2))

	for run := range 20 {
		reg := NewRegistry(zerolog.Nop())
		live := map[string]*Session{}

		for range 200 {
			name := names[rng.IntN(len(names))]
			if rng.IntN(2) == 0 {
				s := NewSession(name, 1)
				reg.Add(s)
				live[name] = s
			} else {
				reg.Remove(name)
				delete(live, name)
			}

			require.Equal(t, len(live), reg.Len(), "run %d", run)
			require.Len(t, reg.Usernames(), len(live))
			for name, s := range live {
				got, ok := reg.Get(name)
				require.True(t, ok)
				require.Same(t, s, got)
				require.False(t, isClosed(got))
			}
		}
	}
}
