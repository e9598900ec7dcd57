package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSend(t *testing.T) {
	t.Parallel()

	t.Run("delivers in order", func(t *testing.T) {
		t.Parallel()
		s := NewSession("a", 4)
		require.NoError(t, s.Send(TimeChanged{RemainingSeconds: 3}))
		require.NoError(t, s.Send(TimeChanged{RemainingSeconds: 2}))

		assert.Equal(t, TimeChanged{RemainingSeconds: 3}, <-s.Outbox())
		assert.Equal(t, TimeChanged{RemainingSeconds: 2}, <-s.Outbox())
	})

	t.Run("full outbox closes the session", func(t *testing.T) {
		t.Parallel()
		s := NewSession("a", 1)
		require.NoError(t, s.Send(ClearCanvas{}))

		assert.ErrorIs(t, s.Send(ClearCanvas{}), ErrSendBufferFull)
		select {
		case <-s.Done():
		default:
			t.Fatal("session should be closed")
		}
		assert.ErrorIs(t, s.Send(ClearCanvas{}), ErrSessionClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()
		s := NewSession("a", 0)
		s.Close()
		s.Close()
		assert.ErrorIs(t, s.Send(ClearCanvas{}), ErrSessionClosed)
		assert.Equal(t, defaultOutboxSize, cap(s.outbox))
	})

	t.Run("ids are unique", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, NewSession("a", 1).ID(), NewSession("a", 1).ID())
	})
}
