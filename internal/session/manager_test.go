package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	m := NewManager(time.Minute, nil)

	s := m.Register("Alice")
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.PlayerName)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestBindGame(t *testing.T) {
	m := NewManager(time.Minute, nil)
	s := m.Register("Alice")

	m.Bind(s.ID, "game-1")
	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "game-1", got.GameID)
}

func TestExpireDropsStaleSessions(t *testing.T) {
	m := NewManager(50*time.Millisecond, nil)
	stale := m.Register("Alice")
	fresh := m.Register("Bob")

	// Backdate the stale session past the lease.
	m.mu.Lock()
	m.sessions[stale.ID].LastSeen = time.Now().Add(-time.Second)
	m.mu.Unlock()

	m.expire()

	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestCloseAll(t *testing.T) {
	m := NewManager(time.Minute, nil)
	m.Register("Alice")
	m.Register("Bob")
	m.CloseAll()
	assert.Equal(t, 0, m.Count())
}
