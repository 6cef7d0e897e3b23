package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managerConfig(id string) SessionConfig {
	return SessionConfig{
		ID: id,
		Players: [2]PlayerSpec{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(0, nil)

	s, err := m.Create(managerConfig("g1"))
	require.NoError(t, err)
	assert.Equal(t, "g1", s.ID())

	got, ok := m.Get("g1")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, err = m.Create(managerConfig("g1"))
	assert.Error(t, err, "duplicate IDs are rejected")

	// An empty ID gets generated.
	s2, err := m.Create(managerConfig(""))
	require.NoError(t, err)
	assert.NotEmpty(t, s2.ID())
	assert.Equal(t, 2, m.Count())
}

func TestManagerSessionLimit(t *testing.T) {
	m := NewManager(1, nil)
	_, err := m.Create(managerConfig("g1"))
	require.NoError(t, err)
	_, err = m.Create(managerConfig("g2"))
	assert.Error(t, err)

	m.Remove("g1")
	_, err = m.Create(managerConfig("g2"))
	assert.NoError(t, err)
}
