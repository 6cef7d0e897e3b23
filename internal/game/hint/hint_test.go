package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santorinifree/santorini-server-go/internal/game"
	"github.com/santorinifree/santorini-server-go/internal/game/board"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	s, err := game.NewSession(game.SessionConfig{
		ID: "hint-game",
		Players: [2]game.PlayerSpec{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		Placement: []board.Position{
			{Row: 2, Col: 2}, {Row: 0, Col: 4}, {Row: 4, Col: 0}, {Row: 4, Col: 4},
		},
	})
	require.NoError(t, err)
	return s
}

func TestBestPrefersWorkerWithMostRoom(t *testing.T) {
	s := newSession(t)

	a, ok := Best(s.BoardClone(), s.Snapshot())
	require.True(t, ok)
	assert.Equal(t, game.ActionSelectWorker, a.Type)
	// The center worker has 8 destinations, the corner worker fewer.
	assert.Equal(t, "p1-w1", a.WorkerID)
}

func TestBestPrefersWinningMove(t *testing.T) {
	s := newSession(t)

	b := s.BoardClone()
	// Stage the live board: a level-3 tower next to the worker, worker on
	// level 2.
	top := board.Position{Row: 2, Col: 3}
	for i := 0; i < 3; i++ {
		require.NoError(t, b.ApplyBuild(top))
	}
	require.NoError(t, b.ApplyBuildBeneath("p1-w1"))
	require.NoError(t, b.ApplyBuildBeneath("p1-w1"))

	snap := s.Snapshot()
	snap.SelectedWorker = "p1-w1"
	snap.LegalActions = []game.Action{
		{Type: game.ActionMove, Target: board.Position{Row: 1, Col: 1}},
		{Type: game.ActionMove, Target: top},
		{Type: game.ActionSkip},
	}

	a, ok := Best(b, snap)
	require.True(t, ok)
	assert.Equal(t, game.ActionMove, a.Type)
	assert.Equal(t, top, a.Target)
}

func TestBestPrefersTallerBuild(t *testing.T) {
	s := newSession(t)
	b := s.BoardClone()
	tall := board.Position{Row: 2, Col: 3}
	require.NoError(t, b.ApplyBuild(tall))
	require.NoError(t, b.ApplyBuild(tall))

	snap := s.Snapshot()
	snap.SelectedWorker = "p1-w1"
	snap.LegalActions = []game.Action{
		{Type: game.ActionBuild, Target: board.Position{Row: 1, Col: 1}},
		{Type: game.ActionBuild, Target: tall},
	}

	a, ok := Best(b, snap)
	require.True(t, ok)
	assert.Equal(t, tall, a.Target, "building toward level 3 ranks highest")
}

func TestBestWithNothingToSuggest(t *testing.T) {
	s := newSession(t)
	snap := s.Snapshot()
	snap.LegalActions = nil
	_, ok := Best(s.BoardClone(), snap)
	assert.False(t, ok)
}
