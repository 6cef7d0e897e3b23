package powers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
	"github.com/santorinifree/santorini-server-go/internal/game/rules"
)

func newBoardWithWorker(t *testing.T, p board.Position) *board.Board {
	t.Helper()
	b := board.New(5)
	require.NoError(t, b.PlaceWorker(&board.Worker{ID: "w1", PlayerID: "p1"}, p))
	return b
}

func TestTurnBudgets(t *testing.T) {
	assert.Equal(t, Budget{Moves: 1, Builds: 1}, None{}.TurnBudget())
	assert.Equal(t, Budget{Moves: 2, Builds: 1}, Artemis{}.TurnBudget())
	assert.Equal(t, Budget{Moves: 1, Builds: 2}, Demeter{}.TurnBudget())
	assert.Equal(t, Budget{Moves: 1, Builds: 1}, Zeus{}.TurnBudget())
}

func TestNoneMatchesBaseRules(t *testing.T) {
	b := newBoardWithWorker(t, board.Position{Row: 2, Col: 2})
	ctx := TurnContext{}

	assert.ElementsMatch(t, rules.LegalDestinations(b, "w1"), None{}.MoveView(b, "w1", ctx))
	assert.ElementsMatch(t, rules.LegalBuildTargets(b, "w1"), None{}.BuildView(b, "w1", ctx))
}

func TestArtemisSecondMoveExcludesOrigin(t *testing.T) {
	origin := board.Position{Row: 2, Col: 2}
	b := newBoardWithWorker(t, origin)
	require.NoError(t, b.ApplyMove("w1", board.Position{Row: 2, Col: 3}))

	ctx := TurnContext{Origin: origin, MovesTaken: 1}
	dests := Artemis{}.MoveView(b, "w1", ctx)

	assert.NotEmpty(t, dests)
	assert.False(t, rules.Contains(dests, origin), "second move must not return to the starting cell")

	// The first move is unrestricted.
	first := Artemis{}.MoveView(b, "w1", TurnContext{Origin: origin})
	assert.True(t, rules.Contains(first, origin), "first move view should not exclude anything")
}

func TestDemeterSecondBuildExcludesFirst(t *testing.T) {
	b := newBoardWithWorker(t, board.Position{Row: 2, Col: 2})
	first := board.Position{Row: 2, Col: 3}
	require.NoError(t, b.ApplyBuild(first))

	ctx := TurnContext{FirstBuild: first, BuildsTaken: 1}
	targets := Demeter{}.BuildView(b, "w1", ctx)

	assert.NotEmpty(t, targets)
	assert.False(t, rules.Contains(targets, first), "second build must not reuse the first cell")
}

func TestZeusBuildViewIncludesOwnCell(t *testing.T) {
	own := board.Position{Row: 2, Col: 2}
	b := newBoardWithWorker(t, own)

	targets := Zeus{}.BuildView(b, "w1", TurnContext{})
	assert.True(t, rules.Contains(targets, own), "Zeus may build beneath the worker")

	// Base rules never offer the occupied cell.
	assert.False(t, rules.Contains(rules.LegalBuildTargets(b, "w1"), own))
}

func TestZeusOwnCellExcludedAtLevel3(t *testing.T) {
	own := board.Position{Row: 2, Col: 2}
	b := board.New(5)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.ApplyBuild(own))
	}
	require.NoError(t, b.PlaceWorker(&board.Worker{ID: "w1", PlayerID: "p1"}, own))

	targets := Zeus{}.BuildView(b, "w1", TurnContext{})
	assert.False(t, rules.Contains(targets, own), "Zeus cannot build beneath a worker on level 3")
}

func TestForName(t *testing.T) {
	for _, name := range []string{"", "none", "Artemis", "DEMETER", " zeus "} {
		p, err := ForName(name)
		require.NoError(t, err, name)
		require.NotNil(t, p)
	}
	_, err := ForName("athena")
	assert.Error(t, err)
}
