// Package powers implements god powers as a closed set of polymorphic
// variants behind one capability interface. The turn engine consults the
// active player's power uniformly; adding a power means adding one variant
// here, never touching the engine.
package powers

import (
	"fmt"
	"strings"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
	"github.com/santorinifree/santorini-server-go/internal/game/rules"
)

// Budget is the number of move and build actions a power grants per turn.
type Budget struct {
	Moves  int
	Builds int
}

// TurnContext carries the per-turn counters a power needs to enforce its
// "not the same/original space" restrictions. The turn engine owns it and
// resets it at the start of every turn.
type TurnContext struct {
	// Origin is the selected worker's cell before its first move this turn.
	Origin board.Position
	// FirstBuild is the first cell built on this turn.
	FirstBuild board.Position

	MovesTaken  int
	BuildsTaken int
}

// Power transforms the base rule queries for its owning player. A variant
// may narrow or widen the legal sets, but never in a way that violates the
// board's own hard invariants: the board's validated mutators remain the
// final authority.
type Power interface {
	Name() string
	TurnBudget() Budget
	// MoveView returns the legal destinations for the worker's next move,
	// given how far into the turn the player already is.
	MoveView(b *board.Board, workerID string, ctx TurnContext) []board.Position
	// BuildView returns the legal build targets for the worker's next build.
	BuildView(b *board.Board, workerID string, ctx TurnContext) []board.Position
}

// None is the default power: one move, one build, base rules untouched.
type None struct{}

func (None) Name() string       { return "None" }
func (None) TurnBudget() Budget { return Budget{Moves: 1, Builds: 1} }

func (None) MoveView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	return rules.LegalDestinations(b, workerID)
}

func (None) BuildView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	return rules.LegalBuildTargets(b, workerID)
}

// Artemis grants a second move, which may not return to the cell the worker
// started the turn on.
type Artemis struct{}

func (Artemis) Name() string       { return "Artemis" }
func (Artemis) TurnBudget() Budget { return Budget{Moves: 2, Builds: 1} }

func (Artemis) MoveView(b *board.Board, workerID string, ctx TurnContext) []board.Position {
	dests := rules.LegalDestinations(b, workerID)
	if ctx.MovesTaken >= 1 {
		dests = rules.Remove(dests, ctx.Origin)
	}
	return dests
}

func (Artemis) BuildView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	return rules.LegalBuildTargets(b, workerID)
}

// Demeter grants a second build, which may not reuse the first build's cell.
type Demeter struct{}

func (Demeter) Name() string       { return "Demeter" }
func (Demeter) TurnBudget() Budget { return Budget{Moves: 1, Builds: 2} }

func (Demeter) MoveView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	return rules.LegalDestinations(b, workerID)
}

func (Demeter) BuildView(b *board.Board, workerID string, ctx TurnContext) []board.Position {
	targets := rules.LegalBuildTargets(b, workerID)
	if ctx.BuildsTaken >= 1 {
		targets = rules.Remove(targets, ctx.FirstBuild)
	}
	return targets
}

// Zeus lets the worker build beneath itself. This is the one sanctioned
// relaxation of the unoccupied-target rule; the cell must still be below
// level 3 before building so a dome is never placed under the worker.
// Building under oneself never wins, even when it raises the worker onto
// level 3.
type Zeus struct{}

func (Zeus) Name() string       { return "Zeus" }
func (Zeus) TurnBudget() Budget { return Budget{Moves: 1, Builds: 1} }

func (Zeus) MoveView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	return rules.LegalDestinations(b, workerID)
}

func (Zeus) BuildView(b *board.Board, workerID string, _ TurnContext) []board.Position {
	targets := rules.LegalBuildTargets(b, workerID)
	w, ok := b.Worker(workerID)
	if !ok {
		return targets
	}
	if b.HeightAt(w.Pos) < board.Level3 {
		targets = append(targets, w.Pos)
	}
	return targets
}

// ForName resolves a power by name, case-insensitively. An empty name maps
// to None.
func ForName(name string) (Power, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None{}, nil
	case "artemis":
		return Artemis{}, nil
	case "demeter":
		return Demeter{}, nil
	case "zeus":
		return Zeus{}, nil
	default:
		return nil, fmt.Errorf("unknown power: %s", name)
	}
}

// Names lists the selectable powers.
func Names() []string {
	return []string{"None", "Artemis", "Demeter", "Zeus"}
}
