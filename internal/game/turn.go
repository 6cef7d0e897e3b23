package game

import (
	"fmt"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
	"github.com/santorinifree/santorini-server-go/internal/game/powers"
	"github.com/santorinifree/santorini-server-go/internal/game/rules"
)

// Phase represents the sub-phase of a player's turn.
type Phase int

const (
	PhaseSelectWorker Phase = iota
	PhaseMove
	PhaseBuild
	PhaseComplete
)

var phaseNames = map[Phase]string{
	PhaseSelectWorker: "SELECT_WORKER",
	PhaseMove:         "MOVE",
	PhaseBuild:        "BUILD",
	PhaseComplete:     "COMPLETE",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnEngine drives one player's turn through
// SelectWorker → Move → Build → Complete. It consults the base rules through
// the active player's power at every step and applies actions only via the
// board's validated mutators, so a rejected action changes nothing.
type TurnEngine struct {
	board    *board.Board
	playerID string
	power    powers.Power

	phase      Phase
	selected   string
	ctx        powers.TurnContext
	movesLeft  int
	buildsLeft int
}

// NewTurnEngine starts a fresh turn for the player, with budgets taken from
// the player's power.
func NewTurnEngine(b *board.Board, playerID string, power powers.Power) *TurnEngine {
	budget := power.TurnBudget()
	return &TurnEngine{
		board:      b,
		playerID:   playerID,
		power:      power,
		phase:      PhaseSelectWorker,
		movesLeft:  budget.Moves,
		buildsLeft: budget.Builds,
	}
}

// Phase returns the current turn phase.
func (e *TurnEngine) Phase() Phase {
	return e.phase
}

// SelectedWorker returns the worker chosen for this turn, or "" before
// selection.
func (e *TurnEngine) SelectedWorker() string {
	return e.selected
}

// SelectableWorkers returns the active player's workers that have at least
// one legal destination under the player's power.
func (e *TurnEngine) SelectableWorkers() []string {
	var out []string
	for _, w := range e.board.PlayerWorkers(e.playerID) {
		if len(e.power.MoveView(e.board, w.ID, e.ctx)) > 0 {
			out = append(out, w.ID)
		}
	}
	return out
}

// SelectWorker designates the worker that will move and build this turn.
func (e *TurnEngine) SelectWorker(workerID string) error {
	if e.phase != PhaseSelectWorker {
		return fmt.Errorf("%w: phase is %s", ErrOutOfPhase, e.phase)
	}
	if len(e.SelectableWorkers()) == 0 {
		return ErrNoSelectableWorker
	}
	w, ok := e.board.Worker(workerID)
	if !ok {
		return fmt.Errorf("%w: worker %s not found", ErrIllegalSelection, workerID)
	}
	if w.PlayerID != e.playerID {
		return fmt.Errorf("%w: worker %s belongs to %s", ErrIllegalSelection, workerID, w.PlayerID)
	}
	if len(e.power.MoveView(e.board, workerID, e.ctx)) == 0 {
		return fmt.Errorf("%w: worker %s has no legal destination", ErrIllegalSelection, workerID)
	}
	e.selected = workerID
	e.ctx.Origin = w.Pos
	e.phase = PhaseMove
	return nil
}

// LegalMoves returns the destinations the selected worker may move to next,
// as filtered by the player's power.
func (e *TurnEngine) LegalMoves() []board.Position {
	if e.phase != PhaseMove {
		return nil
	}
	return e.power.MoveView(e.board, e.selected, e.ctx)
}

// LegalBuilds returns the cells the selected worker may build on next, as
// filtered by the player's power.
func (e *TurnEngine) LegalBuilds() []board.Position {
	if e.phase != PhaseBuild {
		return nil
	}
	return e.power.BuildView(e.board, e.selected, e.ctx)
}

// Move applies one move from the turn's budget. It reports won=true when the
// worker arrived on level 3, in which case the turn ends immediately and any
// remaining budget is forfeit.
func (e *TurnEngine) Move(dest board.Position) (won bool, err error) {
	if e.phase != PhaseMove {
		return false, fmt.Errorf("%w: phase is %s", ErrOutOfPhase, e.phase)
	}
	view := e.power.MoveView(e.board, e.selected, e.ctx)
	if !rules.Contains(view, dest) {
		return false, fmt.Errorf("%w: %s is not a legal destination", ErrIllegalMove, dest)
	}
	winning := rules.IsWinningMove(e.board, dest)
	if err := e.board.ApplyMove(e.selected, dest); err != nil {
		return false, err
	}
	e.ctx.MovesTaken++
	e.movesLeft--
	if winning {
		e.phase = PhaseComplete
		return true, nil
	}
	if e.movesLeft > 0 && len(e.power.MoveView(e.board, e.selected, e.ctx)) > 0 {
		return false, nil
	}
	e.phase = PhaseBuild
	return false, nil
}

// Build applies one build from the turn's budget. A target equal to the
// selected worker's own cell routes through the board's build-beneath
// mutator (the Zeus case).
func (e *TurnEngine) Build(target board.Position) error {
	if e.phase != PhaseBuild {
		return fmt.Errorf("%w: phase is %s", ErrOutOfPhase, e.phase)
	}
	view := e.power.BuildView(e.board, e.selected, e.ctx)
	if !rules.Contains(view, target) {
		return fmt.Errorf("%w: %s is not a legal build target", ErrIllegalBuild, target)
	}
	w, _ := e.board.Worker(e.selected)
	if w != nil && target == w.Pos {
		if err := e.board.ApplyBuildBeneath(e.selected); err != nil {
			return err
		}
	} else if err := e.board.ApplyBuild(target); err != nil {
		return err
	}
	if e.ctx.BuildsTaken == 0 {
		e.ctx.FirstBuild = target
	}
	e.ctx.BuildsTaken++
	e.buildsLeft--
	if e.buildsLeft > 0 && len(e.power.BuildView(e.board, e.selected, e.ctx)) > 0 {
		return nil
	}
	e.phase = PhaseComplete
	return nil
}

// Skip declines an optional extra action granted by a power: a pending
// second move falls through to the build phase, a pending second build
// completes the turn. The mandatory first move and first build cannot be
// skipped.
func (e *TurnEngine) Skip() error {
	switch {
	case e.phase == PhaseMove && e.ctx.MovesTaken >= 1:
		e.phase = PhaseBuild
		return nil
	case e.phase == PhaseBuild && e.ctx.BuildsTaken >= 1:
		e.phase = PhaseComplete
		return nil
	default:
		return fmt.Errorf("%w: nothing to skip in phase %s", ErrOutOfPhase, e.phase)
	}
}
