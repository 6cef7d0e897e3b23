package game

import (
	"errors"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
)

// Typed engine errors. All are recoverable: a rejected action leaves the
// board and turn state untouched, and the caller is expected to re-prompt.
var (
	// ErrIllegalMove and ErrIllegalBuild are the board's own validation
	// errors, re-exported so callers only import this package.
	ErrIllegalMove  = board.ErrIllegalMove
	ErrIllegalBuild = board.ErrIllegalBuild

	// ErrIllegalSelection rejects selecting an opponent's worker or a
	// worker with no legal destination.
	ErrIllegalSelection = errors.New("illegal selection")

	// ErrOutOfPhase rejects an action the current turn phase does not
	// accept, e.g. a build before any move.
	ErrOutOfPhase = errors.New("action not accepted in current phase")

	// ErrNoSelectableWorker is the stalemate trigger: neither of the
	// active player's workers can move.
	ErrNoSelectableWorker = errors.New("no selectable worker")

	// ErrGameAlreadyOver rejects any action once the outcome is set.
	ErrGameAlreadyOver = errors.New("game already over")
)
