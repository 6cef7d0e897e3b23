// Package rules implements the base Santorini legality queries as pure,
// stateless functions over a board snapshot. God powers narrow or widen
// these results; they never duplicate them.
package rules

import (
	"github.com/santorinifree/santorini-server-go/internal/game/board"
)

// LegalDestinations returns the cells a worker may move to: neighbors of its
// current cell that are unoccupied, undomed, and at most one level higher.
// Moving down any distance is always allowed.
func LegalDestinations(b *board.Board, workerID string) []board.Position {
	w, ok := b.Worker(workerID)
	if !ok {
		return nil
	}
	from := b.HeightAt(w.Pos)
	var out []board.Position
	for _, p := range b.Neighbors(w.Pos) {
		if _, occupied := b.OccupantAt(p); occupied {
			continue
		}
		h := b.HeightAt(p)
		if h == board.LevelDome {
			continue
		}
		if int(h)-int(from) > 1 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LegalBuildTargets returns the cells a worker may build on: neighbors of
// its current cell that are unoccupied and undomed.
func LegalBuildTargets(b *board.Board, workerID string) []board.Position {
	w, ok := b.Worker(workerID)
	if !ok {
		return nil
	}
	var out []board.Position
	for _, p := range b.Neighbors(w.Pos) {
		if _, occupied := b.OccupantAt(p); occupied {
			continue
		}
		if b.HeightAt(p) == board.LevelDome {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HasAnyLegalMove reports whether at least one of the player's workers has a
// legal destination. A player failing this at the start of their turn loses
// by stalemate.
func HasAnyLegalMove(b *board.Board, playerID string) bool {
	for _, w := range b.PlayerWorkers(playerID) {
		if len(LegalDestinations(b, w.ID)) > 0 {
			return true
		}
	}
	return false
}

// IsWinningMove reports whether moving onto dest wins the game. The check
// runs against the board before the move lands: arriving on level 3 wins.
// Heights never change as a result of movement, so checking before or after
// the move is equivalent; before is used so the turn engine can decide the
// outcome atomically with the move.
func IsWinningMove(b *board.Board, dest board.Position) bool {
	return b.HeightAt(dest) == board.Level3
}

// Contains reports whether a position appears in a set of positions.
func Contains(set []board.Position, p board.Position) bool {
	for _, q := range set {
		if q == p {
			return true
		}
	}
	return false
}

// Remove returns set without any occurrence of p, preserving order.
func Remove(set []board.Position, p board.Position) []board.Position {
	out := set[:0:0]
	for _, q := range set {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}
