// Package hint ranks a session's legal actions with simple heuristics. It
// only ever reads a cloned board and a snapshot, so it can never disturb
// live session state.
package hint

import (
	"github.com/santorinifree/santorini-server-go/internal/game"
	"github.com/santorinifree/santorini-server-go/internal/game/board"
	"github.com/santorinifree/santorini-server-go/internal/game/rules"
)

// Best picks the highest-scoring action from the snapshot's legal actions.
// Selection favors the worker with the most destinations, moves favor
// climbing (a winning level-3 step dominates everything), builds favor
// taller targets. Returns false when there is nothing to suggest.
func Best(b *board.Board, snap game.SessionSnapshot) (game.Action, bool) {
	bestScore := -1
	var best game.Action
	found := false

	for _, a := range snap.LegalActions {
		score, ok := scoreAction(b, snap, a)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = a
			found = true
		}
	}
	return best, found
}

func scoreAction(b *board.Board, snap game.SessionSnapshot, a game.Action) (int, bool) {
	switch a.Type {
	case game.ActionSelectWorker:
		// Prefer the worker with the most room to move.
		return len(rules.LegalDestinations(b, a.WorkerID)), true

	case game.ActionMove:
		w, ok := b.Worker(snap.SelectedWorker)
		if !ok {
			return 0, false
		}
		score := 0
		climb := int(b.HeightAt(a.Target)) - int(b.HeightAt(w.Pos))
		if climb > 0 {
			score += 5 * climb
		}
		if b.HeightAt(a.Target) == board.Level3 {
			score += 100
		}
		return score, true

	case game.ActionBuild:
		// Building toward level 3 scores highest.
		return int(b.HeightAt(a.Target)), true

	default:
		// Skip is never suggested over a concrete action.
		return 0, false
	}
}
