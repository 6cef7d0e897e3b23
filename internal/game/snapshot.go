package game

import (
	"time"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
)

// CellSnapshot captures one cell for external use.
type CellSnapshot struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Level    int    `json:"level"`
	Dome     bool   `json:"dome"`
	WorkerID string `json:"worker_id,omitempty"`
}

// WorkerSnapshot captures a worker's identity and position.
type WorkerSnapshot struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// PlayerSnapshot captures a player's public state.
type PlayerSnapshot struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Power          string        `json:"power"`
	HintsLeft      int           `json:"hints_left"`
	ClockRemaining time.Duration `json:"clock_remaining_ns,omitempty"`
}

// SessionSnapshot is a consistent, immutable view of a session, safe to
// serialize and hand to transports. The caller is expected to re-render from
// a fresh snapshot after every action.
type SessionSnapshot struct {
	ID             string           `json:"id"`
	BoardSize      int              `json:"board_size"`
	Turn           int              `json:"turn"`
	Phase          string           `json:"phase"`
	ActivePlayerID string           `json:"active_player_id"`
	SelectedWorker string           `json:"selected_worker,omitempty"`
	Players        []PlayerSnapshot `json:"players"`
	Cells          []CellSnapshot   `json:"cells"`
	Workers        []WorkerSnapshot `json:"workers"`
	LegalActions   []Action         `json:"legal_actions,omitempty"`
	Outcome        *Outcome         `json:"outcome,omitempty"`
}

// Snapshot captures the session's full state under the session lock.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:             s.id,
		BoardSize:      s.board.Size(),
		Turn:           s.turnCount,
		ActivePlayerID: s.players[s.current].ID,
		LegalActions:   s.legalActionsLocked(),
	}
	if s.engine != nil {
		snap.Phase = s.engine.Phase().String()
		snap.SelectedWorker = s.engine.SelectedWorker()
	}
	if s.outcome != nil {
		snap.Phase = "GAME_OVER"
		o := *s.outcome
		snap.Outcome = &o
	}

	for i, p := range s.players {
		ps := PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Power:     p.Power.Name(),
			HintsLeft: p.HintsLeft,
		}
		if s.clock != nil {
			ps.ClockRemaining = s.clock.Remaining(i)
		}
		snap.Players = append(snap.Players, ps)
	}

	size := s.board.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			p := board.Position{Row: r, Col: c}
			cs := CellSnapshot{Row: r, Col: c}
			h := s.board.HeightAt(p)
			if h == board.LevelDome {
				cs.Level = int(board.Level3)
				cs.Dome = true
			} else {
				cs.Level = int(h)
			}
			if w, ok := s.board.OccupantAt(p); ok {
				cs.WorkerID = w.ID
			}
			snap.Cells = append(snap.Cells, cs)
		}
	}
	for _, w := range s.board.Workers() {
		snap.Workers = append(snap.Workers, WorkerSnapshot{
			ID:       w.ID,
			PlayerID: w.PlayerID,
			Row:      w.Pos.Row,
			Col:      w.Pos.Col,
		})
	}
	return snap
}
