package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/santorinifree/santorini-server-go/internal/game/board"
	"github.com/santorinifree/santorini-server-go/internal/game/powers"
	"github.com/santorinifree/santorini-server-go/internal/game/rules"
)

// ActionType identifies the kind of action submitted to a session.
type ActionType string

const (
	ActionSelectWorker ActionType = "SELECT_WORKER"
	ActionMove         ActionType = "MOVE"
	ActionBuild        ActionType = "BUILD"
	ActionSkip         ActionType = "SKIP"
)

// Action is the single mutating input a session accepts. WorkerID is used by
// SELECT_WORKER, Target by MOVE and BUILD.
type Action struct {
	Type     ActionType     `json:"type"`
	WorkerID string         `json:"worker_id,omitempty"`
	Target   board.Position `json:"target"`
}

// OutcomeMethod says how a game ended.
type OutcomeMethod string

const (
	WinByAscent    OutcomeMethod = "ASCENT"
	WinByStalemate OutcomeMethod = "STALEMATE"
)

// Outcome identifies the winner. Once set it never changes and the session
// accepts no further actions.
type Outcome struct {
	WinnerID  string        `json:"winner_id"`
	Method    OutcomeMethod `json:"method"`
	DecidedAt time.Time     `json:"decided_at"`
}

// PlayerSpec describes one player when creating a session.
type PlayerSpec struct {
	ID    string
	Name  string
	Power string
}

// Player is a participant in a session.
type Player struct {
	ID        string
	Name      string
	Power     powers.Power
	HintsLeft int
}

// SessionConfig carries everything needed to start a session. Rand is the
// injected randomness source for worker placement; tests pass a seeded one.
// Placement, when exactly four positions long, pins the starting cells in
// order (player 1 worker 1, player 1 worker 2, player 2 worker 1, player 2
// worker 2) instead of random placement.
type SessionConfig struct {
	ID             string
	Players        [2]PlayerSpec
	BoardSize      int
	HintsPerPlayer int
	ClockPerPlayer time.Duration
	Placement      []board.Position
	Rand           *rand.Rand
	Logger         *zap.Logger
}

// Session orchestrates one game: worker placement, turn alternation, win and
// stalemate detection. It is the only component that mutates the board, and
// it processes exactly one action per call.
type Session struct {
	mu sync.Mutex

	id        string
	board     *board.Board
	players   [2]*Player
	current   int
	engine    *TurnEngine
	outcome   *Outcome
	clock     *Clock
	turnCount int
	startedAt time.Time
	logger    *zap.Logger
}

// NewSession creates a session, places both players' workers on distinct
// random cells, and opens the first player's turn.
func NewSession(cfg SessionConfig) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	size := cfg.BoardSize
	if size <= 0 {
		size = board.DefaultSize
	}
	hints := cfg.HintsPerPlayer
	if hints < 0 {
		hints = 0
	}

	s := &Session{
		id:        cfg.ID,
		board:     board.New(size),
		turnCount: 1,
		startedAt: time.Now(),
		logger:    logger,
	}
	for i, spec := range cfg.Players {
		if spec.ID == "" {
			return nil, fmt.Errorf("player %d has no ID", i)
		}
		p, err := powers.ForName(spec.Power)
		if err != nil {
			return nil, err
		}
		s.players[i] = &Player{ID: spec.ID, Name: spec.Name, Power: p, HintsLeft: hints}
	}
	if s.players[0].ID == s.players[1].ID {
		return nil, fmt.Errorf("players must have distinct IDs")
	}

	if err := s.placeWorkers(rng, cfg.Placement); err != nil {
		return nil, err
	}
	if cfg.ClockPerPlayer > 0 {
		s.clock = NewClock(cfg.ClockPerPlayer)
	}
	s.beginTurn()
	return s, nil
}

// placeWorkers drops two workers per player on distinct cells chosen without
// bias among the empty ones, or on pinned cells when the config provides
// them.
func (s *Session) placeWorkers(rng *rand.Rand, pinned []board.Position) error {
	open := pinned
	if len(open) != 4 {
		open = s.board.EmptyPositions()
		if len(open) < 4 {
			return fmt.Errorf("board too small for 4 workers")
		}
		rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	}
	n := 0
	for _, p := range s.players {
		for i := 1; i <= 2; i++ {
			w := &board.Worker{
				ID:       fmt.Sprintf("%s-w%d", p.ID, i),
				PlayerID: p.ID,
			}
			if err := s.board.PlaceWorker(w, open[n]); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Outcome returns the terminal result, or nil while the game is running.
func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return nil
	}
	o := *s.outcome
	return &o
}

// ActivePlayer returns the player whose turn it is.
func (s *Session) ActivePlayer() *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[s.current]
}

// PlayerIndex resolves a player ID to its seat, or -1.
func (s *Session) PlayerIndex(playerID string) int {
	for i, p := range s.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// TurnCount returns the number of turns played so far.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turnCount
}

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Clock returns the session's match clock, or nil when none is configured.
// The clock is informational only; it never decides the outcome.
func (s *Session) Clock() *Clock {
	return s.clock
}

// BoardClone returns a deep copy of the board for read-only consumers such
// as the hint engine.
func (s *Session) BoardClone() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// ApplyAction routes one action into the turn engine. It either fully
// commits the action and any resulting phase or turn transition, or returns
// a typed error with nothing changed.
func (s *Session) ApplyAction(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome != nil {
		return ErrGameAlreadyOver
	}

	switch a.Type {
	case ActionSelectWorker:
		if err := s.engine.SelectWorker(a.WorkerID); err != nil {
			return err
		}
	case ActionMove:
		won, err := s.engine.Move(a.Target)
		if err != nil {
			return err
		}
		if won {
			s.setOutcome(s.players[s.current].ID, WinByAscent)
			return nil
		}
	case ActionBuild:
		if err := s.engine.Build(a.Target); err != nil {
			return err
		}
	case ActionSkip:
		if err := s.engine.Skip(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown action type %q", ErrOutOfPhase, a.Type)
	}

	if s.engine.Phase() == PhaseComplete {
		s.endTurn()
	}
	return nil
}

// CurrentLegalActions enumerates every action the session would accept right
// now. GUI and hint consumers render or rank these; they never compute
// legality themselves.
func (s *Session) CurrentLegalActions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.legalActionsLocked()
}

func (s *Session) legalActionsLocked() []Action {
	if s.outcome != nil || s.engine == nil {
		return nil
	}
	var out []Action
	switch s.engine.Phase() {
	case PhaseSelectWorker:
		for _, id := range s.engine.SelectableWorkers() {
			out = append(out, Action{Type: ActionSelectWorker, WorkerID: id})
		}
	case PhaseMove:
		for _, p := range s.engine.LegalMoves() {
			out = append(out, Action{Type: ActionMove, Target: p})
		}
		if s.engine.ctx.MovesTaken >= 1 {
			out = append(out, Action{Type: ActionSkip})
		}
	case PhaseBuild:
		for _, p := range s.engine.LegalBuilds() {
			out = append(out, Action{Type: ActionBuild, Target: p})
		}
		if s.engine.ctx.BuildsTaken >= 1 {
			out = append(out, Action{Type: ActionSkip})
		}
	}
	return out
}

// ConsumeHint decrements the active player's hint quota.
func (s *Session) ConsumeHint() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome != nil {
		return ErrGameAlreadyOver
	}
	p := s.players[s.current]
	if p.HintsLeft <= 0 {
		return fmt.Errorf("no hints remaining for %s", p.Name)
	}
	p.HintsLeft--
	return nil
}

// endTurn hands the turn to the opponent. Stalemate is checked against the
// incoming player: if neither of their workers can move, the player who just
// finished wins.
func (s *Session) endTurn() {
	s.current = 1 - s.current
	s.turnCount++
	s.beginTurn()
}

func (s *Session) beginTurn() {
	p := s.players[s.current]
	if !rules.HasAnyLegalMove(s.board, p.ID) {
		s.logger.Info("player has no legal moves",
			zap.String("session_id", s.id),
			zap.String("player", p.Name),
		)
		s.setOutcome(s.players[1-s.current].ID, WinByStalemate)
		return
	}
	s.engine = NewTurnEngine(s.board, p.ID, p.Power)
	if s.clock != nil {
		s.clock.SwitchTo(s.current)
	}
}

func (s *Session) setOutcome(winnerID string, method OutcomeMethod) {
	s.outcome = &Outcome{
		WinnerID:  winnerID,
		Method:    method,
		DecidedAt: time.Now(),
	}
	if s.clock != nil {
		s.clock.Stop()
	}
	s.logger.Info("game over",
		zap.String("session_id", s.id),
		zap.String("winner", winnerID),
		zap.String("method", string(method)),
	)
}
