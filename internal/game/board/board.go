package board

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultSize is the canonical Santorini board size.
const DefaultSize = 5

// Validation errors returned by the board's mutators. Callers match with
// errors.Is; the wrapped message carries the concrete reason.
var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrIllegalBuild = errors.New("illegal build")
)

// Level represents the height of a cell, from ground up to a dome.
type Level int

const (
	LevelGround Level = iota
	Level1
	Level2
	Level3
	LevelDome
)

var levelNames = map[Level]string{
	LevelGround: "GROUND",
	Level1:      "LEVEL1",
	Level2:      "LEVEL2",
	Level3:      "LEVEL3",
	LevelDome:   "DOME",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL_%d", int(l))
}

// Position identifies a cell on the grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Worker is a player-owned piece occupying exactly one cell.
type Worker struct {
	ID       string
	PlayerID string
	Pos      Position
}

type cell struct {
	level    Level
	occupant string // worker ID, "" when empty
}

// Board owns all cell and worker state. Heights and occupancy change only
// through the validated mutators below, which preserve the monotonic-height
// and single-occupant invariants.
type Board struct {
	size    int
	grid    [][]cell
	workers map[string]*Worker
}

// New creates an empty size×size board with no workers placed.
func New(size int) *Board {
	if size <= 0 {
		size = DefaultSize
	}
	grid := make([][]cell, size)
	for r := range grid {
		grid[r] = make([]cell, size)
	}
	return &Board{
		size:    size,
		grid:    grid,
		workers: make(map[string]*Worker),
	}
}

// Size returns the board edge length.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether a position lies on the grid.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

// HeightAt returns the level of the cell at p. Out-of-bounds positions
// report ground level; callers that care should check InBounds first.
func (b *Board) HeightAt(p Position) Level {
	if !b.InBounds(p) {
		return LevelGround
	}
	return b.grid[p.Row][p.Col].level
}

// OccupantAt returns the worker occupying p, if any.
func (b *Board) OccupantAt(p Position) (*Worker, bool) {
	if !b.InBounds(p) {
		return nil, false
	}
	id := b.grid[p.Row][p.Col].occupant
	if id == "" {
		return nil, false
	}
	return b.workers[id], true
}

// Neighbors returns the up-to-8 adjacent positions of p, clipped at the
// grid edges.
func (b *Board) Neighbors(p Position) []Position {
	out := make([]Position, 0, 8)
	for r := p.Row - 1; r <= p.Row+1; r++ {
		for c := p.Col - 1; c <= p.Col+1; c++ {
			q := Position{Row: r, Col: c}
			if q != p && b.InBounds(q) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Worker returns a worker by ID.
func (b *Board) Worker(id string) (*Worker, bool) {
	w, ok := b.workers[id]
	return w, ok
}

// Workers returns all workers on the board, ordered by ID so snapshots and
// legal-action lists are stable between identical calls.
func (b *Board) Workers() []*Worker {
	out := make([]*Worker, 0, len(b.workers))
	for _, w := range b.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlayerWorkers returns the workers owned by a player, ordered by ID.
func (b *Board) PlayerWorkers(playerID string) []*Worker {
	var out []*Worker
	for _, w := range b.workers {
		if w.PlayerID == playerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlaceWorker puts a new worker on an empty, undomed cell. Used only during
// initial placement; movement afterwards goes through ApplyMove.
func (b *Board) PlaceWorker(w *Worker, p Position) error {
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %s is off the board", ErrIllegalMove, p)
	}
	if _, ok := b.workers[w.ID]; ok {
		return fmt.Errorf("%w: worker %s already placed", ErrIllegalMove, w.ID)
	}
	c := &b.grid[p.Row][p.Col]
	if c.occupant != "" {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, p)
	}
	if c.level == LevelDome {
		return fmt.Errorf("%w: %s is domed", ErrIllegalMove, p)
	}
	c.occupant = w.ID
	w.Pos = p
	b.workers[w.ID] = w
	return nil
}

// ApplyMove relocates a worker to an adjacent cell. The destination must be
// unoccupied, undomed, and at most one level above the worker's current cell.
func (b *Board) ApplyMove(workerID string, dest Position) error {
	w, ok := b.workers[workerID]
	if !ok {
		return fmt.Errorf("%w: worker %s not found", ErrIllegalMove, workerID)
	}
	if !b.InBounds(dest) {
		return fmt.Errorf("%w: %s is off the board", ErrIllegalMove, dest)
	}
	if !adjacent(w.Pos, dest) {
		return fmt.Errorf("%w: %s is not adjacent to %s", ErrIllegalMove, dest, w.Pos)
	}
	target := &b.grid[dest.Row][dest.Col]
	if target.occupant != "" {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, dest)
	}
	if target.level == LevelDome {
		return fmt.Errorf("%w: %s is domed", ErrIllegalMove, dest)
	}
	if int(target.level)-int(b.grid[w.Pos.Row][w.Pos.Col].level) > 1 {
		return fmt.Errorf("%w: %s is too high to climb from %s", ErrIllegalMove, dest, w.Pos)
	}
	b.grid[w.Pos.Row][w.Pos.Col].occupant = ""
	target.occupant = w.ID
	w.Pos = dest
	return nil
}

// ApplyBuild raises the cell at target by one level. The cell must be
// unoccupied and undomed; building on level 3 places a dome.
func (b *Board) ApplyBuild(target Position) error {
	if !b.InBounds(target) {
		return fmt.Errorf("%w: %s is off the board", ErrIllegalBuild, target)
	}
	c := &b.grid[target.Row][target.Col]
	if c.occupant != "" {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalBuild, target)
	}
	if c.level == LevelDome {
		return fmt.Errorf("%w: %s is domed", ErrIllegalBuild, target)
	}
	c.level++
	return nil
}

// ApplyBuildBeneath raises the cell under a worker by one level. This is the
// single sanctioned exception to ApplyBuild's unoccupied requirement (the
// Zeus power). The cell must be below level 3 before building: a dome is
// never placed under a worker. The worker may end up standing on level 3,
// but arriving there by building never wins.
func (b *Board) ApplyBuildBeneath(workerID string) error {
	w, ok := b.workers[workerID]
	if !ok {
		return fmt.Errorf("%w: worker %s not found", ErrIllegalBuild, workerID)
	}
	c := &b.grid[w.Pos.Row][w.Pos.Col]
	if c.level >= Level3 {
		return fmt.Errorf("%w: cannot build beneath worker at %s", ErrIllegalBuild, w.Pos)
	}
	c.level++
	return nil
}

// Clone returns a deep copy of the board. Used for read-only queries such as
// hint searches so they can never mutate live session state.
func (b *Board) Clone() *Board {
	nb := New(b.size)
	for r := range b.grid {
		copy(nb.grid[r], b.grid[r])
	}
	for id, w := range b.workers {
		cw := *w
		nb.workers[id] = &cw
	}
	return nb
}

// EmptyPositions returns every unoccupied, undomed cell.
func (b *Board) EmptyPositions() []Position {
	var out []Position
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if b.grid[r][c].occupant == "" && b.grid[r][c].level != LevelDome {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

func adjacent(a, b Position) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return a != b && dr <= 1 && dc <= 1
}
