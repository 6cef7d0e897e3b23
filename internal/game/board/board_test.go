package board

import (
	"errors"
	"testing"
)

func TestNeighborsClippedAtEdges(t *testing.T) {
	b := New(5)

	center := b.Neighbors(Position{Row: 2, Col: 2})
	if len(center) != 8 {
		t.Fatalf("expected 8 neighbors at center, got %d", len(center))
	}

	corner := b.Neighbors(Position{Row: 0, Col: 0})
	if len(corner) != 3 {
		t.Fatalf("expected 3 neighbors at corner, got %d", len(corner))
	}

	edge := b.Neighbors(Position{Row: 0, Col: 2})
	if len(edge) != 5 {
		t.Fatalf("expected 5 neighbors at edge, got %d", len(edge))
	}
}

func TestApplyMoveValidation(t *testing.T) {
	b := New(5)
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, Position{Row: 2, Col: 2}); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	// Not adjacent.
	if err := b.ApplyMove("w1", Position{Row: 0, Col: 0}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for non-adjacent, got %v", err)
	}

	// Occupied.
	w2 := &Worker{ID: "w2", PlayerID: "p2"}
	if err := b.PlaceWorker(w2, Position{Row: 2, Col: 3}); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := b.ApplyMove("w1", Position{Row: 2, Col: 3}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for occupied, got %v", err)
	}

	// Too high: raise (2,1) to level 2 while worker stands on ground.
	target := Position{Row: 2, Col: 1}
	for i := 0; i < 2; i++ {
		if err := b.ApplyBuild(target); err != nil {
			t.Fatalf("build failed: %v", err)
		}
	}
	if err := b.ApplyMove("w1", target); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for 2-level climb, got %v", err)
	}

	// One level up is fine.
	step := Position{Row: 1, Col: 2}
	if err := b.ApplyBuild(step); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if err := b.ApplyMove("w1", step); err != nil {
		t.Fatalf("expected legal one-level climb, got %v", err)
	}
	if w.Pos != step {
		t.Fatalf("worker position not updated, got %s", w.Pos)
	}
	if _, occupied := b.OccupantAt(Position{Row: 2, Col: 2}); occupied {
		t.Fatal("origin cell still occupied after move")
	}
}

func TestApplyMoveDownAnyDistance(t *testing.T) {
	b := New(5)
	top := Position{Row: 2, Col: 2}
	for i := 0; i < 3; i++ {
		if err := b.ApplyBuild(top); err != nil {
			t.Fatalf("build failed: %v", err)
		}
	}
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, top); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := b.ApplyMove("w1", Position{Row: 2, Col: 3}); err != nil {
		t.Fatalf("moving down 3 levels should be legal, got %v", err)
	}
}

func TestBuildHeightMonotonicUntilDome(t *testing.T) {
	b := New(5)
	p := Position{Row: 1, Col: 1}

	want := []Level{Level1, Level2, Level3, LevelDome}
	for _, lvl := range want {
		if err := b.ApplyBuild(p); err != nil {
			t.Fatalf("build to %s failed: %v", lvl, err)
		}
		if b.HeightAt(p) != lvl {
			t.Fatalf("expected %s, got %s", lvl, b.HeightAt(p))
		}
	}

	// Domed cells accept no further builds, no moves, no placement.
	if err := b.ApplyBuild(p); !errors.Is(err, ErrIllegalBuild) {
		t.Fatalf("expected ErrIllegalBuild on dome, got %v", err)
	}
	if b.HeightAt(p) != LevelDome {
		t.Fatalf("dome height changed to %s", b.HeightAt(p))
	}
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, p); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove placing on dome, got %v", err)
	}
}

func TestBuildOnOccupiedCellRejected(t *testing.T) {
	b := New(5)
	p := Position{Row: 3, Col: 3}
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, p); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := b.ApplyBuild(p); !errors.Is(err, ErrIllegalBuild) {
		t.Fatalf("expected ErrIllegalBuild on occupied cell, got %v", err)
	}
}

func TestApplyBuildBeneath(t *testing.T) {
	b := New(5)
	p := Position{Row: 2, Col: 2}
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, p); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if err := b.ApplyBuildBeneath("w1"); err != nil {
		t.Fatalf("build beneath failed: %v", err)
	}
	if b.HeightAt(p) != Level1 {
		t.Fatalf("expected LEVEL1 beneath worker, got %s", b.HeightAt(p))
	}
	if occ, ok := b.OccupantAt(p); !ok || occ.ID != "w1" {
		t.Fatal("worker displaced by build beneath")
	}

	// Raising the worker through level 2 and onto level 3 is legal; only a
	// dome may never be built beneath a worker.
	if err := b.ApplyBuildBeneath("w1"); err != nil {
		t.Fatalf("build beneath failed: %v", err)
	}
	if err := b.ApplyBuildBeneath("w1"); err != nil {
		t.Fatalf("raising worker onto level 3 should be legal, got %v", err)
	}
	if b.HeightAt(p) != Level3 {
		t.Fatalf("expected LEVEL3 beneath worker, got %s", b.HeightAt(p))
	}
	if err := b.ApplyBuildBeneath("w1"); !errors.Is(err, ErrIllegalBuild) {
		t.Fatalf("expected ErrIllegalBuild doming under worker, got %v", err)
	}
	if b.HeightAt(p) != Level3 {
		t.Fatalf("rejected build changed height to %s", b.HeightAt(p))
	}
}

func TestWorkersOrderedByID(t *testing.T) {
	b := New(5)
	placement := map[string]Position{
		"p2-w1": {Row: 0, Col: 0},
		"p1-w2": {Row: 1, Col: 1},
		"p2-w2": {Row: 2, Col: 2},
		"p1-w1": {Row: 3, Col: 3},
	}
	for id, p := range placement {
		w := &Worker{ID: id, PlayerID: id[:2]}
		if err := b.PlaceWorker(w, p); err != nil {
			t.Fatalf("place failed: %v", err)
		}
	}

	want := []string{"p1-w1", "p1-w2", "p2-w1", "p2-w2"}
	for i := 0; i < 10; i++ {
		all := b.Workers()
		for j, w := range all {
			if w.ID != want[j] {
				t.Fatalf("iteration %d: expected %s at index %d, got %s", i, want[j], j, w.ID)
			}
		}
		p1 := b.PlayerWorkers("p1")
		if len(p1) != 2 || p1[0].ID != "p1-w1" || p1[1].ID != "p1-w2" {
			t.Fatalf("iteration %d: player workers out of order: %v", i, p1)
		}
	}
}

func TestSingleOccupantInvariant(t *testing.T) {
	b := New(5)
	p := Position{Row: 0, Col: 0}
	if err := b.PlaceWorker(&Worker{ID: "w1", PlayerID: "p1"}, p); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := b.PlaceWorker(&Worker{ID: "w2", PlayerID: "p2"}, p); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove on double placement, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(5)
	w := &Worker{ID: "w1", PlayerID: "p1"}
	if err := b.PlaceWorker(w, Position{Row: 2, Col: 2}); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	clone := b.Clone()
	if err := clone.ApplyMove("w1", Position{Row: 2, Col: 3}); err != nil {
		t.Fatalf("clone move failed: %v", err)
	}
	if err := clone.ApplyBuild(Position{Row: 1, Col: 1}); err != nil {
		t.Fatalf("clone build failed: %v", err)
	}

	if w.Pos != (Position{Row: 2, Col: 2}) {
		t.Fatal("mutating the clone moved the original worker")
	}
	if b.HeightAt(Position{Row: 1, Col: 1}) != LevelGround {
		t.Fatal("mutating the clone changed the original board")
	}
}

func TestEmptyPositions(t *testing.T) {
	b := New(5)
	if got := len(b.EmptyPositions()); got != 25 {
		t.Fatalf("expected 25 empty cells, got %d", got)
	}
	if err := b.PlaceWorker(&Worker{ID: "w1", PlayerID: "p1"}, Position{Row: 0, Col: 0}); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := b.ApplyBuild(Position{Row: 4, Col: 4}); err != nil {
			t.Fatalf("build failed: %v", err)
		}
	}
	if got := len(b.EmptyPositions()); got != 23 {
		t.Fatalf("expected 23 empty cells, got %d", got)
	}
}
