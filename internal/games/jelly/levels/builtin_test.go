package levels_test

import (
	"testing"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/levels"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/solver"
)

func TestBuiltinLevels(t *testing.T) {
	lvls, err := levels.Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	if len(lvls) != 6 {
		t.Fatalf("expected 6 builtin levels, got %d", len(lvls))
	}
	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("builtin levels not sorted: %s >= %s", lvls[i-1].ID, lvls[i].ID)
		}
	}
	for _, lvl := range lvls {
		checkOccupancy(t, lvl.ToState())
	}
}

func TestBuiltinLevelsSolvable(t *testing.T) {
	lvls, err := levels.Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	for _, lvl := range lvls {
		t.Run(lvl.ID, func(t *testing.T) {
			initial := lvl.ToState()
			if initial.IsWin() {
				t.Fatal("builtin level must not start in a won position")
			}

			res, err := solver.SolveWithOptions(initial, solver.Options{MaxStates: 200000})
			if err != nil {
				t.Fatalf("no solution found: %v", err)
			}
			if len(res.Moves) == 0 {
				t.Fatal("expected a non-empty solution")
			}

			states, err := solver.Replay(initial, res.Moves)
			if err != nil {
				t.Fatalf("solution does not replay: %v", err)
			}
			if !states[len(states)-1].IsWin() {
				t.Errorf("replayed solution %s does not win", solver.EncodePath(res.Moves))
			}
		})
	}
}

func TestBuiltinByID(t *testing.T) {
	lvl, err := levels.BuiltinByID("01-first-push")
	if err != nil {
		t.Fatalf("BuiltinByID failed: %v", err)
	}
	if lvl.Width != 3 || lvl.Height != 1 {
		t.Errorf("expected 3x1, got %dx%d", lvl.Width, lvl.Height)
	}

	if _, err := levels.BuiltinByID("no-such-level"); err == nil {
		t.Error("expected error for unknown ID")
	}
}

// checkOccupancy verifies every movable cell is in bounds, off the tiles and
// consistent with the occupancy index.
func checkOccupancy(t *testing.T, s *core.State) {
	t.Helper()
	claimed := make(map[core.Coord]int)
	for idx, m := range s.Movables {
		for _, c := range m.Coords {
			if !s.InBounds(c) {
				t.Fatalf("movable %d cell %v out of bounds in:\n%s", idx, c, s.Render())
			}
			if s.LookupTile(c) {
				t.Fatalf("movable %d cell %v overlaps a tile in:\n%s", idx, c, s.Render())
			}
			if prev, taken := claimed[c]; taken {
				t.Fatalf("cell %v claimed by movables %d and %d in:\n%s", c, prev, idx, s.Render())
			}
			claimed[c] = idx
			if got := s.LookupMovable(c); got != idx {
				t.Fatalf("lookup at %v returned %d, want %d", c, got, idx)
			}
		}
	}
}
