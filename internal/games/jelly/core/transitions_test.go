package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

func TestAllMovesOrdering(t *testing.T) {
	// Both movables can go both ways; enumeration is ascending index with
	// left before right.
	s := core.NewState(5, 1, nil,
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(1, 0)}),
			core.NewJelly(core.ColorGreen, false, []core.Coord{core.C(3, 0)}),
		},
		nil,
	)

	moves := s.AllMoves()
	want := []struct {
		idx int
		dir core.Dir
	}{
		{0, core.DirLeft},
		{0, core.DirRight},
		{1, core.DirLeft},
		{1, core.DirRight},
	}

	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(moves))
	}
	for i, w := range want {
		if moves[i].Index != w.idx || moves[i].Dir != w.dir {
			t.Errorf("move %d: expected (%d,%s), got (%d,%s)",
				i, w.idx, w.dir, moves[i].Index, moves[i].Dir)
		}
		if moves[i].State == nil {
			t.Errorf("move %d carries no successor state", i)
		}
	}
}

func TestAllMovesOmitsIllegal(t *testing.T) {
	// Left edge blocks the red's left, right edge blocks the green's right.
	s := core.NewState(3, 1, nil,
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 0)}),
			core.NewJelly(core.ColorGreen, false, []core.Coord{core.C(2, 0)}),
		},
		nil,
	)

	moves := s.AllMoves()

	if len(moves) != 2 {
		t.Fatalf("expected 2 legal moves, got %d", len(moves))
	}
	if moves[0].Index != 0 || moves[0].Dir != core.DirRight {
		t.Errorf("expected first move (0,Right), got (%d,%s)", moves[0].Index, moves[0].Dir)
	}
	if moves[1].Index != 1 || moves[1].Dir != core.DirLeft {
		t.Errorf("expected second move (1,Left), got (%d,%s)", moves[1].Index, moves[1].Dir)
	}
}

func TestTransitionString(t *testing.T) {
	right := core.Transition{Index: 0, Dir: core.DirRight}
	if right.String() != "0→" {
		t.Errorf("expected \"0→\", got %q", right.String())
	}
	left := core.Transition{Index: 2, Dir: core.DirLeft}
	if left.String() != "2←" {
		t.Errorf("expected \"2←\", got %q", left.String())
	}
}

func TestDeterministicExpansion(t *testing.T) {
	build := func() *core.State {
		return core.NewState(5, 3,
			[]core.Coord{core.C(0, 1), core.C(1, 1), core.C(2, 1)},
			[]core.Movable{
				core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 0)}),
				core.NewBlock([]core.Coord{core.C(2, 0)}),
				core.NewJelly(core.ColorRed, false, []core.Coord{core.C(4, 2)}),
			},
			nil,
		)
	}

	a := build()
	b := build()

	if a.Snapshot() != b.Snapshot() {
		t.Fatal("identical constructions disagree")
	}

	movesA := a.AllMoves()
	movesB := b.AllMoves()
	if len(movesA) != len(movesB) {
		t.Fatalf("expansion sizes differ: %d vs %d", len(movesA), len(movesB))
	}
	for i := range movesA {
		if movesA[i].Index != movesB[i].Index || movesA[i].Dir != movesB[i].Dir {
			t.Errorf("move %d differs: %s vs %s", i, movesA[i], movesB[i])
		}
		if movesA[i].State.Key() != movesB[i].State.Key() {
			t.Errorf("successor %d differs:\n%s\nvs\n%s",
				i, movesA[i].State.Render(), movesB[i].State.Render())
		}
	}

	// Re-expanding the same state gives the same answer again.
	again := a.AllMoves()
	if len(again) != len(movesA) {
		t.Fatalf("re-expansion size differs: %d vs %d", len(again), len(movesA))
	}
	for i := range again {
		if again[i].State.Key() != movesA[i].State.Key() {
			t.Errorf("re-expansion successor %d differs", i)
		}
	}
}
