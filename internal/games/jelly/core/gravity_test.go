package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

func TestGravityFallsToFloor(t *testing.T) {
	// Pushing the jelly off its perch drops it row by row until the
	// bottom edge stops it.
	s := core.NewState(2, 5,
		[]core.Coord{core.C(0, 1)},
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 0)}),
		},
		nil,
	)

	next := mustMove(t, s, 0, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 4)) {
		t.Errorf("expected fall to (1,4), got %v", next.Movables[0].Coords)
	}
}

func TestGravityLandsOnTile(t *testing.T) {
	s := core.NewState(3, 3,
		[]core.Coord{core.C(0, 1), core.C(1, 2)},
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 0)}),
		},
		nil,
	)

	next := mustMove(t, s, 0, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 1)) {
		t.Errorf("expected rest on the tile at (1,1), got %v", next.Movables[0].Coords)
	}
}

func TestGravityStacksOnMovable(t *testing.T) {
	// A falling jelly rests on a block it is not attached to.
	s := core.NewState(2, 3,
		[]core.Coord{core.C(0, 1)},
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 0)}),
			core.NewBlock([]core.Coord{core.C(1, 2)}),
		},
		nil,
	)

	next := mustMove(t, s, 0, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 1)) {
		t.Errorf("expected rest on the block at (1,1), got %v", next.Movables[0].Coords)
	}
	if !sameCells(next.Movables[1], core.C(1, 2)) {
		t.Errorf("block should not move, got %v", next.Movables[1].Coords)
	}
}

func TestGravityAnchoredFloats(t *testing.T) {
	// An anchored jelly hangs in the air through other movables' settles.
	s := core.NewState(3, 3, nil,
		[]core.Movable{
			core.NewJelly(core.ColorGreen, true, []core.Coord{core.C(1, 1)}),
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 2)}),
		},
		nil,
	)

	next := mustMove(t, s, 1, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 1)) {
		t.Errorf("anchored jelly should stay at (1,1), got %v", next.Movables[0].Coords)
	}
	if !sameCells(next.Movables[1], core.C(1, 2)) {
		t.Errorf("expected pushed jelly at (1,2), got %v", next.Movables[1].Coords)
	}
}

func TestGravityAnchoredPinsChunk(t *testing.T) {
	// A free movable attached to an anchored one hangs with it.
	s := core.NewState(4, 3, nil,
		[]core.Movable{
			core.NewJelly(core.ColorGreen, true, []core.Coord{core.C(0, 0)}),
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(3, 0)}),
			core.NewJelly(core.ColorBlue, false, []core.Coord{core.C(0, 2)}),
		},
		[][2]int{{0, 1}},
	)

	next := mustMove(t, s, 2, core.DirRight)

	if !sameCells(next.Movables[1], core.C(3, 0)) {
		t.Errorf("movable attached to an anchor should not fall, got %v", next.Movables[1].Coords)
	}
}

func TestGravityAttachedPairFallsTogether(t *testing.T) {
	// The hanger declares the edge toward its base, so the base below it
	// is transparent to the support check and the pair drops as one.
	s := core.NewState(2, 4, nil,
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 1)}),
			core.NewJelly(core.ColorGreen, false, []core.Coord{core.C(0, 0)}),
		},
		[][2]int{{1, 0}},
	)

	next := mustMove(t, s, 0, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 3)) {
		t.Errorf("expected base at (1,3), got %v", next.Movables[0].Coords)
	}
	if !sameCells(next.Movables[1], core.C(1, 2)) {
		t.Errorf("expected hanger at (1,2), got %v", next.Movables[1].Coords)
	}
}

func TestGravitySupportIgnoresReverseAttachment(t *testing.T) {
	// Same geometry, edge declared the other way around. Only a declared
	// source sees its target as transparent below it; here the upper
	// movable rests on the lower one like on any stranger, so the pair
	// stays put.
	s := core.NewState(2, 4, nil,
		[]core.Movable{
			core.NewJelly(core.ColorRed, false, []core.Coord{core.C(0, 1)}),
			core.NewJelly(core.ColorGreen, false, []core.Coord{core.C(0, 0)}),
		},
		[][2]int{{0, 1}},
	)

	next := mustMove(t, s, 0, core.DirRight)

	if !sameCells(next.Movables[0], core.C(1, 1)) {
		t.Errorf("expected base to stay at (1,1), got %v", next.Movables[0].Coords)
	}
	if !sameCells(next.Movables[1], core.C(1, 0)) {
		t.Errorf("expected upper movable to stay at (1,0), got %v", next.Movables[1].Coords)
	}
}
