package jelly

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

func TestDeterminism(t *testing.T) {
	// Two games with the same config and inputs should produce identical
	// snapshots tick for tick.
	cfg := core.RuntimeConfig{
		Seed:     12345,
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		LevelID:  "02-drop-in",
	}

	g1 := New()
	g1.Reset(cfg)

	g2 := New()
	g2.Reset(cfg)

	input := core.NewInputFrame()
	for i := 0; i < 60; i++ {
		input.Clear()
		if i == 5 {
			input.Set(core.ActionDown)
		}
		if i == 10 {
			input.Set(core.ActionRight)
		}
		if i == 20 {
			input.Set(core.ActionUndo)
		}

		g1.Step(input)
		g2.Step(input)
	}

	snap1 := g1.Snapshot()
	snap2 := g2.Snapshot()

	if snap1.Tick != snap2.Tick {
		t.Errorf("Tick mismatch: %d vs %d", snap1.Tick, snap2.Tick)
	}
	if snap1.Moves != snap2.Moves {
		t.Errorf("Moves mismatch: %d vs %d", snap1.Moves, snap2.Moves)
	}
	if snap1.Selected != snap2.Selected {
		t.Errorf("Selected mismatch: %d vs %d", snap1.Selected, snap2.Selected)
	}
	if snap1.StateKey != snap2.StateKey {
		t.Errorf("StateKey mismatch:\n%s\nvs\n%s", snap1.StateKey, snap2.StateKey)
	}
	if snap1.Board != snap2.Board {
		t.Errorf("Board mismatch:\n%s\nvs\n%s", snap1.Board, snap2.Board)
	}
}

func TestIllegalPushIgnored(t *testing.T) {
	g := newGame(t, "01-first-push")
	before := g.Snapshot()

	// The first movable sits on the left edge; pushing it left is illegal.
	step(g, core.ActionLeft)

	after := g.Snapshot()
	if after.Moves != 0 {
		t.Errorf("Expected 0 moves after illegal push, got %d", after.Moves)
	}
	if after.StateKey != before.StateKey {
		t.Errorf("Board changed on illegal push:\n%s\nvs\n%s", before.StateKey, after.StateKey)
	}
}

func TestPushAndUndo(t *testing.T) {
	g := newGame(t, "02-drop-in")
	initial := g.Snapshot()

	// Select the floor-level movable and push it right; that does not win.
	step(g, core.ActionDown)
	step(g, core.ActionRight)

	moved := g.Snapshot()
	if moved.Moves != 1 {
		t.Fatalf("Expected 1 move, got %d", moved.Moves)
	}
	if moved.Won {
		t.Fatal("Unexpected win after a single sideways push")
	}
	if moved.StateKey == initial.StateKey {
		t.Fatal("Push did not change the board")
	}

	step(g, core.ActionUndo)

	undone := g.Snapshot()
	if undone.Moves != 0 {
		t.Errorf("Expected 0 moves after undo, got %d", undone.Moves)
	}
	if undone.StateKey != initial.StateKey {
		t.Errorf("Undo did not restore the board:\n%s\nvs\n%s", initial.StateKey, undone.StateKey)
	}

	// Undo with empty history is a no-op.
	step(g, core.ActionUndo)
	if g.Snapshot().Moves != 0 {
		t.Errorf("Undo on empty history changed move count: %d", g.Snapshot().Moves)
	}
}

func TestWinAndLevelAdvance(t *testing.T) {
	g := newGame(t, "01-first-push")

	// One push right merges the two red pieces and clears the level.
	step(g, core.ActionRight)

	snap := g.Snapshot()
	if !snap.Won {
		t.Fatalf("Expected win after merging push, board:\n%s", snap.Board)
	}
	if snap.Moves != 1 {
		t.Errorf("Expected win in 1 move, got %d", snap.Moves)
	}
	if n := len(g.state.Movables); n != 1 {
		t.Errorf("Expected a single fused movable after the win, got %d", n)
	}

	// Inputs other than confirm are ignored on a won board.
	step(g, core.ActionRight)
	if g.Snapshot().Moves != 1 {
		t.Errorf("Push on won board changed move count: %d", g.Snapshot().Moves)
	}

	step(g, core.ActionConfirm)
	next := g.Snapshot()
	if next.LevelID != "02-drop-in" {
		t.Errorf("Expected advance to 02-drop-in, got %q", next.LevelID)
	}
	if next.Won || next.Moves != 0 {
		t.Errorf("Next level did not start fresh: won=%v moves=%d", next.Won, next.Moves)
	}
}

func TestRestartReloadsLevel(t *testing.T) {
	g := newGame(t, "02-drop-in")
	initial := g.Snapshot()

	step(g, core.ActionDown)
	step(g, core.ActionRight)
	step(g, core.ActionRestart)

	snap := g.Snapshot()
	if snap.Moves != 0 {
		t.Errorf("Expected 0 moves after restart, got %d", snap.Moves)
	}
	if snap.StateKey != initial.StateKey {
		t.Errorf("Restart did not restore the board:\n%s\nvs\n%s", initial.StateKey, snap.StateKey)
	}
}

func TestHintMatchesSolver(t *testing.T) {
	g := newGame(t, "01-first-push")

	step(g, core.ActionHint)
	if g.hint == nil {
		t.Fatalf("Expected a hint, got note %q", g.hintNote)
	}
	if !g.applyMove(*g.hint) {
		t.Fatal("Hint move was not legal")
	}
	if !g.won {
		t.Errorf("Hint did not lead toward the solution, board:\n%s", g.state.Render())
	}
}

func TestAutoSolvePlayback(t *testing.T) {
	g := newGame(t, "02-drop-in")

	step(g, core.ActionSolve)
	if len(g.playback) == 0 {
		t.Fatalf("Expected queued playback moves, got note %q", g.hintNote)
	}

	// Playback paces itself on the tick counter; run enough empty ticks
	// for every queued move to land.
	input := core.NewInputFrame()
	for i := 0; i < 200 && !g.won; i++ {
		g.Step(input)
	}
	if !g.won {
		t.Errorf("Auto-solve did not finish the level, board:\n%s", g.state.Render())
	}
}

func TestMissingLevelDirectory(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		LevelDir: "testdata/does-not-exist",
	})

	if g.loadErr == "" {
		t.Fatal("Expected a load error for a missing level directory")
	}
	if !g.State().GameOver {
		t.Error("Load failure should report game over")
	}

	// Render must not panic without a board.
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screenText(screen), "Cannot load levels") {
		t.Error("Load error is not shown on screen")
	}
}

func TestRaceFirstSolveWins(t *testing.T) {
	game, err := NewRaceGame(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		LevelID:  "01-first-push",
	})
	if err != nil {
		t.Fatalf("NewRaceGame: %v", err)
	}

	// Player2 solves on the first tick, Player1 does nothing.
	p2 := core.NewInputFrame()
	p2.Set(core.ActionRight)
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(multiplayer.Player2, p2)
	game.StepMulti(multi)

	if !game.Finished() {
		t.Fatal("Race should finish when one board is solved")
	}
	if game.Winner() != multiplayer.Player2 {
		t.Errorf("Expected Player2 to win, got %v", game.Winner())
	}
	if game.Moves1() != 0 || game.Moves2() != 1 {
		t.Errorf("Unexpected move counts: p1=%d p2=%d", game.Moves1(), game.Moves2())
	}

	snap, ok := game.Snapshot().(RaceSnapshot)
	if !ok {
		t.Fatalf("Unexpected snapshot type %T", game.Snapshot())
	}
	if !snap.Won2 || snap.Won1 {
		t.Errorf("Snapshot win flags wrong: won1=%v won2=%v", snap.Won1, snap.Won2)
	}
	if snap.Winner != int(multiplayer.Player2) {
		t.Errorf("Snapshot winner = %d", snap.Winner)
	}
}

func TestRaceTieGoesToPlayer1(t *testing.T) {
	game, err := NewRaceGame(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		LevelID:  "01-first-push",
	})
	if err != nil {
		t.Fatalf("NewRaceGame: %v", err)
	}

	// Both players solve on the same tick; the host side takes the match.
	in := core.NewInputFrame()
	in.Set(core.ActionRight)
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(multiplayer.Player1, in)
	multi.SetPlayer(multiplayer.Player2, in)
	game.StepMulti(multi)

	if !game.Finished() {
		t.Fatal("Race should finish on a simultaneous solve")
	}
	if game.Winner() != multiplayer.Player1 {
		t.Errorf("Expected the tie to go to Player1, got %v", game.Winner())
	}
}

func TestRaceUnknownLevel(t *testing.T) {
	_, err := NewRaceGame(core.RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		LevelID: "no-such-level",
	})
	if err == nil {
		t.Fatal("Expected an error for an unknown race level")
	}
}

// newGame builds a game on the built-in level set, starting at the given level.
func newGame(t *testing.T, levelID string) *Game {
	t.Helper()
	g := New()
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		LevelID:  levelID,
	})
	if g.loadErr != "" {
		t.Fatalf("Loading level %s: %s", levelID, g.loadErr)
	}
	if got := g.Snapshot().LevelID; got != levelID {
		t.Fatalf("Loaded level %q, want %q", got, levelID)
	}
	return g
}

// step runs a single tick with the given actions pressed.
func step(g *Game, actions ...core.Action) {
	input := core.NewInputFrame()
	for _, a := range actions {
		input.Set(a)
	}
	g.Step(input)
}

// screenText flattens a screen buffer to a plain string.
func screenText(s *core.Screen) string {
	var b strings.Builder
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			b.WriteRune(s.Get(x, y))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
