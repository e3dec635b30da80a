package jelly

import (
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

// Snapshot captures the observable solo game state for determinism tests.
type Snapshot struct {
	Tick     uint64
	LevelID  string
	Moves    int
	Selected int
	Board    string
	StateKey string
	Won      bool
	Finished bool
}

// Snapshot returns the current solo game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     g.tick,
		LevelID:  g.level.ID,
		Moves:    g.moves,
		Selected: g.selected,
		Won:      g.won,
		Finished: g.finished,
	}
	if g.state != nil {
		s.Board = g.state.Render()
		s.StateKey = g.state.Key()
	}
	return s
}

// RaceSnapshot contains the complete state of a race for network
// transmission. Uses primitive types only for stable serialization; boards
// travel as rendered ASCII, which each client restyles locally.
type RaceSnapshot struct {
	Tick      uint64
	LevelID   string
	Board1    string
	Board2    string
	Selected1 int
	Selected2 int
	Moves1    int
	Moves2    int
	Won1      bool
	Won2      bool
	Finished  bool
	Winner    int // 0=none, 1=Player1, 2=Player2
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (RaceSnapshot) IsGameSnapshot() {}

// Ensure RaceSnapshot implements multiplayer.GameSnapshot.
var _ multiplayer.GameSnapshot = RaceSnapshot{}

// Snapshot returns the current race state for both sessions.
func (r *Race) Snapshot() multiplayer.GameSnapshot {
	return RaceSnapshot{
		Tick:      r.tick,
		LevelID:   r.levelID,
		Board1:    r.boards[0].state.Render(),
		Board2:    r.boards[1].state.Render(),
		Selected1: r.boards[0].selected,
		Selected2: r.boards[1].selected,
		Moves1:    r.boards[0].moves,
		Moves2:    r.boards[1].moves,
		Won1:      r.boards[0].won,
		Won2:      r.boards[1].won,
		Finished:  r.finished,
		Winner:    int(r.winner),
	}
}
