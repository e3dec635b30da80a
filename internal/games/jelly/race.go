package jelly

import (
	"fmt"

	platformcore "github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

// raceBoard is one player's side of an online race: an independent copy of
// the level plus that player's selection, history and push count.
type raceBoard struct {
	state    *core.State
	history  []*core.State
	moves    int
	selected int
	won      bool
}

// Race implements multiplayer.RaceGame: both players work the same level on
// independent boards and the first solved board wins.
type Race struct {
	levelID  string
	boards   [2]*raceBoard
	tick     uint64
	winner   multiplayer.PlayerID
	finished bool
}

// NewRaceGame creates and initializes a race for the coordinator.
// It is the multiplayer.GameFactory for the jelly game.
func NewRaceGame(cfg platformcore.RuntimeConfig) (multiplayer.RaceGame, error) {
	r := &Race{}
	if err := r.load(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// load builds both boards from the configured level.
func (r *Race) load(cfg platformcore.RuntimeConfig) error {
	all, err := LoadLevels(cfg.LevelDir)
	if err != nil {
		return fmt.Errorf("jelly: loading race levels: %w", err)
	}
	if len(all) == 0 {
		return fmt.Errorf("jelly: no levels available for a race")
	}

	lvl := all[0]
	if cfg.LevelID != "" {
		found := false
		for _, l := range all {
			if l.ID == cfg.LevelID {
				lvl = l
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("jelly: race level not found: %s", cfg.LevelID)
		}
	}

	r.levelID = lvl.ID
	r.tick = 0
	r.winner = 0
	r.finished = false
	for i := range r.boards {
		r.boards[i] = &raceBoard{state: lvl.ToState()}
	}
	return nil
}

// Reset re-initializes both boards. The coordinator calls the factory with
// the level already resolved, so a failed reload keeps the previous boards.
func (r *Race) Reset(cfg platformcore.RuntimeConfig) {
	if cfg.LevelID == "" {
		cfg.LevelID = r.levelID
	}
	//nolint:errcheck // Reset keeps the current boards when the reload fails
	r.load(cfg)
}

// StepMulti advances the race by one tick using input from both players.
func (r *Race) StepMulti(input platformcore.MultiInputFrame) platformcore.StepResult {
	r.tick++

	if !r.finished {
		r.applyInput(r.boards[0], input.Player1())
		r.applyInput(r.boards[1], input.Player2())

		// Player 1 is checked first; a same-tick double solve goes to them.
		if r.boards[0].won {
			r.finished = true
			r.winner = multiplayer.Player1
		} else if r.boards[1].won {
			r.finished = true
			r.winner = multiplayer.Player2
		}
	}

	return platformcore.StepResult{State: platformcore.GameState{
		Score:    r.boards[0].moves,
		Won:      r.boards[0].won,
		GameOver: r.finished,
	}}
}

// applyInput runs one player's actions against their own board.
// A solved board stops accepting input.
func (r *Race) applyInput(b *raceBoard, in platformcore.InputFrame) {
	if b.won {
		return
	}
	n := len(b.state.Movables)
	if n == 0 {
		return
	}

	if in.Has(platformcore.ActionUp) {
		b.selected = (b.selected - 1 + n) % n
	}
	if in.Has(platformcore.ActionDown) {
		b.selected = (b.selected + 1) % n
	}

	if in.Has(platformcore.ActionUndo) && len(b.history) > 0 {
		b.state = b.history[len(b.history)-1]
		b.history = b.history[:len(b.history)-1]
		b.moves--
		if b.selected >= len(b.state.Movables) {
			b.selected = len(b.state.Movables) - 1
		}
		return
	}

	var dir core.Dir
	switch {
	case in.Has(platformcore.ActionLeft):
		dir = core.DirLeft
	case in.Has(platformcore.ActionRight):
		dir = core.DirRight
	default:
		return
	}

	next := b.state.Move(b.selected, dir)
	if next == nil {
		return
	}
	b.history = append(b.history, b.state)
	b.state = next
	b.moves++
	if b.selected >= len(b.state.Movables) {
		b.selected = len(b.state.Movables) - 1
	}
	if b.state.IsWin() {
		b.won = true
	}
}

// Finished returns true once a board is solved.
func (r *Race) Finished() bool {
	return r.finished
}

// Winner returns the side that solved first, or 0 if nobody has.
func (r *Race) Winner() multiplayer.PlayerID {
	return r.winner
}

// Moves1 returns the pushes Player 1 has spent.
func (r *Race) Moves1() int {
	return r.boards[0].moves
}

// Moves2 returns the pushes Player 2 has spent.
func (r *Race) Moves2() int {
	return r.boards[1].moves
}

// LevelID returns the level both players race on.
func (r *Race) LevelID() string {
	return r.levelID
}

// Ensure Race implements the coordinator's interface.
var _ multiplayer.RaceGame = (*Race)(nil)
