// Package solver finds shortest move sequences for jelly puzzles by
// breadth-first search over the reachable state graph.
// This package depends on core but core does not depend on solver.
package solver

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

// ErrUnsolvable is returned when the reachable state graph contains no win
// state. This is an expected outcome for unsolvable puzzles, not a fault.
var ErrUnsolvable = errors.New("solver: no solution reachable")

// ErrBudgetExhausted is returned when the search visits more states than
// the configured budget allows before finding a win.
var ErrBudgetExhausted = errors.New("solver: state budget exhausted")

// Options tunes the search.
type Options struct {
	// MaxStates caps how many distinct states the search may discover.
	// Zero means unlimited, matching the exhaustive reference behavior.
	MaxStates int
}

// Result carries the outcome of a solve run.
type Result struct {
	// Moves is the shortest solution, root to goal. Empty when the initial
	// state already wins.
	Moves []Move

	// Explored is the number of distinct states discovered, including the
	// initial one.
	Explored int
}

// step is one entry in the search frontier: the state plus the back-pointer
// used for path reconstruction. Root entries carry parent -1.
type step struct {
	state  *core.State
	parent int
	move   Move
}

// Solve runs an exhaustive breadth-first search from the initial state.
func Solve(initial *core.State) (Result, error) {
	return SolveWithOptions(initial, Options{})
}

// SolveWithOptions runs a breadth-first search from the initial state and
// returns the shortest win path. Breadth-first order guarantees minimality
// by move count; deduplication uses the exact color-aware state key, never
// a lossy hash, so distinct configurations are never conflated.
func SolveWithOptions(initial *core.State, opts Options) (Result, error) {
	if initial.IsWin() {
		return Result{Explored: 1}, nil
	}

	seen := map[string]bool{initial.Key(): true}
	frontier := []step{{state: initial, parent: -1}}

	for head := 0; head < len(frontier); head++ {
		cur := frontier[head]
		for _, t := range cur.state.AllMoves() {
			key := t.State.Key()
			if seen[key] {
				continue
			}
			move := Move{Index: t.Index, Dir: t.Dir}
			if t.State.IsWin() {
				return Result{
					Moves:    reconstruct(frontier, head, move),
					Explored: len(seen) + 1,
				}, nil
			}
			if opts.MaxStates > 0 && len(seen) >= opts.MaxStates {
				return Result{Explored: len(seen)}, ErrBudgetExhausted
			}
			seen[key] = true
			frontier = append(frontier, step{state: t.State, parent: head, move: move})
		}
	}

	return Result{Explored: len(seen)}, ErrUnsolvable
}

// reconstruct walks the parent pointers from the winning transition back to
// the root and returns the moves in forward order.
func reconstruct(frontier []step, head int, last Move) []Move {
	moves := []Move{last}
	for cur := head; frontier[cur].parent != -1; cur = frontier[cur].parent {
		moves = append(moves, frontier[cur].move)
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return moves
}

// Replay applies a move sequence to the initial state and returns every
// intermediate state, starting with the initial one. It fails if any move
// in the sequence is not legal from its predecessor.
func Replay(initial *core.State, moves []Move) ([]*core.State, error) {
	states := []*core.State{initial}
	cur := initial
	for i, m := range moves {
		next := cur.Move(m.Index, m.Dir)
		if next == nil {
			return nil, fmt.Errorf("solver: move %s at position %d is not legal", m, i)
		}
		states = append(states, next)
		cur = next
	}
	return states, nil
}
