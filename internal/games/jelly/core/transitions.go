package core

import "fmt"

// Transition records one legal move and the state it produces.
type Transition struct {
	State *State
	Index int
	Dir   Dir
}

// String returns a short human-readable form, e.g. "2←" or "0→".
func (t Transition) String() string {
	arrow := "→"
	if t.Dir == DirLeft {
		arrow = "←"
	}
	return fmt.Sprintf("%d%s", t.Index, arrow)
}

// AllMoves enumerates every legal lateral move from the state, in
// deterministic order: ascending movable index, left before right. The
// ordering only decides which of several equally short solutions a search
// reports, never correctness.
func (s *State) AllMoves() []Transition {
	moves := make([]Transition, 0, 2*len(s.Movables))
	for idx := range s.Movables {
		for _, d := range LateralDirs() {
			if next := s.Move(idx, d); next != nil {
				moves = append(moves, Transition{State: next, Index: idx, Dir: d})
			}
		}
	}
	return moves
}
