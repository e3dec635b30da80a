package core

// Move attempts to push the movable at the given index one cell left or
// right, then settles gravity and fusion. It returns the successor state,
// or nil when the move is illegal: a non-lateral direction, an index out of
// range, or a tile, grid edge, or anchored movable anywhere in the
// push/attachment chain. Failures never partially apply; the receiver is
// never modified.
func (s *State) Move(movableIdx int, dir Dir) *State {
	if !dir.IsLateral() {
		return nil
	}
	if movableIdx < 0 || movableIdx >= len(s.Movables) {
		return nil
	}
	next := s.Clone()
	if !next.shift(movableIdx, dir) {
		return nil
	}
	next.settle()
	return next
}

// shift translates the movable and everything it drags along: movables in
// its path are pushed, attached movables co-move regardless of adjacency.
// The traversal is an explicit worklist with a visited set seeded with the
// starting index, so attachment cycles cannot propagate forever. Returns
// false without completing the translation if anything in the chain is
// anchored or runs into a tile or the grid edge.
func (s *State) shift(start int, dir Dir) bool {
	visited := map[int]bool{start: true}
	group := []int{start}
	stack := []int{start}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.Movables[idx].Anchored {
			return false
		}
		for _, c := range s.Movables[idx].Coords {
			dest := c.Step(dir)
			if !s.InBounds(dest) || s.LookupTile(dest) {
				return false
			}
			if other := s.LookupMovable(dest); other >= 0 && !visited[other] {
				visited[other] = true
				group = append(group, other)
				stack = append(stack, other)
			}
		}
		for _, other := range s.attachNeighbors(idx) {
			if !visited[other] {
				visited[other] = true
				group = append(group, other)
				stack = append(stack, other)
			}
		}
	}
	for _, idx := range group {
		s.Movables[idx].Translate(dir)
	}
	s.rebuildOccupancy()
	return true
}
