package core

// applyGravity drops chunks one row at a time until a full sweep moves
// nothing. A chunk is the atomic unit: either every member falls or none
// does. Chunk membership cannot change during gravity, so the partition is
// computed once.
func (s *State) applyGravity() {
	chunks := s.Chunks()
	for moved := true; moved; {
		moved = false
		for _, chunk := range chunks {
			if s.chunkCanFall(chunk) {
				for _, idx := range chunk {
					s.Movables[idx].Translate(DirDown)
				}
				s.rebuildOccupancy()
				moved = true
			}
		}
	}
}

// chunkCanFall reports whether every member of the chunk can drop one row.
// An anchored member pins the whole chunk. The bottom edge is the floor.
//
// The support check below is per-movable against that movable's own
// directed attachment set, not against full chunk membership: a member
// resting on a second-degree or reverse-attached neighbor counts as
// supported-by-stranger and pins the chunk.
func (s *State) chunkCanFall(chunk []int) bool {
	for _, idx := range chunk {
		m := s.Movables[idx]
		if m.Anchored {
			return false
		}
		targets := s.attachTargets(idx)
		for _, c := range m.Coords {
			below := c.Step(DirDown)
			if !s.InBounds(below) || s.LookupTile(below) {
				return false
			}
			other := s.LookupMovable(below)
			if other < 0 || other == idx {
				continue
			}
			if !containsIndex(targets, other) {
				return false
			}
		}
	}
	return true
}
