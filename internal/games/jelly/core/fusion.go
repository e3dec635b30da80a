package core

// applyFusion merges adjacent same-color jellies until a full sweep fuses
// nothing. Movables are scanned in ascending index order; each scan walks
// the movable's coordinate list, which grows as neighbors are absorbed, so
// newly gained cells trigger chain fusions within the same scan. Blocks
// never fuse: the rule requires both sides to be jellies and the neutral
// sentinel never matches a jelly color anyway.
func (s *State) applyFusion() {
	for changed := true; changed; {
		changed = false
		for idx := 0; idx < len(s.Movables); idx++ {
			if s.Movables[idx].Kind != KindJelly {
				continue
			}
			for ci := 0; ci < len(s.Movables[idx].Coords); ci++ {
				for _, d := range AllDirs() {
					n := s.Movables[idx].Coords[ci].Step(d)
					if !s.InBounds(n) {
						continue
					}
					other := s.LookupMovable(n)
					if other < 0 || other == idx {
						continue
					}
					om := s.Movables[other]
					if om.Kind != KindJelly || om.Color != s.Movables[idx].Color {
						continue
					}
					s.absorb(idx, other)
					if other < idx {
						idx--
					}
					changed = true
				}
			}
		}
	}
}

// absorb merges movable other into movable idx: coordinates are appended,
// anchored flags ORed, attachment edges redirected to the survivor, and
// the absorbed movable removed. Every index greater than the removed one
// shifts down by one; occupancy is rebuilt to match.
func (s *State) absorb(idx, other int) {
	src := s.Movables[other]
	s.Movables[idx].Coords = append(s.Movables[idx].Coords, src.Coords...)
	s.Movables[idx].Anchored = s.Movables[idx].Anchored || src.Anchored
	s.redirectAttachments(src.ID, s.Movables[idx].ID)
	s.Movables = append(s.Movables[:other], s.Movables[other+1:]...)
	s.rebuildOccupancy()
}
