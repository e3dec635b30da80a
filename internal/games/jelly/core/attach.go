package core

// attachTargets returns the indices of movables the given movable is
// declared attached to. This is the directed set: only edges keyed under
// the movable's own ID, which is what the gravity support check consults.
func (s *State) attachTargets(idx int) []int {
	ids := s.attached[s.Movables[idx].ID]
	if len(ids) == 0 {
		return nil
	}
	targets := make([]int, 0, len(ids))
	for _, id := range ids {
		if i := s.indexOf(id); i >= 0 {
			targets = append(targets, i)
		}
	}
	return targets
}

// attachNeighbors returns the indices adjacent to the given movable when
// the attachment relation is treated as undirected. Chunking and push
// co-movement use this view so a coupled pair always moves together no
// matter which side the edge was declared on.
func (s *State) attachNeighbors(idx int) []int {
	id := s.Movables[idx].ID
	neighbors := s.attachTargets(idx)
	for i := range s.Movables {
		if i == idx {
			continue
		}
		for _, t := range s.attached[s.Movables[i].ID] {
			if t == id && !containsIndex(neighbors, i) {
				neighbors = append(neighbors, i)
			}
		}
	}
	return neighbors
}

// Chunks partitions all movable indices into connected components of the
// attachment relation. Each chunk falls as one rigid body. Components are
// found by breadth-first traversal from each unvisited index, in ascending
// index order for determinism.
func (s *State) Chunks() [][]int {
	chunks := make([][]int, 0, len(s.Movables))
	seen := make([]bool, len(s.Movables))
	for start := range s.Movables {
		if seen[start] {
			continue
		}
		chunk := []int{start}
		seen[start] = true
		for qi := 0; qi < len(chunk); qi++ {
			for _, n := range s.attachNeighbors(chunk[qi]) {
				if !seen[n] {
					seen[n] = true
					chunk = append(chunk, n)
				}
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Attached reports whether movable src is declared attached to movable dst.
func (s *State) Attached(src, dst int) bool {
	if src < 0 || src >= len(s.Movables) || dst < 0 || dst >= len(s.Movables) {
		return false
	}
	return containsIndex(s.attached[s.Movables[src].ID], s.Movables[dst].ID)
}

// indexOf resolves a movable ID to its current slice index, -1 if removed.
func (s *State) indexOf(id int) int {
	for i := range s.Movables {
		if s.Movables[i].ID == id {
			return i
		}
	}
	return -1
}

// redirectAttachments rewires every edge touching the removed movable onto
// the survivor, then drops self-loops and duplicates. Called by fusion
// before the removed movable leaves the slice.
func (s *State) redirectAttachments(removedID, survivorID int) {
	merged := s.attached[survivorID]
	merged = append(merged, s.attached[removedID]...)
	delete(s.attached, removedID)
	if len(merged) > 0 {
		s.attached[survivorID] = merged
	}
	for id, targets := range s.attached {
		out := targets[:0]
		for _, t := range targets {
			if t == removedID {
				t = survivorID
			}
			if t == id {
				continue
			}
			if !containsIndex(out, t) {
				out = append(out, t)
			}
		}
		if len(out) == 0 {
			delete(s.attached, id)
		} else {
			s.attached[id] = out
		}
	}
}
