package core

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// State is the complete puzzle state: the movable pieces, the static tile
// grid, the derived movable-occupancy array, and the attachment edges.
//
// Tile and movable cells are always disjoint, and at most one movable
// occupies any cell. Movable indices are positions in the Movables slice
// and shift when fusion removes a piece; attachment edges therefore key on
// the stable Movable.ID instead.
type State struct {
	W int
	H int

	Movables []Movable

	// tiles is shared by reference across derived states; it never changes.
	tiles *TileGrid

	// occ maps each cell to the index of the movable occupying it, -1 when
	// empty. Owned uniquely by this state and rebuilt in full after any
	// shape change.
	occ []int

	// attached holds rigid-coupling edges as declared, keyed by movable ID.
	// The relation is traversed undirected for chunking and co-movement;
	// gravity's support check reads only a movable's own directed set.
	attached map[int][]int
}

// NewState creates a puzzle state from level data. Movables are deep-copied
// and assigned their slice index as stable ID. Attachment pairs are
// (source, target) movable indices; out-of-range or self pairs are ignored.
func NewState(width, height int, tiles []Coord, movables []Movable, attachments [][2]int) *State {
	s := &State{
		W:        width,
		H:        height,
		Movables: make([]Movable, len(movables)),
		tiles:    NewTileGrid(width, height, tiles),
		attached: make(map[int][]int),
	}
	for i, m := range movables {
		mc := m.Clone()
		mc.ID = i
		s.Movables[i] = mc
	}
	for _, pair := range attachments {
		src, dst := pair[0], pair[1]
		if src < 0 || src >= len(s.Movables) || dst < 0 || dst >= len(s.Movables) || src == dst {
			continue
		}
		srcID, dstID := s.Movables[src].ID, s.Movables[dst].ID
		if !containsIndex(s.attached[srcID], dstID) {
			s.attached[srcID] = append(s.attached[srcID], dstID)
		}
	}
	s.rebuildOccupancy()
	return s
}

// Clone returns a deep copy of the state. Movable shapes and attachment
// edges are copied; the tile grid is shared by reference.
func (s *State) Clone() *State {
	movables := make([]Movable, len(s.Movables))
	for i := range s.Movables {
		movables[i] = s.Movables[i].Clone()
	}
	attached := make(map[int][]int, len(s.attached))
	for id, targets := range s.attached {
		attached[id] = append([]int(nil), targets...)
	}
	occ := make([]int, len(s.occ))
	copy(occ, s.occ)
	return &State{
		W:        s.W,
		H:        s.H,
		Movables: movables,
		tiles:    s.tiles,
		occ:      occ,
		attached: attached,
	}
}

// InBounds returns true if the coordinate is within the grid.
func (s *State) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < s.W && c.Y >= 0 && c.Y < s.H
}

// LookupTile returns true if the coordinate holds a static tile.
func (s *State) LookupTile(c Coord) bool {
	return s.tiles.Has(c)
}

// LookupMovable returns the index of the movable occupying the coordinate,
// or -1 when the cell is empty or out of bounds.
func (s *State) LookupMovable(c Coord) int {
	if !s.InBounds(c) {
		return -1
	}
	return s.occ[c.Index(s.W)]
}

// Tiles returns the shared tile grid for read-only rendering access.
func (s *State) Tiles() *TileGrid {
	return s.tiles
}

// rebuildOccupancy recomputes the movable-occupancy array from scratch.
func (s *State) rebuildOccupancy() {
	if s.occ == nil {
		s.occ = make([]int, s.W*s.H)
	}
	for i := range s.occ {
		s.occ[i] = -1
	}
	for idx, m := range s.Movables {
		for _, c := range m.Coords {
			if s.InBounds(c) {
				s.occ[c.Index(s.W)] = idx
			}
		}
	}
}

// IsWin returns true if no two jellies share a color.
// Blocks are exempt and may duplicate freely.
func (s *State) IsWin() bool {
	seen := make(map[Color]bool, len(s.Movables))
	for _, m := range s.Movables {
		if m.Kind == KindJelly && seen[m.Color] {
			return false
		}
		seen[m.Color] = true
	}
	return true
}

// Key returns the exact identity of the state for search deduplication:
// per cell, the occupying movable's index and color. Layout alone is not
// enough; two same-shaped states can differ only in which color occupies
// an index, and collapsing them breaks shortest-path search.
func (s *State) Key() string {
	var sb strings.Builder
	sb.Grow(len(s.occ) * 2)
	for _, idx := range s.occ {
		if idx < 0 {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(strconv.Itoa(idx))
		sb.WriteRune(s.Movables[idx].Color.Char())
	}
	return sb.String()
}

// Snapshot returns a hash of the state identity for determinism checks.
// Search deduplication uses Key directly; the hash is for cheap comparison
// in tests only.
func (s *State) Snapshot() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%dx%d:%s", s.W, s.H, s.Key())
	return h.Sum64()
}

// settle resolves the board after a successful push: gravity until the
// fixpoint, then fusion until no merge fires.
func (s *State) settle() {
	s.applyGravity()
	s.applyFusion()
}

func containsIndex(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
