package core

// TileGrid is the static tile bitmap for a level, stored in row-major order.
// It never changes after construction, so derived states share one TileGrid
// by reference instead of copying it.
type TileGrid struct {
	W     int
	H     int
	cells []bool
}

// NewTileGrid creates a tile grid with the given tiles set.
// Out-of-bounds tile coordinates are ignored.
func NewTileGrid(w, h int, tiles []Coord) *TileGrid {
	g := &TileGrid{
		W:     w,
		H:     h,
		cells: make([]bool, w*h),
	}
	for _, c := range tiles {
		if g.InBounds(c) {
			g.cells[c.Index(w)] = true
		}
	}
	return g
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *TileGrid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Has returns true if the coordinate holds a tile.
// Out-of-bounds coordinates return false; edge handling is the caller's rule.
func (g *TileGrid) Has(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[c.Index(g.W)]
}

// Count returns the number of tiles in the grid.
func (g *TileGrid) Count() int {
	n := 0
	for _, t := range g.cells {
		if t {
			n++
		}
	}
	return n
}
