package core

// Kind distinguishes the two movable variants. The variant set is closed:
// colored jellies that fuse and score, and neutral blocks that only push
// and fall.
type Kind uint8

const (
	KindJelly Kind = iota
	KindBlock
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindJelly:
		return "jelly"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Movable is a piece that can be pushed laterally and is subject to gravity.
// Coords is ordered, duplicate-free; insertion order is preserved across
// fusion so absorbed cells extend the list.
//
// ID is a stable identity assigned at state construction. Attachment edges
// key on IDs, so removing a movable never requires renumbering the edges;
// the slice index remains the presentation-level handle.
type Movable struct {
	ID       int
	Kind     Kind
	Color    Color
	Anchored bool
	Coords   []Coord
}

// NewJelly creates a colored jelly movable.
func NewJelly(color Color, anchored bool, coords []Coord) Movable {
	return Movable{
		Kind:     KindJelly,
		Color:    color,
		Anchored: anchored,
		Coords:   coords,
	}
}

// NewBlock creates a neutral block movable.
// Blocks always carry the neutral sentinel color and are never anchored.
func NewBlock(coords []Coord) Movable {
	return Movable{
		Kind:   KindBlock,
		Color:  ColorNeutral,
		Coords: coords,
	}
}

// Clone returns a deep copy of the movable.
func (m Movable) Clone() Movable {
	coords := make([]Coord, len(m.Coords))
	copy(coords, m.Coords)
	return Movable{
		ID:       m.ID,
		Kind:     m.Kind,
		Color:    m.Color,
		Anchored: m.Anchored,
		Coords:   coords,
	}
}

// Translate shifts every cell of the movable one step in the direction.
func (m *Movable) Translate(d Dir) {
	for i := range m.Coords {
		m.Coords[i] = m.Coords[i].Step(d)
	}
}

// Size returns the number of cells the movable occupies.
func (m Movable) Size() int {
	return len(m.Coords)
}
