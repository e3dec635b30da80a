// Package core implements the jelly puzzle simulation: lateral pushes with
// propagation, per-chunk gravity, same-color fusion, and win detection.
// This package is UI-agnostic and deterministic.
package core

// Dir represents a movement direction on the grid.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// IsLateral reports whether the direction is a legal player move.
// Only left and right pushes are player-initiated; down is reserved for
// gravity and up is unused by any rule.
func (d Dir) IsLateral() bool {
	return d == DirLeft || d == DirRight
}

// AllDirs returns the four directions in scan order.
func AllDirs() []Dir {
	return []Dir{DirUp, DirRight, DirDown, DirLeft}
}

// LateralDirs returns the player-legal directions in canonical order:
// left before right.
func LateralDirs() []Dir {
	return []Dir{DirLeft, DirRight}
}
