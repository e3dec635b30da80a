package levels

import (
	"fmt"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/levels/formats"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate performs comprehensive validation of a parsed level.
// Checks:
//   - Grid dimensions are positive
//   - At least one movable exists and every movable has cells
//   - All tiles and movable cells are in bounds
//   - No cell is claimed twice, by tiles or movables
//   - Attachment indices are in range and not self-referential
func Validate(l formats.Level) error {
	if l.Width <= 0 || l.Height <= 0 {
		return ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("grid size %dx%d is not positive", l.Width, l.Height),
		}
	}

	if len(l.Movables) == 0 {
		return ValidationError{
			Code:    "NO_MOVABLES",
			Message: "level defines no movables",
		}
	}

	inBounds := func(c core.Coord) bool {
		return c.X >= 0 && c.X < l.Width && c.Y >= 0 && c.Y < l.Height
	}

	claimed := make(map[core.Coord]string)
	claim := func(c core.Coord, owner string) error {
		if !inBounds(c) {
			return ValidationError{
				Code:    "OUT_OF_BOUNDS",
				Message: fmt.Sprintf("%s cell %s is outside the %dx%d grid", owner, c, l.Width, l.Height),
			}
		}
		if prev, taken := claimed[c]; taken {
			return ValidationError{
				Code:    "OVERLAP",
				Message: fmt.Sprintf("cell %s claimed by both %s and %s", c, prev, owner),
			}
		}
		claimed[c] = owner
		return nil
	}

	for _, t := range l.Tiles {
		if err := claim(t, "tile"); err != nil {
			return err
		}
	}

	for i, m := range l.Movables {
		if len(m.Coords) == 0 {
			return ValidationError{
				Code:    "EMPTY_MOVABLE",
				Message: fmt.Sprintf("movable %d has no cells", i),
			}
		}
		owner := fmt.Sprintf("movable %d", i)
		for _, c := range m.Coords {
			if err := claim(c, owner); err != nil {
				return err
			}
		}
	}

	for _, edge := range l.Attachments {
		src, dst := edge[0], edge[1]
		if src < 0 || src >= len(l.Movables) || dst < 0 || dst >= len(l.Movables) {
			return ValidationError{
				Code:    "BAD_ATTACHMENT",
				Message: fmt.Sprintf("attachment %d->%d references a movable outside 0..%d", src, dst, len(l.Movables)-1),
			}
		}
		if src == dst {
			return ValidationError{
				Code:    "BAD_ATTACHMENT",
				Message: fmt.Sprintf("attachment %d->%d is self-referential", src, dst),
			}
		}
	}

	return nil
}
