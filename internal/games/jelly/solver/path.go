package solver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

// Move is one step of a solution: push the movable at Index in Dir.
type Move struct {
	Index int
	Dir   core.Dir
}

// String returns the compact form used in encoded paths, e.g. "3L" or "0R".
func (m Move) String() string {
	d := "R"
	if m.Dir == core.DirLeft {
		d = "L"
	}
	return strconv.Itoa(m.Index) + d
}

// EncodePath renders a move list as a single space-separated string,
// e.g. "0R 2L 1R". The encoding round-trips through ParsePath and is what
// the solution cache stores.
func EncodePath(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// ParsePath decodes a path produced by EncodePath.
func ParsePath(s string) ([]Move, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))
	for _, p := range parts {
		if len(p) < 2 {
			return nil, fmt.Errorf("solver: malformed path step %q", p)
		}
		var dir core.Dir
		switch p[len(p)-1] {
		case 'L', 'l':
			dir = core.DirLeft
		case 'R', 'r':
			dir = core.DirRight
		default:
			return nil, fmt.Errorf("solver: malformed path step %q", p)
		}
		idx, err := strconv.Atoi(p[:len(p)-1])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("solver: malformed path step %q", p)
		}
		moves = append(moves, Move{Index: idx, Dir: dir})
	}
	return moves, nil
}
