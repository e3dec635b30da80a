// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

// Level represents a parsed level ready for use.
type Level struct {
	ID          string
	Name        string
	Width       int
	Height      int
	Tiles       []core.Coord
	Movables    []core.Movable
	Attachments [][2]int
	Metadata    map[string]string
}

// ParseText parses the classic text level format.
//
// The file has two sections separated by a blank line. The first section
// is a rectangular character grid: '#' marks a fixed tile, '.' and ' '
// mark empty cells, and any other character marks the cells of a movable.
// The second section defines each symbol, one per line:
//
//	<symbol> <color> [anchored]
//
// Movable indices follow definition order. Lines starting with '@' declare
// attachments from a source symbol to one or more target symbols:
//
//	@ <source> <target> [<target>...]
//
// The text format carries no ID or name; the loader derives them from the
// file name.
func ParseText(data []byte) (Level, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimLeft(text, "\n")

	gridPart, defsPart, found := strings.Cut(text, "\n\n")
	if !found {
		return Level{}, fmt.Errorf("missing blank line between grid and definitions")
	}

	rows := strings.Split(gridPart, "\n")
	width := len([]rune(rows[0]))
	if width == 0 {
		return Level{}, fmt.Errorf("empty grid")
	}

	var (
		tiles       []core.Coord
		symbolCells = make(map[rune][]core.Coord)
		symbolOrder []rune
	)
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return Level{}, fmt.Errorf("grid row %d is %d cells wide, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			switch r {
			case '#':
				tiles = append(tiles, core.C(x, y))
			case '.', ' ':
			default:
				if _, seen := symbolCells[r]; !seen {
					symbolOrder = append(symbolOrder, r)
				}
				symbolCells[r] = append(symbolCells[r], core.C(x, y))
			}
		}
	}

	level := Level{
		Width:  width,
		Height: len(rows),
		Tiles:  tiles,
	}

	index := make(map[rune]int)
	var attachLines []string
	for _, line := range strings.Split(defsPart, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "@") {
			attachLines = append(attachLines, trimmed)
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 || len(fields) > 3 {
			return Level{}, fmt.Errorf("definition %q: want <symbol> <color> [anchored]", trimmed)
		}
		symRunes := []rune(fields[0])
		if len(symRunes) != 1 {
			return Level{}, fmt.Errorf("definition %q: symbol must be a single character", trimmed)
		}
		sym := symRunes[0]
		if _, dup := index[sym]; dup {
			return Level{}, fmt.Errorf("symbol %q defined twice", string(sym))
		}
		cells, inGrid := symbolCells[sym]
		if !inGrid {
			return Level{}, fmt.Errorf("symbol %q does not appear in the grid", string(sym))
		}
		color, ok := core.ParseColor(fields[1])
		if !ok {
			return Level{}, fmt.Errorf("symbol %q: unknown color %q", string(sym), fields[1])
		}
		anchored := false
		if len(fields) == 3 {
			if fields[2] != "anchored" {
				return Level{}, fmt.Errorf("definition %q: unexpected token %q", trimmed, fields[2])
			}
			anchored = true
		}

		index[sym] = len(level.Movables)
		if color == core.ColorNeutral {
			level.Movables = append(level.Movables, core.NewBlock(cells))
		} else {
			level.Movables = append(level.Movables, core.NewJelly(color, anchored, cells))
		}
	}

	for _, sym := range symbolOrder {
		if _, defined := index[sym]; !defined {
			return Level{}, fmt.Errorf("symbol %q is not defined", string(sym))
		}
	}

	for _, line := range attachLines {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "@" {
			return Level{}, fmt.Errorf("attachment %q: want @ <source> <target>...", line)
		}
		src, err := resolveSymbol(index, fields[1])
		if err != nil {
			return Level{}, fmt.Errorf("attachment %q: %w", line, err)
		}
		for _, tgt := range fields[2:] {
			dst, err := resolveSymbol(index, tgt)
			if err != nil {
				return Level{}, fmt.Errorf("attachment %q: %w", line, err)
			}
			level.Attachments = append(level.Attachments, [2]int{src, dst})
		}
	}

	return level, nil
}

// resolveSymbol maps a single-character symbol to its movable index.
func resolveSymbol(index map[rune]int, field string) (int, error) {
	runes := []rune(field)
	if len(runes) != 1 {
		return 0, fmt.Errorf("symbol %q must be a single character", field)
	}
	idx, ok := index[runes[0]]
	if !ok {
		return 0, fmt.Errorf("symbol %q is not defined", field)
	}
	return idx, nil
}
