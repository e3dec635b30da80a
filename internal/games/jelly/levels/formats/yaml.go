package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Size        YAMLSize          `yaml:"size"`
	Tiles       []YAMLCell        `yaml:"tiles,omitempty"`
	Movables    []YAMLMovable     `yaml:"movables"`
	Attachments []YAMLAttachment  `yaml:"attachments,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLCell represents a single cell position.
type YAMLCell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLMovable represents one movable piece.
type YAMLMovable struct {
	Color    string     `yaml:"color"`
	Anchored bool       `yaml:"anchored,omitempty"`
	Cells    []YAMLCell `yaml:"cells"`
}

// YAMLAttachment represents a directed attachment edge by movable index.
type YAMLAttachment struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// ParseYAML parses a YAML level file.
//
// Unlike colors in rendering themes, an unknown movable color here is an
// error rather than a skip: dropping a movable would shift the indices
// that attachments refer to.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Width:    yl.Size.W,
		Height:   yl.Size.H,
		Metadata: yl.Metadata,
	}

	for _, t := range yl.Tiles {
		level.Tiles = append(level.Tiles, core.C(t.X, t.Y))
	}

	for i, m := range yl.Movables {
		color, ok := core.ParseColor(m.Color)
		if !ok {
			return Level{}, fmt.Errorf("movable %d: unknown color %q", i, m.Color)
		}
		cells := make([]core.Coord, 0, len(m.Cells))
		for _, c := range m.Cells {
			cells = append(cells, core.C(c.X, c.Y))
		}
		if color == core.ColorNeutral {
			level.Movables = append(level.Movables, core.NewBlock(cells))
		} else {
			level.Movables = append(level.Movables, core.NewJelly(color, m.Anchored, cells))
		}
	}

	for _, a := range yl.Attachments {
		level.Attachments = append(level.Attachments, [2]int{a.From, a.To})
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".txt", ".yaml", ".yml"}
}
