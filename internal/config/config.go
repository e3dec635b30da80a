// Package config provides YAML-based application configuration and solver
// effort presets for the puzzle platform.
package config

// AppConfig is the full application configuration.
type AppConfig struct {
	TickRate int          `yaml:"tick_rate"` // Simulation ticks per second
	LevelDir string       `yaml:"level_dir"` // Level directory; empty means built-in levels
	Database string       `yaml:"database"`  // SQLite database path
	Solver   SolverConfig `yaml:"solver"`
	Render   RenderConfig `yaml:"render"`
	Server   ServerConfig `yaml:"server"`
}

// SolverConfig controls the search behind hints, auto-solve and the solve command.
type SolverConfig struct {
	Effort    EffortPreset `yaml:"effort"`     // "quick", "normal" or "exhaustive"
	MaxStates int          `yaml:"max_states"` // Overrides the preset budget when > 0
	Cache     bool         `yaml:"cache"`      // Reuse stored solver results
}

// RenderConfig controls how the board is drawn.
type RenderConfig struct {
	CellWidth   int  `yaml:"cell_width"`   // Screen columns per board cell
	CellHeight  int  `yaml:"cell_height"`  // Screen rows per board cell
	ShowIndices bool `yaml:"show_indices"` // Overlay movable indices on the board
}

// ServerConfig controls the SSH server.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}

// Budget resolves the state budget for a solver run.
// An explicit max_states wins over the effort preset.
func (c SolverConfig) Budget() int {
	if c.MaxStates > 0 {
		return c.MaxStates
	}
	return MaxStatesForPreset(c.Effort)
}
