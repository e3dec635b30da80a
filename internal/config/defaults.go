package config

import (
	_ "embed"
)

//go:embed defaults/jelly.yaml
var defaultJellyYAML []byte

// DefaultConfig returns the hardcoded default configuration.
// Used as the last-resort fallback if the embedded YAML fails to parse.
func DefaultConfig() AppConfig {
	return AppConfig{
		TickRate: 30,
		LevelDir: "",
		Database: "~/.jelly/scores.db",
		Solver: SolverConfig{
			Effort:    EffortNormal,
			MaxStates: 0,
			Cache:     true,
		},
		Render: RenderConfig{
			CellWidth:   4,
			CellHeight:  2,
			ShowIndices: true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2222,
			HostKeyPath: "~/.jelly/id_ed25519",
		},
	}
}

// GetDefaultYAML returns the embedded default configuration YAML.
func GetDefaultYAML() []byte {
	return defaultJellyYAML
}
