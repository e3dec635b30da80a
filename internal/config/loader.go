package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the application configuration.
// Search order: customPath -> ~/.jelly/config.yaml -> ./configs/jelly.yaml -> embedded default
func Load(customPath string) (AppConfig, error) {
	var cfg AppConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return fillDefaults(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return fillDefaults(cfg), nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/jelly.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return fillDefaults(cfg), nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultJellyYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return fillDefaults(cfg), nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jelly", filename)
}

// fillDefaults replaces zero-valued fields with defaults so partial config
// files stay usable.
func fillDefaults(cfg AppConfig) AppConfig {
	def := DefaultConfig()

	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.Solver.Effort == "" {
		cfg.Solver.Effort = def.Solver.Effort
	}
	if cfg.Render.CellWidth <= 0 {
		cfg.Render.CellWidth = def.Render.CellWidth
	}
	if cfg.Render.CellHeight <= 0 {
		cfg.Render.CellHeight = def.Render.CellHeight
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.HostKeyPath == "" {
		cfg.Server.HostKeyPath = def.Server.HostKeyPath
	}

	return cfg
}
