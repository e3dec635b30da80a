// jelly is a TUI puzzle about pushing blocks until every color is fused.
//
// Usage:
//
//	jelly menu               - Interactive mode and level picker
//	jelly play [level]       - Play, optionally starting at a level
//	jelly solve <level>      - Run the solver on a level and print the path
//	jelly list               - List available levels
//	jelly scores <level>     - Show best solves for a level
//	jelly serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>  - Custom config YAML (default search: ~/.jelly, ./configs)
//	--fps <rate>     - Set tick rate
//	--seed <value>   - Set RNG seed
//	--db <path>      - Set database path (default: ~/.jelly/scores.db)
//	--levels <dir>   - Level directory (default: built-in levels)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jelly/internal/config"

	// Import the game to register it
	_ "github.com/vovakirdan/tui-jelly/internal/games/jelly"
)

var (
	// Global flags
	flagConfigPath string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLevelDir   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jelly",
	Short: "Jelly Fusion - A block-pushing puzzle in your terminal",
	Long: `Jelly Fusion is a terminal puzzle game. Push colored jellies around,
let gravity pull them down, and fuse matching colors until only
single-colored pieces remain.

Available commands:
  menu     - Interactive mode and level picker
  play     - Play directly, optionally from a given level
  solve    - Run the solver on a level and print the shortest path
  list     - Show all available levels
  scores   - View best solves for a level
  serve    - Start SSH server for remote play

Examples:
  jelly menu
  jelly play 02-drop-in
  jelly solve 03-anchored --trace
  jelly serve --ssh :2222
  jelly scores 01-first-push`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelDir, "levels", "", "Level directory (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// appConfig loads the YAML config and applies any flag overrides.
func appConfig() config.AppConfig {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Database = flagDBPath
	}
	if flagLevelDir != "" {
		cfg.LevelDir = flagLevelDir
	}
	return cfg
}
