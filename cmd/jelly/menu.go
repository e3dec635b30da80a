package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
	"github.com/vovakirdan/tui-jelly/internal/platform/tui"
	"github.com/vovakirdan/tui-jelly/internal/registry"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the interactive menu",
	Long: `Start in interactive menu mode.

Pick a mode, then a level. After a level set ends you return to the
menu. Online races are only available over SSH ('jelly serve').

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  jelly menu
  jelly menu --fps 30
  jelly menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	app := appConfig()

	// Open score storage
	store, err := storage.Open(app.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: app.TickRate,
		Seed:     flagSeed,
		LevelDir: app.LevelDir,
	}

	jelly.SetSolverBudget(app.Solver.Budget())
	jelly.SetRenderOptions(app.Render.CellWidth, app.Render.CellHeight, app.Render.ShowIndices)

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		// Pick a level for the chosen mode
		selection, updatedCfg, selErr := tui.RunLevelSelector(store, cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			continue
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			continue
		}
		cfg.LevelID = selection.LevelID

		jelly.SetRaceSolver(menuResult.Mode == multiplayer.MatchModeVsSolver)

		game, err := registry.Create("jelly")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each run
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
