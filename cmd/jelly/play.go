package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/platform/tui"
	"github.com/vovakirdan/tui-jelly/internal/registry"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

var flagRace bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the puzzle",
	Long: `Start playing, optionally from a specific level. Without an argument
the level picker opens first.

Controls:
  W/S or Up/Down     - Select a movable
  A/D or Left/Right  - Push the selected movable
  U                  - Undo last push
  H                  - Hint (highlights the solver's next push)
  V                  - Auto-solve the rest of the level
  R                  - Restart level
  P                  - Pause
  Q/Ctrl+C           - Quit

Examples:
  jelly play
  jelly play 02-drop-in
  jelly play 03-anchored --race
  jelly play --levels ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRace, "race", false, "Race against the solver on the same level")
}

func runPlay(cmd *cobra.Command, args []string) {
	app := appConfig()

	// Get terminal size early for the level picker
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: app.TickRate,
		Seed:     seed,
		LevelDir: app.LevelDir,
	}

	// Open score storage
	store, err := storage.Open(app.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	if len(args) == 1 {
		// Verify the level exists before starting
		levelID := args[0]
		all, loadErr := jelly.LoadLevels(app.LevelDir)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", loadErr)
			os.Exit(1)
		}
		found := false
		for _, lv := range all {
			if lv.ID == levelID {
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
			fmt.Fprintln(os.Stderr, "Run 'jelly list' to see available levels.")
			os.Exit(1)
		}
		cfg.LevelID = levelID
	} else {
		// Show the level picker
		selection, updatedCfg, selErr := tui.RunLevelSelector(store, cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			return
		}
		cfg.LevelID = selection.LevelID
	}

	// Apply config before creation
	jelly.SetSolverBudget(app.Solver.Budget())
	jelly.SetRenderOptions(app.Render.CellWidth, app.Render.CellHeight, app.Render.ShowIndices)
	jelly.SetRaceSolver(flagRace)

	game, err := registry.Create("jelly")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	if runErr := tui.Run(game, store, cfg); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
