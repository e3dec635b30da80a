package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jelly/internal/config"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/levels"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/solver"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

var (
	flagTrace     bool
	flagEffort    string
	flagMaxStates int
	flagNoCache   bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Run the solver on a level",
	Long: `Search for the shortest solution to a level and print it.

Moves are printed as "<index><direction>", so "0R 3L" means push
movable 0 right, then movable 3 left. Indices follow the level file's
definition order.

Results are cached in the scores database so repeated runs are instant.
Use --no-cache to force a fresh search.

Effort presets:
  quick      - Up to 20,000 states; fast, may miss deep solutions
  normal     - Up to 200,000 states
  exhaustive - Up to 5,000,000 states

Examples:
  jelly solve 02-drop-in
  jelly solve 03-anchored --trace
  jelly solve 05-cascade --effort exhaustive
  jelly solve 05-cascade --max-states 1000000`,
	Args: cobra.ExactArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&flagTrace, "trace", false, "Print the board after every move of the solution")
	solveCmd.Flags().StringVar(&flagEffort, "effort", "", "Search effort preset: quick, normal, exhaustive")
	solveCmd.Flags().IntVar(&flagMaxStates, "max-states", 0, "Explicit state budget (overrides --effort)")
	solveCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore and do not update the solution cache")
}

func runSolve(cmd *cobra.Command, args []string) {
	app := appConfig()
	levelID := args[0]

	all, err := jelly.LoadLevels(app.LevelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	idx := -1
	for i, lv := range all {
		if lv.ID == levelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'jelly list' to see available levels.")
		os.Exit(1)
	}
	level := all[idx]
	initial := level.ToState()
	stateKey := initial.Key()

	budget := app.Solver.Budget()
	if flagEffort != "" {
		if !config.ValidEffort(flagEffort) {
			fmt.Fprintf(os.Stderr, "Error: invalid effort %q (quick, normal or exhaustive)\n", flagEffort)
			os.Exit(1)
		}
		budget = config.MaxStatesForPreset(config.EffortPreset(flagEffort))
	}
	if flagMaxStates > 0 {
		budget = flagMaxStates
	}

	useCache := app.Solver.Cache && !flagNoCache
	var store *storage.Store
	if useCache {
		store, err = storage.Open(app.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open solution cache: %v\n", err)
			store = nil
		}
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	if store != nil {
		if entry, cacheErr := store.CachedSolution(levelID, stateKey); cacheErr == nil && entry != nil {
			if !entry.Solvable {
				fmt.Printf("Level %q is unsolvable (cached, explored %d states).\n", levelID, entry.Explored)
				os.Exit(1)
			}
			moves, parseErr := solver.ParsePath(entry.Path)
			if parseErr == nil {
				fmt.Printf("Solved %q in %d pushes (cached, explored %d states).\n", levelID, len(moves), entry.Explored)
				printSolution(level, moves)
				return
			}
		}
	}

	start := time.Now()
	res, err := solver.SolveWithOptions(initial, solver.Options{MaxStates: budget})
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case errors.Is(err, solver.ErrUnsolvable):
		if store != nil {
			store.SaveSolution(levelID, stateKey, "", res.Explored, false)
		}
		fmt.Printf("Level %q is unsolvable (explored %d states in %s).\n", levelID, res.Explored, elapsed)
		os.Exit(1)
	case errors.Is(err, solver.ErrBudgetExhausted):
		fmt.Fprintf(os.Stderr, "No solution within %d states (%s).\n", budget, elapsed)
		fmt.Fprintln(os.Stderr, "Try '--effort exhaustive' or a larger '--max-states'.")
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Solver error: %v\n", err)
		os.Exit(1)
	}

	if store != nil {
		store.SaveSolution(levelID, stateKey, solver.EncodePath(res.Moves), res.Explored, true)
	}

	fmt.Printf("Solved %q in %d pushes (explored %d states in %s).\n", levelID, len(res.Moves), res.Explored, elapsed)
	printSolution(level, res.Moves)
}

// printSolution prints the move list and, with --trace, every board along
// the way.
func printSolution(level levels.Level, moves []solver.Move) {
	if len(moves) == 0 {
		fmt.Println("The level is already solved.")
		return
	}
	fmt.Printf("Path: %s\n", solver.EncodePath(moves))

	if !flagTrace {
		return
	}

	states, err := solver.Replay(level.ToState(), moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying solution: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Start:")
	fmt.Println(states[0].Render())
	for i, m := range moves {
		fmt.Printf("After %s:\n", m)
		fmt.Println(states[i+1].Render())
	}
}
