package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show best solves for a level",
	Long: `Display the top 10 solves for the specified level, ranked by push
count and then by time.

Examples:
  jelly scores 01-first-push
  jelly scores 02-drop-in`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	app := appConfig()
	levelID := args[0]

	// Resolve the level name for the header
	all, err := jelly.LoadLevels(app.LevelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	name := ""
	for _, lv := range all {
		if lv.ID == levelID {
			name = lv.Name
			break
		}
	}
	if name == "" {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'jelly list' to see available levels.")
		os.Exit(1)
	}

	store, err := storage.Open(app.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	solves, err := store.BestSolves(levelID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving solves: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Solves - %s\n", name)
	fmt.Println()

	if len(solves) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'jelly play %s' to set the first record!\n", levelID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-10s  %s\n", "Rank", "Pushes", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %s\n", "----", "------", "----", "----")

	// Print solves
	for i, entry := range solves {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		durStr := entry.Duration.Round(100 * time.Millisecond).String()
		fmt.Printf("  %-4d  %-8d  %-10s  %s\n", i+1, entry.Moves, durStr, dateStr)
	}

	fmt.Println()
	if stats, statsErr := store.GetLevelStats(levelID); statsErr == nil && stats != nil {
		fmt.Printf("Solves: %d | Best: %d pushes | Avg: %.1f pushes\n",
			stats.SolveCount, stats.BestMoves, stats.AvgMoves)
	}
}
