package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long: `Shows every level the current level source provides.

Without --levels (or level_dir in the config) the built-in level pack
is listed.`,
	Run: runList,
}

func runList(cmd *cobra.Command, args []string) {
	app := appConfig()

	all, err := jelly.LoadLevels(app.LevelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if len(all) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxNameLen := 4
	for _, lv := range all {
		if len(lv.ID) > maxIDLen {
			maxIDLen = len(lv.ID)
		}
		if len(lv.Name) > maxNameLen {
			maxNameLen = len(lv.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxNameLen, "----", "----")

	// Print levels
	for _, lv := range all {
		fmt.Printf("  %-*s  %-*s  %dx%d\n", maxIDLen, lv.ID, maxNameLen, lv.Name, lv.Width, lv.Height)
	}

	fmt.Println()
	fmt.Println("Run 'jelly play <id>' to play a level.")
}
