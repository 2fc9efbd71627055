package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:     "levels",
	Aliases: []string{"list"},
	Short:   "List all available levels",
	Long:    `Shows a list of all built-in levels.`,
	Run:     runLevels,
}

func runLevels(cmd *cobra.Command, _ []string) {
	levels := level.List()
	out := cmd.OutOrStdout()

	if len(levels) == 0 {
		fmt.Fprintln(out, "No levels available.")
		return
	}

	fmt.Fprintln(out, "Available levels:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	// Print header
	fmt.Fprintf(out, "  %-*s  %-12s  %s\n", maxIDLen, "ID", "Name", "Bricks")
	fmt.Fprintf(out, "  %-*s  %-12s  %s\n", maxIDLen, "--", "----", "------")

	for _, l := range levels {
		fmt.Fprintf(out, "  %-*s  %-12s  %d\n", maxIDLen, l.ID, l.Name, l.Bricks)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'arkanoid play <id>' to play a level.")
}
