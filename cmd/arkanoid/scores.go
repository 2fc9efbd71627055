package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/platform/tui"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

var (
	flagScoresRuns  int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show high scores for a level",
	Long: `Display the top 10 high scores, run statistics and the most recent runs
for the specified level.

Examples:
  arkanoid scores classic
  arkanoid scores pyramid --runs 20
  arkanoid scores classic --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Browse high scores interactively",
	RunE:  runScoreboard,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresRuns, "runs", 5, "Number of recent runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores and runs for the level")
}

func runScores(cmd *cobra.Command, args []string) error {
	levelID := args[0]

	if !level.Exists(levelID) {
		return fmt.Errorf("unknown level %q (run 'arkanoid levels' to see available levels)", levelID)
	}
	lvl, err := level.Get(levelID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagScoresClear {
		if err := store.ClearScores(levelID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared scores for %s.\n", lvl.Name)
		return nil
	}

	scores, err := store.TopScores(levelID, 10)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Fprintf(out, "High Scores - %s\n", lvl.Name)
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'arkanoid play %s' to set the first high score!\n", levelID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %s\n", i+1, entry.Score, formatDate(entry.CreatedAt))
	}

	stats, err := store.GetLevelStats(levelID)
	if err == nil && stats.Runs > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Runs: %d  Cleared: %d  Best: %d  Avg: %.1f  Last played: %s\n",
			stats.Runs, stats.Wins, stats.HighScore, stats.AvgScore, formatDate(stats.LastPlayed))
	}

	runs, err := store.RecentRuns(levelID, flagScoresRuns)
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}
	if len(runs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent runs:")
		for _, r := range runs {
			fmt.Fprintf(out, "  %-16s  %-10s  %3d/%-3d  %s\n",
				formatDate(r.CreatedAt), r.Outcome, r.Score, r.TotalBricks,
				(time.Duration(r.Duration) * time.Second).String())
		}
	}
	return nil
}

func runScoreboard(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	cfg := runtimeConfig()
	_, err = tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
	return err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
