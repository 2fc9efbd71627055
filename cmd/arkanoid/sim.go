package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/platform/headless"
	"github.com/vovakirdan/arkanoid/internal/platform/record"
)

var (
	flagSimTicks int
	flagSimSave  bool
)

var simCmd = &cobra.Command{
	Use:   "sim [level]",
	Short: "Run a headless simulation with the autopilot",
	Long: `Let the autopilot play a level as fast as possible and print a summary.
Ticks use a fixed length of 1/fps seconds, so a run is reproducible with
--seed.

Examples:
  arkanoid sim
  arkanoid sim single --ticks 600
  arkanoid sim classic --seed 7 --difficulty easy
  arkanoid sim --save          # Record finished runs in the scores database`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 60*60*5, "Number of ticks to simulate")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save finished runs to the scores database")
}

func runSim(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger("arkanoid-sim", false)
	if err != nil {
		return err
	}
	defer closeLog()

	builder, err := newBuilder(logger)
	if err != nil {
		return err
	}

	levelID := ""
	if len(args) > 0 {
		levelID = args[0]
	}
	loop, err := builder.Create(levelID)
	if err != nil {
		return err
	}

	s := seed()
	paddle := builder.Config().Paddle
	opts := headless.Options{
		FPS:        flagFPS,
		PaddleStep: paddle.Step,
		Autopilot:  headless.NewAutopilot(s, paddle.Step, paddle.Width),
		Logger:     logger.WithPrefix("runner"),
	}
	if flagSimSave {
		if store := openStore(logger); store != nil {
			defer store.Close()
			opts.Recorder = record.New(store, loop.Layout().LevelID, logger)
		}
	}

	summary, err := headless.New(loop, opts).Simulate(flagSimTicks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Level:        %s\n", loop.Layout().LevelID)
	fmt.Fprintf(out, "Seed:         %d\n", s)
	fmt.Fprintf(out, "Ticks:        %d (%.1fs)\n", summary.Ticks, float64(summary.Ticks)/float64(max(flagFPS, 1)))
	fmt.Fprintf(out, "Games:        %d finished, %d won\n", summary.Games, summary.Wins)
	fmt.Fprintf(out, "Best score:   %d\n", summary.BestScore)
	fmt.Fprintf(out, "Hard resets:  %d\n", summary.HardResets)
	fmt.Fprintf(out, "Final state:  %s, score %d/%d, lives %d\n",
		summary.Final.State, summary.Final.Score, summary.Final.TotalBricks, summary.Final.Lives)
	return nil
}
