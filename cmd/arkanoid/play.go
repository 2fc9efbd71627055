package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing the specified level, or the configured one.

Controls:
  Left/Right, A/D  - Move paddle
  Mouse drag       - Move paddle
  Space/Up         - Launch ball
  P/Esc            - Pause
  R                - Restart
  B                - Back (while paused)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 5 lives, wider paddle, slower ball
  normal - config values
  hard   - 2 lives, narrow paddle, faster ball

Examples:
  arkanoid play
  arkanoid play pyramid
  arkanoid play classic --difficulty hard
  arkanoid play --config ./my-arkanoid.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger("arkanoid", true)
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
	if id := builder.LevelID(levelID); !builder.Exists(id) {
		return fmt.Errorf("unknown level %q (run 'arkanoid levels' to see available levels)", id)
	}

	loop, err := builder.Create(levelID)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(loop, store, runtimeConfig(), builder.Config().Paddle.Step, logger)
	if err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
