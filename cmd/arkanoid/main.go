// arkanoid is a terminal Arkanoid whose bricks, ball and paddle are
// simulated by a 2D physics world.
//
// Usage:
//
//	arkanoid levels             - List available levels
//	arkanoid play [level]       - Play a level
//	arkanoid menu               - Start menu to pick levels interactively
//	arkanoid serve              - Start SSH server for remote play
//	arkanoid stream             - Serve a websocket frame stream
//	arkanoid sim [level]        - Run a headless autopilot simulation
//	arkanoid scores <level>     - Show high scores and recent runs
//	arkanoid scoreboard         - Browse high scores interactively
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set autopilot RNG seed
//	--db <path>           - Set database path (default: ~/.arkanoid/scores.db)
//	--config <path>       - Game config file (.yaml or .toml)
//	--difficulty <preset> - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/registry"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arkanoid",
	Short: "Arkanoid - break bricks in your terminal",
	Long: `Arkanoid is a brick breaker for the terminal. The ball, the paddle and
the bricks live in a Box2D world; the game keeps score and lives on top.

Available commands:
  levels      - Show all available levels
  play        - Play a level directly
  menu        - Interactive level picker menu
  serve       - Start SSH server for remote play
  stream      - Serve game frames over a websocket
  sim         - Run a headless simulation with the autopilot
  scores      - View high scores and recent runs
  scoreboard  - Browse high scores interactively

Examples:
  arkanoid levels
  arkanoid play classic
  arkanoid play pyramid --difficulty hard
  arkanoid serve --ssh :2222
  arkanoid stream --addr :8080 --autopilot
  arkanoid sim --ticks 36000`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Autopilot RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arkanoid/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(scoreboardCmd)
}

// newLogger creates the process logger. Full-screen commands pass
// interactive so logs never reach the terminal unless --log-file is set.
// The returned function closes the log file.
func newLogger(prefix string, interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// newBuilder loads the game configuration, applies --difficulty and
// returns a builder for game loops.
func newBuilder(logger *log.Logger) (*registry.Builder, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return registry.NewBuilder(cfg, logger), nil
}

// openStore opens the scores database. Failure is not fatal for playing;
// the game runs without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig builds the terminal settings from flags and the current
// terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		FPS:     flagFPS,
		Seed:    flagSeed,
	}.Normalize()
}
