package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/platform/headless"
	"github.com/vovakirdan/arkanoid/internal/platform/record"
	"github.com/vovakirdan/arkanoid/internal/platform/stream"
)

var (
	flagStreamAddr string
	flagAutopilot  bool
)

var streamCmd = &cobra.Command{
	Use:   "stream [level]",
	Short: "Serve game frames over a websocket",
	Long: `Run one game headless and stream its frames to websocket clients.

Clients connect to /ws and receive a frame after every tick. Frames are
JSON text messages by default; add ?format=msgpack for binary MessagePack.
Clients control the paddle by sending commands:

  {"action": "Left"}      {"action": "Right"}     {"action": "Launch"}
  {"action": "Pause"}     {"action": "Restart"}   {"drag_x": -2.5}

With --autopilot the server plays by itself; clients only watch.

Examples:
  arkanoid stream
  arkanoid stream pyramid --addr :9000
  arkanoid stream --autopilot --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&flagStreamAddr, "addr", ":8080", "HTTP listen address (host:port)")
	streamCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the autopilot play")
}

func runStream(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger("arkanoid-stream", false)
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

	opts := headless.Options{
		FPS:        flagFPS,
		PaddleStep: builder.Config().Paddle.Step,
		Logger:     logger.WithPrefix("runner"),
	}
	if flagAutopilot {
		opts.Autopilot = headless.NewAutopilot(seed(), builder.Config().Paddle.Step, builder.Config().Paddle.Width)
	}
	if store := openStore(logger); store != nil {
		defer store.Close()
		opts.Recorder = record.New(store, loop.Layout().LevelID, logger)
	}

	runner := headless.New(loop, opts)
	server := stream.NewServer(runner, logger.WithPrefix("ws"))
	httpServer := &http.Server{
		Addr:              flagStreamAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
		close(errCh)
	}()

	fmt.Printf("Streaming level %q on ws://%s/ws\n", loop.Layout().LevelID, flagStreamAddr)
	fmt.Println("Press Ctrl+C to stop")

	runErr := runner.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return runErr
}

// seed returns --seed, or a time-based seed when unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
