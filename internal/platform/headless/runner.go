// Package headless runs an arkanoid loop without a terminal: for batch
// simulation and as the single owner behind the websocket stream.
package headless

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/platform/record"
)

// ErrStopped is returned by Send after the runner has stopped.
var ErrStopped = errors.New("headless: runner stopped")

// Options configures a Runner.
type Options struct {
	FPS        int
	PaddleStep float64          // World units per Left/Right action
	Autopilot  *Autopilot       // Optional; drives the paddle when enabled
	Recorder   *record.Recorder // Optional; persists finished runs
	Logger     *log.Logger
	QueueSize  int // Command buffer (default 64)
}

// Summary describes a finished simulation.
type Summary struct {
	Ticks      uint64
	Games      int // Finished games (game over or level won)
	Wins       int
	BestScore  int
	HardResets int
	Final      arkanoid.Frame
}

// Runner owns a loop. All loop calls happen on the goroutine running Run
// or Simulate; other goroutines talk to it through Send and Subscribe.
type Runner struct {
	loop   *arkanoid.Loop
	opts   Options
	logger *log.Logger

	commands chan core.InputFrame
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	subs    map[int]chan arkanoid.Frame
	nextSub int

	paused  bool
	summary Summary
}

// New creates a runner for the loop.
func New(loop *arkanoid.Loop, opts Options) *Runner {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.PaddleStep <= 0 {
		opts.PaddleStep = 3
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		loop:     loop,
		opts:     opts,
		logger:   logger,
		commands: make(chan core.InputFrame, opts.QueueSize),
		done:     make(chan struct{}),
		subs:     make(map[int]chan arkanoid.Frame),
	}
}

// Send queues input for the next tick. It never blocks: a full queue
// drops the input and returns false.
func (r *Runner) Send(in core.InputFrame) (bool, error) {
	select {
	case <-r.done:
		return false, ErrStopped
	default:
	}
	select {
	case r.commands <- in:
		return true, nil
	default:
		r.logger.Warn("command queue full, input dropped")
		return false, nil
	}
}

// Subscribe returns a channel receiving a frame after every tick. Slow
// subscribers miss frames rather than stall the game. Frames share their
// entity slice between subscribers and must not be modified.
func (r *Runner) Subscribe(buffer int) (<-chan arkanoid.Frame, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan arkanoid.Frame, buffer)

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	select {
	case <-r.done:
		close(ch)
	default:
		r.subs[id] = ch
	}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if c, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of active subscribers.
func (r *Runner) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Run ticks the loop in real time until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer r.stop()

	ticker := time.NewTicker(time.Second / time.Duration(r.opts.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.finish()
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if err := r.Step(elapsed); err != nil {
				return err
			}
		}
	}
}

// Simulate runs ticks fixed-length ticks as fast as possible.
func (r *Runner) Simulate(ticks int) (Summary, error) {
	defer r.stop()

	dt := 1.0 / float64(r.opts.FPS)
	for range ticks {
		if err := r.Step(dt); err != nil {
			return r.summary, err
		}
	}
	r.finish()
	return r.summary, nil
}

// Step applies queued input and advances the loop by one tick. A failed
// physics step skips the frame; a failed rebuild is returned.
func (r *Runner) Step(elapsed float64) error {
	r.drainCommands()

	if r.opts.Autopilot != nil && !r.paused {
		r.opts.Autopilot.Control(r.loop)
	}

	if r.paused {
		r.publish(r.loop.Frame())
		return nil
	}

	err := r.loop.Tick(elapsed)
	switch {
	case errors.Is(err, arkanoid.ErrStep):
		r.logger.Warn("frame skipped", "error", err)
	case err != nil:
		return err
	}

	events := r.loop.Events()
	r.observe(events)
	r.publish(r.loop.Frame())
	return nil
}

func (r *Runner) drainCommands() {
	for {
		select {
		case in := <-r.commands:
			r.apply(in)
		default:
			return
		}
	}
}

// apply performs one input frame on the loop.
func (r *Runner) apply(in core.InputFrame) {
	if in.Has(core.ActionPause) {
		r.paused = !r.paused
		r.logger.Debug("pause toggled", "paused", r.paused)
	}
	if in.Has(core.ActionRestart) {
		if err := r.loop.Restart(); err != nil {
			r.logger.Error("restart failed", "error", err)
		}
		r.paused = false
	}
	if r.paused {
		return
	}
	if in.Has(core.ActionLaunch) {
		r.loop.LaunchBall()
	}
	if in.Has(core.ActionLeft) {
		r.loop.MovePaddle(-r.opts.PaddleStep)
	}
	if in.Has(core.ActionRight) {
		r.loop.MovePaddle(r.opts.PaddleStep)
	}
	if in.DragX != 0 {
		r.loop.MovePaddle(in.DragX)
	}
}

func (r *Runner) observe(events []arkanoid.Event) {
	if r.opts.Autopilot != nil {
		r.opts.Autopilot.Observe(events)
	}
	if r.opts.Recorder != nil {
		r.opts.Recorder.Observe(events, r.loop.Game().TotalBricks, r.loop.Ticks())
	}

	for _, ev := range events {
		switch ev.Type {
		case arkanoid.EventGameOver:
			r.summary.Games++
		case arkanoid.EventLevelWon:
			r.summary.Games++
			r.summary.Wins++
		}
		r.summary.BestScore = max(r.summary.BestScore, ev.Score)
	}
	r.summary.BestScore = max(r.summary.BestScore, r.loop.Game().Score)
}

func (r *Runner) publish(f arkanoid.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// finish fills in the summary and records an unfinished run.
func (r *Runner) finish() {
	r.summary.Ticks = r.loop.Ticks()
	r.summary.HardResets = r.loop.HardResets()
	r.summary.Final = r.loop.Frame()
	if r.opts.Recorder != nil {
		g := r.loop.Game()
		r.opts.Recorder.Quit(g.Score, g.TotalBricks, r.loop.Ticks())
	}
}

// stop closes all subscriber channels. Send fails afterwards.
func (r *Runner) stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		defer r.mu.Unlock()
		for id, ch := range r.subs {
			close(ch)
			delete(r.subs, id)
		}
	})
}
