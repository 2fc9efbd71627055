package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/entity"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/physics"
)

const frame = 1.0 / 60.0

func newLoop(t *testing.T) *arkanoid.Loop {
	t.Helper()
	cfg := config.Default()
	lvl, err := level.Get(level.DefaultID)
	if err != nil {
		t.Fatalf("level.Get() failed: %v", err)
	}
	layout, err := level.Build(cfg, lvl)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	loop, err := arkanoid.New(layout, physics.Factory(physics.OptionsFromConfig(cfg.Physics)), arkanoid.Options{
		Lives:    cfg.Gameplay.Lives,
		WinDelay: cfg.Gameplay.WinDelay,
	})
	if err != nil {
		t.Fatalf("arkanoid.New() failed: %v", err)
	}
	return loop
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func mustStep(t *testing.T, r *Runner) {
	t.Helper()
	if err := r.Step(frame); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
}

func TestRunnerMovesPaddle(t *testing.T) {
	loop := newLoop(t)
	r := New(loop, Options{PaddleStep: 3})
	mustStep(t, r) // Prime

	start, _ := loop.Entity(entity.PaddleID)
	if ok, err := r.Send(input(core.ActionRight)); !ok || err != nil {
		t.Fatalf("Send() = %v, %v", ok, err)
	}
	mustStep(t, r)

	now, _ := loop.Entity(entity.PaddleID)
	if d := now.Pos.X() - start.Pos.X(); d < 2.999 || d > 3.001 {
		t.Errorf("paddle moved %v, want 3", d)
	}

	drag := core.NewInputFrame()
	drag.Drag(-5)
	r.Send(drag)
	mustStep(t, r)

	now, _ = loop.Entity(entity.PaddleID)
	if d := now.Pos.X() - start.Pos.X(); d < -2.001 || d > -1.999 {
		t.Errorf("paddle offset after drag = %v, want -2", d)
	}
}

func TestRunnerLaunch(t *testing.T) {
	loop := newLoop(t)
	r := New(loop, Options{})
	mustStep(t, r)

	start, _ := loop.Entity(entity.BallID)
	r.Send(input(core.ActionLaunch))
	for range 10 {
		mustStep(t, r)
	}

	ball, _ := loop.Entity(entity.BallID)
	if ball.Pos.Y() <= start.Pos.Y() {
		t.Errorf("ball y = %v, want above %v after launch", ball.Pos.Y(), start.Pos.Y())
	}
}

func TestRunnerPause(t *testing.T) {
	loop := newLoop(t)
	r := New(loop, Options{})
	mustStep(t, r)

	r.Send(input(core.ActionLaunch, core.ActionPause))
	mustStep(t, r)
	ticks := loop.Ticks()
	ball, _ := loop.Entity(entity.BallID)

	for range 10 {
		mustStep(t, r)
	}
	if loop.Ticks() != ticks {
		t.Errorf("paused runner ticked: %d -> %d", ticks, loop.Ticks())
	}
	if now, _ := loop.Entity(entity.BallID); now.Pos != ball.Pos {
		t.Error("ball moved while paused")
	}

	r.Send(input(core.ActionPause))
	mustStep(t, r)
	if loop.Ticks() == ticks {
		t.Error("unpaused runner should tick")
	}
}

func TestRunnerRestart(t *testing.T) {
	loop := newLoop(t)
	r := New(loop, Options{})
	mustStep(t, r)

	r.Send(input(core.ActionRestart))
	mustStep(t, r)

	if loop.HardResets() != 1 {
		t.Errorf("HardResets() = %d, want 1", loop.HardResets())
	}
}

func TestRunnerQueueFull(t *testing.T) {
	r := New(newLoop(t), Options{QueueSize: 1})

	if ok, _ := r.Send(input(core.ActionLeft)); !ok {
		t.Fatal("first Send() should be queued")
	}
	if ok, err := r.Send(input(core.ActionLeft)); ok || err != nil {
		t.Errorf("Send() on full queue = %v, %v; want false, nil", ok, err)
	}
}

func TestRunnerSubscribe(t *testing.T) {
	r := New(newLoop(t), Options{})
	frames, cancel := r.Subscribe(4)

	mustStep(t, r)
	mustStep(t, r)

	select {
	case f := <-frames:
		if f.TotalBricks != 35 || len(f.Entities) != 37 {
			t.Errorf("frame = %d bricks, %d entities; want 35 and 37", f.TotalBricks, len(f.Entities))
		}
	default:
		t.Fatal("no frame published")
	}

	if r.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", r.Subscribers())
	}
	cancel()
	cancel() // Idempotent
	if r.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after cancel, want 0", r.Subscribers())
	}
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	r := New(newLoop(t), Options{FPS: 120})
	frames, _ := r.Subscribe(1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// Drain; the channel must be closed after Run returns
	for range frames {
	}
	if _, err := r.Send(input(core.ActionLaunch)); !errors.Is(err, ErrStopped) {
		t.Errorf("Send() after stop error = %v, want ErrStopped", err)
	}
}

func TestSimulateWithAutopilot(t *testing.T) {
	loop := newLoop(t)
	layout := loop.Layout()
	pilot := NewAutopilot(7, 2, layout.Paddle.Size.X())
	r := New(loop, Options{Autopilot: pilot})

	summary, err := r.Simulate(60 * 90)
	if err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}

	if summary.Ticks == 0 {
		t.Error("no ticks simulated")
	}
	if summary.BestScore == 0 {
		t.Error("autopilot destroyed no bricks in 90s")
	}
	if summary.Final.TotalBricks != 35 {
		t.Errorf("final frame total = %d, want 35", summary.Final.TotalBricks)
	}
}

func TestAutopilotDisabled(t *testing.T) {
	loop := newLoop(t)
	pilot := NewAutopilot(1, 2, 16)
	pilot.SetEnabled(false)
	r := New(loop, Options{Autopilot: pilot})

	for range 30 {
		mustStep(t, r)
	}
	ball, _ := loop.Entity(entity.BallID)
	if ball.Pos != loop.Layout().Ball.Start {
		t.Error("disabled autopilot should not launch the ball")
	}
}
