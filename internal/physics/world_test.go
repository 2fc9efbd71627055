package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/entity"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
)

const frame = 1.0 / 60.0

func ballVelocity(w *World) mgl64.Vec2 {
	return fromB2(w.ball.GetLinearVelocity())
}

func buildLayout(t *testing.T, cfg config.Config, lvl *level.Level) level.Layout {
	t.Helper()
	layout, err := level.Build(cfg, lvl)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return layout
}

// singleBrickLayout puts one wide brick straight above the paddle.
func singleBrickLayout(t *testing.T) level.Layout {
	cfg := config.Default()
	cfg.Bricks.Width = 24
	cfg.Bricks.OriginX = 0
	return buildLayout(t, cfg, level.Grid("one", "One", 1, 1))
}

func newWorld(t *testing.T, layout level.Layout) *World {
	t.Helper()
	w, err := New(layout, DefaultOptions())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return w
}

func TestNewRejectsBadLayout(t *testing.T) {
	good := singleBrickLayout(t)

	noBall := good
	noBall.Ball.Radius = 0
	if _, err := New(noBall, DefaultOptions()); !errors.Is(err, ErrBadLayout) {
		t.Errorf("zero radius error = %v, want ErrBadLayout", err)
	}

	noField := good
	noField.Playfield = level.Bounds{}
	if _, err := New(noField, DefaultOptions()); !errors.Is(err, ErrBadLayout) {
		t.Errorf("empty playfield error = %v, want ErrBadLayout", err)
	}
}

func TestBallStartsAttached(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)

	if !w.Attached() {
		t.Fatal("ball should start attached")
	}
	for range 30 {
		if err := w.Step(frame); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}

	ball, ok := w.Position("Ball")
	if !ok {
		t.Fatal("ball missing")
	}
	if !ball.ApproxEqualThreshold(layout.Ball.Start, 1e-6) {
		t.Errorf("attached ball at %v, want %v", ball, layout.Ball.Start)
	}
}

func TestPositionsByName(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)

	paddle, ok := w.Position("Paddle")
	if !ok || !paddle.ApproxEqual(layout.Paddle.Start) {
		t.Errorf("paddle = %v %v, want %v", paddle, ok, layout.Paddle.Start)
	}
	brick, ok := w.Position("Brick_0_0")
	if !ok || !brick.ApproxEqual(layout.Bricks[0].Center) {
		t.Errorf("brick = %v %v, want %v", brick, ok, layout.Bricks[0].Center)
	}
	if _, ok := w.Position("Brick_9_9"); ok {
		t.Error("unknown body should be absent")
	}
}

func TestMovePaddleClampsAndCarriesBall(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)

	w.MovePaddle(1000)
	paddle, _ := w.Position("Paddle")
	wantX := layout.Playfield.MaxX - layout.Paddle.Size.X()/2
	if math.Abs(paddle.X()-wantX) > 1e-9 {
		t.Errorf("paddle x = %v, want clamped to %v", paddle.X(), wantX)
	}

	ball, _ := w.Position("Ball")
	if math.Abs(ball.X()-paddle.X()) > 1e-9 {
		t.Errorf("attached ball x = %v, want %v", ball.X(), paddle.X())
	}

	w.MovePaddle(-1000)
	paddle, _ = w.Position("Paddle")
	wantX = layout.Playfield.MinX + layout.Paddle.Size.X()/2
	if math.Abs(paddle.X()-wantX) > 1e-9 {
		t.Errorf("paddle x = %v, want clamped to %v", paddle.X(), wantX)
	}
}

func TestLaunchMovesBallUp(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)

	w.Launch()
	if w.Attached() {
		t.Fatal("ball still attached after Launch")
	}
	v := ballVelocity(w)
	if math.Abs(v.Len()-layout.Ball.Speed) > 1e-6 || v.Y() <= 0 {
		t.Errorf("launch velocity = %v, want upward at speed %v", v, layout.Ball.Speed)
	}

	for range 6 {
		if err := w.Step(frame); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	ball, _ := w.Position("Ball")
	if ball.Y() <= layout.Ball.Start.Y() {
		t.Errorf("ball y = %v, want above start %v", ball.Y(), layout.Ball.Start.Y())
	}

	// A second launch in flight changes nothing
	before := ballVelocity(w)
	w.Launch()
	if ballVelocity(w) != before {
		t.Error("Launch() in flight changed the ball velocity")
	}
}

func TestBallDestroysBrick(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)
	w.Launch()

	gone := false
	for range 120 {
		if err := w.Step(frame); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
		if _, ok := w.Position("Brick_0_0"); !ok {
			gone = true
			break
		}
	}
	if !gone {
		t.Fatal("brick was never destroyed")
	}
	if len(w.bricks) != 0 {
		t.Errorf("BricksLeft() = %d, want 0", len(w.bricks))
	}

	// The ball bounced back down
	if v := ballVelocity(w); v.Y() >= 0 {
		t.Errorf("ball velocity after hit = %v, want downward", v)
	}
}

func TestBallKeepsSpeed(t *testing.T) {
	layout := buildLayout(t, config.Default(), level.Grid("classic", "Classic", 7, 5))
	w := newWorld(t, layout)
	opts := DefaultOptions()
	w.Launch()

	for range 180 {
		if err := w.Step(frame); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
		v := ballVelocity(w)
		if math.Abs(v.Len()-layout.Ball.Speed) > 1e-6 {
			t.Fatalf("ball speed = %v, want %v", v.Len(), layout.Ball.Speed)
		}
		if math.Abs(v.Y()) < opts.MinVertical*layout.Ball.Speed-1e-6 {
			t.Fatalf("vertical speed %v below minimum", v.Y())
		}
	}
}

func TestResetToInitialKeepsBricks(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)
	w.Launch()
	for range 120 {
		_ = w.Step(frame)
		if len(w.bricks) == 0 {
			break
		}
	}
	w.MovePaddle(10)

	w.ResetToInitial()

	if !w.Attached() {
		t.Error("ball should be attached after reset")
	}
	ball, _ := w.Position("Ball")
	paddle, _ := w.Position("Paddle")
	if !ball.ApproxEqualThreshold(layout.Ball.Start, 1e-6) || !paddle.ApproxEqualThreshold(layout.Paddle.Start, 1e-6) {
		t.Errorf("reset ball %v paddle %v, want %v and %v", ball, paddle, layout.Ball.Start, layout.Paddle.Start)
	}
	if len(w.bricks) != 0 {
		t.Error("ResetToInitial must not restore bricks")
	}
}

func TestStepErrors(t *testing.T) {
	w := newWorld(t, singleBrickLayout(t))

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := w.Step(dt); !errors.Is(err, ErrBadStep) {
			t.Errorf("Step(%v) error = %v, want ErrBadStep", dt, err)
		}
	}
	if err := w.Step(0); err != nil {
		t.Errorf("Step(0) error = %v, want nil", err)
	}

	w.Close()
	if err := w.Step(frame); !errors.Is(err, ErrClosed) {
		t.Errorf("Step() after Close error = %v, want ErrClosed", err)
	}
	if _, ok := w.Position("Ball"); ok {
		t.Error("closed world should report no bodies")
	}
}

func TestHugeFrameIsCapped(t *testing.T) {
	layout := singleBrickLayout(t)
	w := newWorld(t, layout)
	w.Launch()

	// A 10s frame is simulated as MaxFrame at most
	if err := w.Step(10); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	ball, _ := w.Position("Ball")
	maxTravel := layout.Ball.Speed*DefaultOptions().MaxFrame + 1
	if d := ball.Sub(layout.Ball.Start).Len(); d > maxTravel {
		t.Errorf("ball travelled %v, want at most %v", d, maxTravel)
	}
}

// TestLoopWithBox2D drives the game loop with the real world and checks
// the bookkeeping invariants hold over a long autoplayed run.
func TestLoopWithBox2D(t *testing.T) {
	cfg := config.Default()
	layout := buildLayout(t, cfg, level.Grid("classic", "Classic", 7, 5))

	loop, err := arkanoid.New(layout, Factory(OptionsFromConfig(cfg.Physics)), arkanoid.Options{Lives: 3, WinDelay: 2})
	if err != nil {
		t.Fatalf("arkanoid.New() failed: %v", err)
	}

	lastScore, lastResets := 0, 0
	for range 60 * 60 {
		loop.LaunchBall()

		// Follow the ball so the run lasts
		ball, _ := loop.Entity(entity.BallID)
		paddle, _ := loop.Entity(entity.PaddleID)
		loop.MovePaddle(mgl64.Clamp(ball.Pos.X()-paddle.Pos.X(), -2, 2))

		if err := loop.Tick(frame); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}

		g := loop.Game()
		if loop.HardResets() != lastResets {
			lastResets, lastScore = loop.HardResets(), 0
		}
		if g.Score < lastScore || g.Score > g.TotalBricks {
			t.Fatalf("score %d out of order (last %d, total %d)", g.Score, lastScore, g.TotalBricks)
		}
		if g.Lives < 0 || g.Lives > 3 {
			t.Fatalf("lives = %d", g.Lives)
		}
		lastScore = g.Score
	}

	if lastScore == 0 && lastResets == 0 {
		t.Error("a minute of play destroyed no bricks")
	}
}

func TestLoopRestartClosesOldWorld(t *testing.T) {
	cfg := config.Default()
	layout := buildLayout(t, cfg, level.Grid("classic", "Classic", 2, 2))

	var worlds []*World
	factory := func(layout level.Layout) (arkanoid.Physics, error) {
		w, err := New(layout, OptionsFromConfig(cfg.Physics))
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, w)
		return w, nil
	}

	loop, err := arkanoid.New(layout, factory, arkanoid.Options{})
	if err != nil {
		t.Fatalf("arkanoid.New() failed: %v", err)
	}
	if err := loop.Restart(); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}

	if len(worlds) != 2 {
		t.Fatalf("worlds built = %d, want 2", len(worlds))
	}
	if err := worlds[0].Step(frame); !errors.Is(err, ErrClosed) {
		t.Errorf("old world Step() error = %v, want ErrClosed", err)
	}
	if err := worlds[1].Step(frame); err != nil {
		t.Errorf("current world Step() error = %v", err)
	}
}
