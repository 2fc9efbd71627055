// Package arkanoid implements the game-state loop: it steps the physics
// world, mirrors body positions into entities, and turns physics-driven
// changes into score, lives and reset transitions.
package arkanoid

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/entity"
	"github.com/vovakirdan/arkanoid/internal/level"
)

var (
	// ErrStep is returned by Tick when the physics world could not step.
	ErrStep = errors.New("arkanoid: physics step failed")

	// ErrRebuild is returned when a hard reset could not build a new world.
	ErrRebuild = errors.New("arkanoid: cannot rebuild game")
)

// Options configures a Loop.
type Options struct {
	Lives    int         // Lives at the start of every game (default 3)
	WinDelay float64     // Seconds between clearing the board and the reset (default 2)
	Logger   *log.Logger // Optional; transitions are logged at debug level
}

// Loop drives one game. The paddle is physics-owned: MovePaddle is
// forwarded to the physics world and the paddle entity only ever takes its
// position from it.
// Loop is not safe for concurrent use. Callers that tick from one
// goroutine and take commands from another must serialize all calls.
type Loop struct {
	layout     level.Layout
	newPhysics PhysicsFactory
	physics    Physics
	entities   *entity.Registry
	logger     *log.Logger

	startLives int
	winDelay   float64

	state        State
	game         GameState
	winRemaining float64
	primed       bool // False until the first tick after start or hard reset

	ticks      uint64
	hardResets int
	events     []Event
}

// New creates a loop for the layout and starts the first game.
func New(layout level.Layout, factory PhysicsFactory, opts Options) (*Loop, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil physics factory", ErrRebuild)
	}
	if opts.Lives <= 0 {
		opts.Lives = 3
	}
	if opts.WinDelay < 0 {
		opts.WinDelay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l := &Loop{
		layout:     layout,
		newPhysics: factory,
		entities:   entity.NewRegistry(),
		logger:     logger,
		startLives: opts.Lives,
		winDelay:   opts.WinDelay,
	}
	if err := l.rebuild(); err != nil {
		return nil, err
	}
	return l, nil
}

// Tick advances the game by elapsed seconds.
// The first tick after start or a hard reset only primes the loop. A tick
// whose physics step fails is skipped entirely, including the countdown of
// a pending win.
func (l *Loop) Tick(elapsed float64) error {
	elapsed = sanitizeElapsed(elapsed)

	if !l.primed {
		l.primed = true
		return nil
	}
	l.ticks++

	// 1. Advance physics
	if err := l.physics.Step(elapsed); err != nil {
		l.logger.Error("physics step failed", "dt", elapsed, "error", err)
		return fmt.Errorf("%w: %w", ErrStep, err)
	}

	// A pending win counts simulated time only
	if l.state == StateWinPending {
		l.winRemaining -= elapsed
		if l.winRemaining <= 0 {
			l.emit(Event{Type: EventLevelWon})
			l.logger.Info("level won", "score", l.game.Score)
			return l.hardReset("level won")
		}
	}

	// 2. Ball
	if pos, ok := l.physics.Position(entity.BallID.Name()); ok {
		l.entities.SetPosition(entity.BallID, pos)
		if pos.Y() < l.layout.LossY {
			return l.ballLost()
		}
	}

	// 3. Bricks
	l.syncBricks()

	// 4. Win check; only the first observation schedules the reset
	if l.state == StatePlaying && l.game.Won() {
		l.state = StateWinPending
		l.winRemaining = l.winDelay
		l.emit(Event{Type: EventWinScheduled})
		l.logger.Debug("win scheduled", "delay", l.winDelay)
	}

	// 5. Paddle
	l.syncPaddle()

	return nil
}

// syncBricks mirrors brick positions and detects newly destroyed bricks.
func (l *Loop) syncBricks() {
	for _, id := range l.entities.Bricks() {
		e, _ := l.entities.Get(id)
		if e.Destroyed {
			continue
		}
		if pos, ok := l.physics.Position(id.Name()); ok {
			l.entities.SetPosition(id, pos)
			continue
		}
		if l.entities.SetDestroyed(id) {
			l.game.Score++
			l.emit(Event{Type: EventBrickDestroyed, Brick: id})
			l.logger.Debug("brick destroyed", "brick", id.Name(), "score", l.game.Score)
		}
	}
}

// syncPaddle copies the physics paddle position into its entity.
func (l *Loop) syncPaddle() {
	if pos, ok := l.physics.Position(entity.PaddleID.Name()); ok {
		l.entities.SetPosition(entity.PaddleID, pos)
	}
}

// ballLost handles the ball falling below the loss line.
func (l *Loop) ballLost() error {
	if l.game.Lives > 0 {
		l.game.Lives--
	}
	l.emit(Event{Type: EventBallLost})
	l.logger.Debug("ball lost", "lives", l.game.Lives)

	if l.game.Lives > 0 {
		l.physics.ResetToInitial()
		if pos, ok := l.physics.Position(entity.BallID.Name()); ok {
			l.entities.SetPosition(entity.BallID, pos)
		}
		l.syncPaddle()
		l.emit(Event{Type: EventSoftReset})
		return nil
	}

	l.emit(Event{Type: EventGameOver})
	l.logger.Info("game over", "score", l.game.Score)
	return l.hardReset("game over")
}

// hardReset restarts the whole game and cancels any pending win.
func (l *Loop) hardReset(reason string) error {
	if err := l.rebuild(); err != nil {
		return err
	}
	l.hardResets++
	l.emit(Event{Type: EventHardReset})
	l.logger.Debug("hard reset", "reason", reason, "resets", l.hardResets)
	return nil
}

// rebuild creates a fresh physics world and entity set. On error the
// current game is left as it was.
func (l *Loop) rebuild() error {
	p, err := l.newPhysics(l.layout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuild, err)
	}
	if err := l.entities.ResetAll(l.layout.Entities()); err != nil {
		return fmt.Errorf("%w: %w", ErrRebuild, err)
	}

	old := l.physics
	l.physics = p
	if old != nil {
		old.Close()
	}
	l.state = StatePlaying
	l.game = GameState{
		Lives:       l.startLives,
		Score:       0,
		TotalBricks: l.layout.TotalBricks(),
	}
	l.winRemaining = 0
	l.primed = false
	return nil
}

// LaunchBall forwards a launch request to the physics world, which ignores
// it unless the ball is resting on the paddle.
func (l *Loop) LaunchBall() {
	l.physics.Launch()
}

// MovePaddle forwards a horizontal paddle offset to the physics world.
// The paddle entity picks up the new position on the next tick.
func (l *Loop) MovePaddle(dx float64) {
	if math.IsNaN(dx) || math.IsInf(dx, 0) || dx == 0 {
		return
	}
	l.physics.MovePaddle(dx)
}

// Restart performs a hard reset on request, superseding any pending win.
func (l *Loop) Restart() error {
	return l.hardReset("restart")
}

// Events returns and clears the events emitted since the last call.
func (l *Loop) Events() []Event {
	out := l.events
	l.events = nil
	return out
}

// emit records an event with the current score and lives.
func (l *Loop) emit(ev Event) {
	ev.Score = l.game.Score
	ev.Lives = l.game.Lives
	l.events = append(l.events, ev)
}

// State returns the current life-cycle state.
func (l *Loop) State() State { return l.state }

// Game returns the current lives/score bookkeeping.
func (l *Loop) Game() GameState { return l.game }

// Entity returns one entity by ID.
func (l *Loop) Entity(id entity.ID) (entity.Entity, bool) { return l.entities.Get(id) }

// Entities returns a copy of all entities.
func (l *Loop) Entities() []entity.Entity { return l.entities.All() }

// Layout returns the world geometry the loop was built with.
func (l *Loop) Layout() level.Layout { return l.layout }

// WinRemaining returns the seconds left before a pending win resets the game.
func (l *Loop) WinRemaining() float64 {
	if l.state != StateWinPending {
		return 0
	}
	return math.Max(l.winRemaining, 0)
}

// Ticks returns the number of ticks that advanced the simulation.
func (l *Loop) Ticks() uint64 { return l.ticks }

// HardResets returns how many hard resets have happened since New.
func (l *Loop) HardResets() int { return l.hardResets }

// sanitizeElapsed clamps negative and non-finite elapsed times to zero.
func sanitizeElapsed(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	return dt
}
