package headless

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/entity"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
)

// Autopilot plays the paddle: it launches the ball and tracks it with a
// random aim offset so the ball leaves the paddle at varied angles.
type Autopilot struct {
	rng     *rand.Rand
	speed   float64 // Max paddle travel per tick, in world units
	halfW   float64
	skill   float64 // 0-1, share of speed used when tracking
	aim     float64 // Offset from paddle center, in world units
	enabled bool
}

// NewAutopilot creates an autopilot with its own seeded RNG.
func NewAutopilot(seed int64, speed, paddleWidth float64) *Autopilot {
	a := &Autopilot{
		rng:     rand.New(rand.NewSource(seed)), //#nosec G404 -- gameplay randomness
		speed:   speed,
		halfW:   paddleWidth / 2,
		skill:   0.9,
		enabled: true,
	}
	a.reroll()
	return a
}

// SetEnabled turns the autopilot on or off.
func (a *Autopilot) SetEnabled(on bool) { a.enabled = on }

// Enabled reports whether the autopilot is driving.
func (a *Autopilot) Enabled() bool { return a.enabled }

// reroll picks a new aim within the inner 60% of the paddle.
func (a *Autopilot) reroll() {
	a.aim = (a.rng.Float64()*2 - 1) * a.halfW * 0.6
}

// Observe re-aims after every brick and every reset.
func (a *Autopilot) Observe(events []arkanoid.Event) {
	for _, ev := range events {
		switch ev.Type {
		case arkanoid.EventBrickDestroyed, arkanoid.EventSoftReset, arkanoid.EventHardReset:
			a.reroll()
		}
	}
}

// Control issues this tick's commands to the loop.
func (a *Autopilot) Control(loop *arkanoid.Loop) {
	if !a.enabled {
		return
	}
	loop.LaunchBall()

	ball, ok := loop.Entity(entity.BallID)
	if !ok {
		return
	}
	paddle, ok := loop.Entity(entity.PaddleID)
	if !ok {
		return
	}

	diff := ball.Pos.X() - (paddle.Pos.X() + a.aim)
	step := a.speed * a.skill
	if math.Abs(diff) < mgl64.Epsilon {
		return
	}
	loop.MovePaddle(mgl64.Clamp(diff, -step, step))
}
