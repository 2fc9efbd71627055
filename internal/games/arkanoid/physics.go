package arkanoid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/level"
)

// Physics is the simulation the loop mirrors. Bodies are addressed by
// entity name; a destroyed body is absent from Position from then on.
type Physics interface {
	// Step advances the simulation by dt seconds.
	Step(dt float64) error

	// Position returns the body's center, or false if the body does not exist.
	Position(name string) (mgl64.Vec2, bool)

	// ResetToInitial returns the ball and paddle to their start positions
	// without touching bricks.
	ResetToInitial()

	// Launch releases the ball if it is resting on the paddle.
	Launch()

	// MovePaddle shifts the paddle horizontally by dx world units.
	MovePaddle(dx float64)

	// Close releases the world once the loop has replaced it.
	Close()
}

// PhysicsFactory builds a fresh physics world for a layout. It is called at
// start and on every hard reset with the same playfield.
type PhysicsFactory func(layout level.Layout) (Physics, error)
