// Package physics implements the arkanoid physics world on top of a Box2D
// port. The world is addressed by entity name so the game loop never sees
// solver types.
package physics

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/config"
)

// Options tunes the solver.
type Options struct {
	SubStep            float64 // Fixed solver step in seconds
	MaxFrame           float64 // Longest frame simulated per Step
	VelocityIterations int
	PositionIterations int

	// MinVertical is the smallest vertical share of the ball speed, so the
	// ball never settles into a horizontal bounce.
	MinVertical float64

	// MaxDeflect is the bounce angle from vertical, in radians, for a ball
	// hitting the very edge of the paddle.
	MaxDeflect float64

	Logger *log.Logger
}

// DefaultOptions returns the solver settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SubStep:            1.0 / 120.0,
		MaxFrame:           0.25,
		VelocityIterations: 8,
		PositionIterations: 3,
		MinVertical:        0.25,
		MaxDeflect:         1.05, // ~60 degrees
	}
}

// OptionsFromConfig converts the physics config section to Options.
func OptionsFromConfig(c config.PhysicsConfig) Options {
	opts := DefaultOptions()
	if c.SubStep > 0 {
		opts.SubStep = c.SubStep
	}
	if c.MaxFrame > 0 {
		opts.MaxFrame = c.MaxFrame
	}
	if c.VelocityIterations > 0 {
		opts.VelocityIterations = c.VelocityIterations
	}
	if c.PositionIterations > 0 {
		opts.PositionIterations = c.PositionIterations
	}
	return opts
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SubStep <= 0 {
		o.SubStep = d.SubStep
	}
	if o.MaxFrame <= 0 {
		o.MaxFrame = d.MaxFrame
	}
	if o.VelocityIterations <= 0 {
		o.VelocityIterations = d.VelocityIterations
	}
	if o.PositionIterations <= 0 {
		o.PositionIterations = d.PositionIterations
	}
	if o.MinVertical <= 0 || o.MinVertical >= 1 {
		o.MinVertical = d.MinVertical
	}
	if o.MaxDeflect <= 0 {
		o.MaxDeflect = d.MaxDeflect
	}
	return o
}
