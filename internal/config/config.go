// Package config provides YAML/TOML configuration loading and difficulty
// presets for the arkanoid game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for unusable configurations.
var ErrInvalid = errors.New("config: invalid configuration")

// Config contains all configuration for the game.
type Config struct {
	Playfield PlayfieldConfig `yaml:"playfield" toml:"playfield"`
	Bricks    BricksConfig    `yaml:"bricks"    toml:"bricks"`
	Ball      BallConfig      `yaml:"ball"      toml:"ball"`
	Paddle    PaddleConfig    `yaml:"paddle"    toml:"paddle"`
	Gameplay  GameplayConfig  `yaml:"gameplay"  toml:"gameplay"`
	Physics   PhysicsConfig   `yaml:"physics"   toml:"physics"`
}

// PlayfieldConfig defines the world-space play area. X spans
// [-Width/2, Width/2] and Y spans [0, Height].
type PlayfieldConfig struct {
	Width         float64 `yaml:"width"          toml:"width"`
	Height        float64 `yaml:"height"         toml:"height"`
	WallThickness float64 `yaml:"wall_thickness" toml:"wall_thickness"`
}

// BricksConfig defines brick geometry. Origin is the center of brick (0,0);
// rows grow upward and columns grow to the right.
type BricksConfig struct {
	Width   float64 `yaml:"width"    toml:"width"`
	Height  float64 `yaml:"height"   toml:"height"`
	Spacing float64 `yaml:"spacing"  toml:"spacing"`
	OriginX float64 `yaml:"origin_x" toml:"origin_x"`
	OriginY float64 `yaml:"origin_y" toml:"origin_y"`
}

// BallConfig defines the ball.
type BallConfig struct {
	Radius float64 `yaml:"radius" toml:"radius"`
	Speed  float64 `yaml:"speed"  toml:"speed"` // World units per second after launch
}

// PaddleConfig defines the paddle. The ball rests on top of it at start.
type PaddleConfig struct {
	Width  float64 `yaml:"width"  toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	StartX float64 `yaml:"start_x" toml:"start_x"`
	StartY float64 `yaml:"start_y" toml:"start_y"`
	Step   float64 `yaml:"step"   toml:"step"` // Keyboard move distance per press
}

// GameplayConfig defines lives and the reset timing.
type GameplayConfig struct {
	Lives      int     `yaml:"lives"       toml:"lives"`
	WinDelay   float64 `yaml:"win_delay"   toml:"win_delay"`   // Seconds between clearing the board and the reset
	LossOffset float64 `yaml:"loss_offset" toml:"loss_offset"` // Distance below the playfield floor at which the ball is lost
	Level      string  `yaml:"level"       toml:"level"`
}

// PhysicsConfig tunes the physics stepping.
type PhysicsConfig struct {
	SubStep            float64 `yaml:"sub_step"            toml:"sub_step"`  // Fixed solver step in seconds
	MaxFrame           float64 `yaml:"max_frame"           toml:"max_frame"` // Frame time cap in seconds
	VelocityIterations int     `yaml:"velocity_iterations" toml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations" toml:"position_iterations"`
}

// Validate checks that the configuration describes a playable world.
func (c Config) Validate() error {
	switch {
	case c.Playfield.Width <= 0 || c.Playfield.Height <= 0:
		return fmt.Errorf("%w: playfield must have positive size", ErrInvalid)
	case c.Bricks.Width <= 0 || c.Bricks.Height <= 0:
		return fmt.Errorf("%w: bricks must have positive size", ErrInvalid)
	case c.Bricks.Spacing < 0:
		return fmt.Errorf("%w: brick spacing must not be negative", ErrInvalid)
	case c.Ball.Radius <= 0:
		return fmt.Errorf("%w: ball radius must be positive", ErrInvalid)
	case c.Ball.Speed <= 0:
		return fmt.Errorf("%w: ball speed must be positive", ErrInvalid)
	case c.Paddle.Width <= 0 || c.Paddle.Height <= 0:
		return fmt.Errorf("%w: paddle must have positive size", ErrInvalid)
	case c.Paddle.Width >= c.Playfield.Width:
		return fmt.Errorf("%w: paddle wider than playfield", ErrInvalid)
	case c.Gameplay.Lives <= 0:
		return fmt.Errorf("%w: lives must be positive", ErrInvalid)
	case c.Gameplay.WinDelay < 0:
		return fmt.Errorf("%w: win delay must not be negative", ErrInvalid)
	case c.Physics.SubStep <= 0 || c.Physics.MaxFrame <= 0:
		return fmt.Errorf("%w: physics steps must be positive", ErrInvalid)
	case c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0:
		return fmt.Errorf("%w: solver iterations must be positive", ErrInvalid)
	}
	return nil
}
