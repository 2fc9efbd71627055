package config

import (
	_ "embed"
)

//go:embed defaults/arkanoid.yaml
var defaultYAML []byte

// Default returns the built-in configuration. Geometry matches the classic
// 7x5 brick wall.
func Default() Config {
	return Config{
		Playfield: PlayfieldConfig{
			Width:         60,
			Height:        110,
			WallThickness: 1,
		},
		Bricks: BricksConfig{
			Width:   6,
			Height:  3,
			Spacing: 6,
			OriginX: -24,
			OriginY: 40,
		},
		Ball: BallConfig{
			Radius: 2,
			Speed:  60,
		},
		Paddle: PaddleConfig{
			Width:  16,
			Height: 3,
			StartX: 0,
			StartY: 11,
			Step:   3,
		},
		Gameplay: GameplayConfig{
			Lives:      3,
			WinDelay:   2,
			LossOffset: 2,
			Level:      "classic",
		},
		Physics: PhysicsConfig{
			SubStep:            1.0 / 120.0,
			MaxFrame:           0.25,
			VelocityIterations: 8,
			PositionIterations: 3,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
