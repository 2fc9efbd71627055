// Package entity holds the named game objects mirrored from the physics
// world: the ball, the paddle and the brick grid.
package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies what an entity represents.
type Kind uint8

const (
	KindBall Kind = iota
	KindPaddle
	KindBrick
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindPaddle:
		return "paddle"
	case KindBrick:
		return "brick"
	default:
		return "unknown"
	}
}

// ID is a stable entity identifier. Row and Col are only meaningful for
// bricks; the ball and paddle always use zero.
type ID struct {
	Kind Kind
	Row  int
	Col  int
}

// Well-known singleton IDs.
var (
	BallID   = ID{Kind: KindBall}
	PaddleID = ID{Kind: KindPaddle}
)

// BrickID returns the ID of the brick at (row, col).
func BrickID(row, col int) ID {
	return ID{Kind: KindBrick, Row: row, Col: col}
}

// Name returns the string key used by the physics world.
func (id ID) Name() string {
	switch id.Kind {
	case KindBall:
		return "Ball"
	case KindPaddle:
		return "Paddle"
	default:
		return fmt.Sprintf("Brick_%d_%d", id.Row, id.Col)
	}
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Name()
}

// Entity is a game object with a position and a destroyed flag.
type Entity struct {
	ID        ID
	Pos       mgl64.Vec2 // Center in world units
	Size      mgl64.Vec2 // Full width/height (ball: diameter)
	Destroyed bool
}

// Visible reports whether the presentation layer should draw the entity.
func (e Entity) Visible() bool {
	return !e.Destroyed
}
