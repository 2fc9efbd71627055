package level

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/entity"
)

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether p lies inside the bounds (edges included).
func (b Bounds) Contains(p mgl64.Vec2) bool {
	return p.X() >= b.MinX && p.X() <= b.MaxX && p.Y() >= b.MinY && p.Y() <= b.MaxY
}

// BallSpec is the ball's starting geometry.
type BallSpec struct {
	Start  mgl64.Vec2
	Radius float64
	Speed  float64
}

// PaddleSpec is the paddle's starting geometry.
type PaddleSpec struct {
	Start mgl64.Vec2
	Size  mgl64.Vec2
}

// BrickSpec is one brick's geometry.
type BrickSpec struct {
	Row, Col int
	Center   mgl64.Vec2
	Size     mgl64.Vec2
}

// ID returns the brick's entity ID.
func (b BrickSpec) ID() entity.ID {
	return entity.BrickID(b.Row, b.Col)
}

// Layout is the complete world geometry of one game.
type Layout struct {
	LevelID       string
	Playfield     Bounds
	WallThickness float64
	Ball          BallSpec
	Paddle        PaddleSpec
	Bricks        []BrickSpec // Row-major
	LossY         float64     // Ball below this height is lost
}

// Build converts a level and config into world geometry.
// The ball-loss line is playfield-relative: LossOffset below the floor.
func Build(cfg config.Config, lvl *Level) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	field := Bounds{
		MinX: -cfg.Playfield.Width / 2,
		MaxX: cfg.Playfield.Width / 2,
		MinY: 0,
		MaxY: cfg.Playfield.Height,
	}

	paddle := PaddleSpec{
		Start: mgl64.Vec2{cfg.Paddle.StartX, cfg.Paddle.StartY},
		Size:  mgl64.Vec2{cfg.Paddle.Width, cfg.Paddle.Height},
	}
	ball := BallSpec{
		Start:  mgl64.Vec2{cfg.Paddle.StartX, cfg.Paddle.StartY + cfg.Paddle.Height/2 + cfg.Ball.Radius},
		Radius: cfg.Ball.Radius,
		Speed:  cfg.Ball.Speed,
	}

	if !field.Contains(paddle.Start) || !field.Contains(ball.Start) {
		return Layout{}, fmt.Errorf("%w: paddle start outside playfield", config.ErrInvalid)
	}

	layout := Layout{
		LevelID:       lvl.ID,
		Playfield:     field,
		WallThickness: cfg.Playfield.WallThickness,
		Ball:          ball,
		Paddle:        paddle,
		Bricks:        make([]BrickSpec, 0, lvl.Count()),
		LossY:         field.MinY - cfg.Gameplay.LossOffset,
	}

	size := mgl64.Vec2{cfg.Bricks.Width, cfg.Bricks.Height}
	for row := range lvl.Rows {
		for col := range lvl.Cols {
			if !lvl.Has(row, col) {
				continue
			}
			center := mgl64.Vec2{
				cfg.Bricks.OriginX + float64(col)*(cfg.Bricks.Width+cfg.Bricks.Spacing),
				cfg.Bricks.OriginY + float64(row)*(cfg.Bricks.Height+cfg.Bricks.Spacing),
			}
			if !field.Contains(center) {
				return Layout{}, fmt.Errorf("%w: brick %d,%d outside playfield", config.ErrInvalid, row, col)
			}
			layout.Bricks = append(layout.Bricks, BrickSpec{Row: row, Col: col, Center: center, Size: size})
		}
	}

	return layout, nil
}

// TotalBricks returns the number of bricks in the layout.
func (l Layout) TotalBricks() int {
	return len(l.Bricks)
}

// Entities returns a fresh, non-destroyed entity set for the layout.
func (l Layout) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(l.Bricks)+2)
	out = append(out,
		entity.Entity{
			ID:   entity.BallID,
			Pos:  l.Ball.Start,
			Size: mgl64.Vec2{l.Ball.Radius * 2, l.Ball.Radius * 2},
		},
		entity.Entity{
			ID:   entity.PaddleID,
			Pos:  l.Paddle.Start,
			Size: l.Paddle.Size,
		},
	)
	for _, b := range l.Bricks {
		out = append(out, entity.Entity{ID: b.ID(), Pos: b.Center, Size: b.Size})
	}
	return out
}
