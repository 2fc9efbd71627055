package arkanoid

import (
	"math"

	"github.com/vovakirdan/arkanoid/internal/entity"
)

// EntityView is one entity as the presentation layer sees it.
type EntityView struct {
	Name    string  `json:"name"    msgpack:"name"`
	Kind    string  `json:"kind"    msgpack:"kind"`
	Row     int     `json:"row"     msgpack:"row"`
	Col     int     `json:"col"     msgpack:"col"`
	X       float64 `json:"x"       msgpack:"x"`
	Y       float64 `json:"y"       msgpack:"y"`
	W       float64 `json:"w"       msgpack:"w"`
	H       float64 `json:"h"       msgpack:"h"`
	Visible bool    `json:"visible" msgpack:"visible"`
}

// Frame is the per-tick view pulled by the presentation layer.
// Uses primitive types only for stable serialization.
type Frame struct {
	Tick         uint64       `json:"tick"          msgpack:"tick"`
	Level        string       `json:"level"         msgpack:"level"`
	State        string       `json:"state"         msgpack:"state"`
	Lives        int          `json:"lives"         msgpack:"lives"`
	Score        int          `json:"score"         msgpack:"score"`
	TotalBricks  int          `json:"total_bricks"  msgpack:"total_bricks"`
	WinRemaining float64      `json:"win_remaining" msgpack:"win_remaining"`
	Entities     []EntityView `json:"entities"      msgpack:"entities"`
}

// Frame returns the current presentation view.
func (l *Loop) Frame() Frame {
	all := l.entities.All()
	views := make([]EntityView, len(all))
	for i, e := range all {
		views[i] = EntityView{
			Name:    e.ID.Name(),
			Kind:    e.ID.Kind.String(),
			Row:     e.ID.Row,
			Col:     e.ID.Col,
			X:       e.Pos.X(),
			Y:       e.Pos.Y(),
			W:       e.Size.X(),
			H:       e.Size.Y(),
			Visible: e.Visible(),
		}
	}

	return Frame{
		Tick:         l.ticks,
		Level:        l.layout.LevelID,
		State:        string(l.state),
		Lives:        l.game.Lives,
		Score:        l.game.Score,
		TotalBricks:  l.game.TotalBricks,
		WinRemaining: l.WinRemaining(),
		Entities:     views,
	}
}

// Snapshot contains the game state needed to compare two runs.
type Snapshot struct {
	Tick        uint64
	Lives       int
	Score       int
	TotalBricks int
	State       string
	HardResets  int
	BallX       int64 // Position in thousandths of a world unit
	BallY       int64
	PaddleX     int64

	// Brick destroyed flags, row-major over present bricks
	BrickData []int
}

// Snapshot returns the current game state as a Snapshot.
func (l *Loop) Snapshot() Snapshot {
	ball, _ := l.entities.Get(entity.BallID)
	paddle, _ := l.entities.Get(entity.PaddleID)

	bricks := l.entities.Bricks()
	brickData := make([]int, len(bricks))
	for i, id := range bricks {
		if e, _ := l.entities.Get(id); e.Destroyed {
			brickData[i] = 1
		}
	}

	return Snapshot{
		Tick:        l.ticks,
		Lives:       l.game.Lives,
		Score:       l.game.Score,
		TotalBricks: l.game.TotalBricks,
		State:       string(l.state),
		HardResets:  l.hardResets,
		BallX:       milli(ball.Pos.X()),
		BallY:       milli(ball.Pos.Y()),
		PaddleX:     milli(paddle.Pos.X()),
		BrickData:   brickData,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Lives)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.TotalBricks) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.HardResets)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallX)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallY)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PaddleX)     //#nosec G115 -- hash computation
	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}
	for _, v := range snap.BrickData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	return h
}

// milli converts a world coordinate to fixed thousandths.
func milli(v float64) int64 {
	return int64(math.Round(v * 1000))
}
