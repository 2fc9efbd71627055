package entity

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidSet is returned by ResetAll when the replacement set is malformed.
var ErrInvalidSet = errors.New("entity: invalid entity set")

// Brick tables may be sparse, but never larger than gridSlack cells per
// entity or minGridCells, whichever is more.
const (
	gridSlack    = 16
	minGridCells = 1024
)

// Registry maps entity IDs to entities. Bricks live in a dense row-major
// table so lookups by (row, col) never hash.
// Registry is not safe for concurrent use; the game loop owns it.
type Registry struct {
	populated bool
	ball      Entity
	paddle    Entity

	rows, cols int
	bricks     []Entity
	present    []bool
	order      []ID // Row-major IDs of present bricks
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// index returns the dense index for a brick, or -1 if out of the grid.
func (r *Registry) index(id ID) int {
	if id.Row < 0 || id.Row >= r.rows || id.Col < 0 || id.Col >= r.cols {
		return -1
	}
	return id.Row*r.cols + id.Col
}

// lookup returns a pointer to the stored entity, or nil.
func (r *Registry) lookup(id ID) *Entity {
	if !r.populated {
		return nil
	}
	switch id.Kind {
	case KindBall:
		if id != BallID {
			return nil
		}
		return &r.ball
	case KindPaddle:
		if id != PaddleID {
			return nil
		}
		return &r.paddle
	case KindBrick:
		i := r.index(id)
		if i < 0 || !r.present[i] {
			return nil
		}
		return &r.bricks[i]
	}
	return nil
}

// Get returns the entity with the given ID, or false if it was never created.
func (r *Registry) Get(id ID) (Entity, bool) {
	e := r.lookup(id)
	if e == nil {
		return Entity{}, false
	}
	return *e, true
}

// SetPosition updates an entity's position. Returns false for unknown IDs.
func (r *Registry) SetPosition(id ID, pos mgl64.Vec2) bool {
	e := r.lookup(id)
	if e == nil {
		return false
	}
	e.Pos = pos
	return true
}

// SetDestroyed marks an entity destroyed. It returns true only for the call
// that performed the false->true transition.
func (r *Registry) SetDestroyed(id ID) bool {
	e := r.lookup(id)
	if e == nil || e.Destroyed {
		return false
	}
	e.Destroyed = true
	return true
}

// ResetAll replaces the whole entity set. The new set must contain exactly
// one ball, exactly one paddle and no duplicate bricks, and the brick grid
// must stay reasonably dense; otherwise the
// registry is left unchanged and ErrInvalidSet is returned.
func (r *Registry) ResetAll(entities []Entity) error {
	var (
		ball, paddle      Entity
		haveBall, havePad bool
		rows, cols        int
		brickCount        int
	)

	for _, e := range entities {
		switch e.ID.Kind {
		case KindBall:
			if e.ID != BallID || haveBall {
				return fmt.Errorf("%w: duplicate or malformed ball", ErrInvalidSet)
			}
			ball, haveBall = e, true
		case KindPaddle:
			if e.ID != PaddleID || havePad {
				return fmt.Errorf("%w: duplicate or malformed paddle", ErrInvalidSet)
			}
			paddle, havePad = e, true
		case KindBrick:
			if e.ID.Row < 0 || e.ID.Col < 0 {
				return fmt.Errorf("%w: negative brick index %s", ErrInvalidSet, e.ID)
			}
			rows = max(rows, e.ID.Row+1)
			cols = max(cols, e.ID.Col+1)
			brickCount++
		default:
			return fmt.Errorf("%w: unknown kind %d", ErrInvalidSet, e.ID.Kind)
		}
	}
	if !haveBall || !havePad {
		return fmt.Errorf("%w: ball and paddle are required", ErrInvalidSet)
	}
	if limit := max(gridSlack*len(entities), minGridCells); rows > limit || cols > limit || rows*cols > limit {
		return fmt.Errorf("%w: brick grid %dx%d too sparse for %d bricks", ErrInvalidSet, rows, cols, brickCount)
	}

	bricks := make([]Entity, rows*cols)
	present := make([]bool, rows*cols)
	for _, e := range entities {
		if e.ID.Kind != KindBrick {
			continue
		}
		i := e.ID.Row*cols + e.ID.Col
		if present[i] {
			return fmt.Errorf("%w: duplicate brick %s", ErrInvalidSet, e.ID)
		}
		bricks[i] = e
		present[i] = true
	}

	order := make([]ID, 0, brickCount)
	for i, ok := range present {
		if ok {
			order = append(order, bricks[i].ID)
		}
	}

	r.populated = true
	r.ball = ball
	r.paddle = paddle
	r.rows, r.cols = rows, cols
	r.bricks = bricks
	r.present = present
	r.order = order
	return nil
}

// Bricks returns the IDs of all bricks in row-major order.
// The returned slice must not be modified.
func (r *Registry) Bricks() []ID {
	return r.order
}

// BrickCount returns the number of bricks created at the last reset.
func (r *Registry) BrickCount() int {
	return len(r.order)
}

// DestroyedCount returns how many bricks are currently flagged destroyed.
func (r *Registry) DestroyedCount() int {
	count := 0
	for _, id := range r.order {
		if r.bricks[r.index(id)].Destroyed {
			count++
		}
	}
	return count
}

// All returns a copy of every entity: ball, paddle, then bricks row-major.
func (r *Registry) All() []Entity {
	if !r.populated {
		return nil
	}
	out := make([]Entity, 0, len(r.order)+2)
	out = append(out, r.ball, r.paddle)
	for _, id := range r.order {
		out = append(out, r.bricks[r.index(id)])
	}
	return out
}
