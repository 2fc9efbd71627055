// Package core provides the terminal-side primitives shared by the front
// ends: cell geometry, the world-to-cell viewport, the screen buffer and
// input actions. It has no Bubble Tea dependency.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned block of terminal cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center cell of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Viewport maps a world rectangle (y-up) onto a block of cells (y-down).
type Viewport struct {
	Origin      mgl64.Vec2 // World-space bottom-left corner
	WorldWidth  float64
	WorldHeight float64
	Cells       Rect // Target area on screen
}

// NewViewport creates a viewport showing the world rectangle
// [minX, maxX] x [minY, maxY] in the given cells.
func NewViewport(minX, minY, maxX, maxY float64, cells Rect) Viewport {
	return Viewport{
		Origin:      mgl64.Vec2{minX, minY},
		WorldWidth:  maxX - minX,
		WorldHeight: maxY - minY,
		Cells:       cells,
	}
}

// scale returns world units per cell on each axis.
func (v Viewport) scale() (float64, float64) {
	if v.Cells.W <= 0 || v.Cells.H <= 0 {
		return 1, 1
	}
	return v.WorldWidth / float64(v.Cells.W), v.WorldHeight / float64(v.Cells.H)
}

// ToCell returns the cell containing the world point p. Points outside
// the world map outside Cells.
func (v Viewport) ToCell(p mgl64.Vec2) (int, int) {
	sx, sy := v.scale()
	col := int(math.Floor((p.X() - v.Origin.X()) / sx))
	row := int(math.Floor((p.Y() - v.Origin.Y()) / sy))
	return v.Cells.X + col, v.Cells.Bottom() - 1 - row
}

// RectToCells returns the cells covered by a world box given by its center
// and size. Every box covers at least one cell.
func (v Viewport) RectToCells(center, size mgl64.Vec2) Rect {
	sx, sy := v.scale()
	left := (center.X() - size.X()/2 - v.Origin.X()) / sx
	right := (center.X() + size.X()/2 - v.Origin.X()) / sx
	bottom := (center.Y() - size.Y()/2 - v.Origin.Y()) / sy
	top := (center.Y() + size.Y()/2 - v.Origin.Y()) / sy

	x0 := int(math.Round(left))
	x1 := max(int(math.Round(right)), x0+1)
	y0 := int(math.Round(bottom))
	y1 := max(int(math.Round(top)), y0+1)

	return Rect{
		X: v.Cells.X + x0,
		Y: v.Cells.Bottom() - y1,
		W: x1 - x0,
		H: y1 - y0,
	}
}

// CellsToWorldX converts a horizontal distance in cells to world units.
func (v Viewport) CellsToWorldX(cells int) float64 {
	sx, _ := v.scale()
	return float64(cells) * sx
}
