package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// Glyphs used for the playfield.
const (
	glyphBrick  = '█'
	glyphPaddle = '▀'
	glyphBall   = '●'
	glyphLife   = '♥'
)

// cellAspect is how many columns make up the height of one row.
const cellAspect = 2.0

// HUD carries the front-end state drawn around the playfield.
type HUD struct {
	HighScore int
	Paused    bool
	Message   string // Transient overlay text, empty for none
	Help      bool   // Show the controls line
}

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// PlayfieldLayout returns the outlined playfield box and the viewport of its
// interior for a screen of the given size. Row 0 is kept for the HUD and the
// last row for help. The box keeps the world's aspect ratio.
func PlayfieldLayout(screenW, screenH int, bounds level.Bounds) (core.Rect, core.Viewport) {
	innerW := max(screenW-2, 1)
	innerH := max(screenH-4, 1) // HUD, help and two border rows

	w, h := innerW, innerH
	if bounds.Width() > 0 && bounds.Height() > 0 {
		colsPerRow := cellAspect * bounds.Width() / bounds.Height()
		h = int(float64(w) / colsPerRow)
		if h > innerH {
			h = innerH
			w = int(float64(h) * colsPerRow)
		}
		w, h = max(w, 1), max(h, 1)
	}

	box := core.NewRect((screenW-(w+2))/2, 1, w+2, h+2)
	cells := core.NewRect(box.X+1, box.Y+1, w, h)
	vp := core.NewViewport(bounds.MinX, bounds.MinY, bounds.MaxX, bounds.MaxY, cells)
	return box, vp
}

// DrawFrame renders a loop frame: HUD, outlined playfield, entities and
// any overlay. The screen is cleared first.
func DrawFrame(s *core.Screen, f arkanoid.Frame, bounds level.Bounds, hud HUD) {
	s.Clear()

	box, vp := PlayfieldLayout(s.Width(), s.Height(), bounds)
	s.DrawBox(box, core.ColorGray)

	for _, e := range f.Entities {
		if !e.Visible {
			continue
		}
		switch e.Kind {
		case "brick":
			r := vp.RectToCells(mgl64.Vec2{e.X, e.Y}, mgl64.Vec2{e.W, e.H})
			s.DrawRect(clip(r, vp.Cells), glyphBrick, core.BrickColor(e.Row))
		case "paddle":
			r := vp.RectToCells(mgl64.Vec2{e.X, e.Y}, mgl64.Vec2{e.W, e.H})
			r.H = 1
			s.DrawRect(clip(r, vp.Cells), glyphPaddle, core.ColorBrightWhite)
		}
	}

	// Ball last so it is never hidden behind the paddle
	for _, e := range f.Entities {
		if e.Kind == "ball" && e.Visible {
			x, y := vp.ToCell(mgl64.Vec2{e.X, e.Y})
			if vp.Cells.Contains(x, y) {
				s.SetColored(x, y, glyphBall, core.ColorBrightYellow)
			}
		}
	}

	drawHUD(s, f, hud)
	drawOverlay(s, f, hud, box)

	if hud.Help && s.Height() > 1 {
		s.DrawTextCentered(s.Height()-1, "←/→ move  drag: mouse  space launch  p pause  r restart  q quit", core.ColorGray)
	}
}

func drawHUD(s *core.Screen, f arkanoid.Frame, hud HUD) {
	lives := strings.Repeat(string(glyphLife), max(f.Lives, 0))
	left := fmt.Sprintf(" Score %d/%d", f.Score, f.TotalBricks)
	s.DrawText(0, 0, left, core.ColorBrightWhite)

	x := len([]rune(left)) + 2
	s.DrawText(x, 0, lives, core.ColorBrightRed)

	right := fmt.Sprintf("Level %s  High %d ", f.Level, max(hud.HighScore, f.Score))
	s.DrawText(s.Width()-len([]rune(right)), 0, right, core.ColorGray)
}

func drawOverlay(s *core.Screen, f arkanoid.Frame, hud HUD, box core.Rect) {
	mid := box.Y + box.H/2

	switch {
	case f.State == string(arkanoid.StateWinPending):
		s.DrawTextCentered(mid, " LEVEL CLEAR ", core.ColorBrightGreen)
		s.DrawTextCentered(mid+1, fmt.Sprintf(" next game in %.1fs ", f.WinRemaining), core.ColorGreen)
	case hud.Paused:
		s.DrawTextCentered(mid, " PAUSED ", core.ColorBrightYellow)
		s.DrawTextCentered(mid+1, " p resume  b menu ", core.ColorGray)
	case hud.Message != "":
		s.DrawTextCentered(mid, " "+hud.Message+" ", core.ColorBrightCyan)
	}
}

// clip trims r to the area bounds.
func clip(r, area core.Rect) core.Rect {
	x0 := core.Clamp(r.X, area.X, area.Right())
	y0 := core.Clamp(r.Y, area.Y, area.Bottom())
	x1 := core.Clamp(r.Right(), area.X, area.Right())
	y1 := core.Clamp(r.Bottom(), area.Y, area.Bottom())
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}
