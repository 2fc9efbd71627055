package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// brickPalette colors brick rows from the bottom up.
var brickPalette = []Color{
	ColorBrightBlue,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorOrange,
	ColorBrightRed,
	ColorBrightMagenta,
	ColorBrightCyan,
}

// BrickColor returns the color for a brick row.
func BrickColor(row int) Color {
	if row < 0 {
		row = -row
	}
	return brickPalette[row%len(brickPalette)]
}
