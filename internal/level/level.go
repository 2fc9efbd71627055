// Package level implements brick wall layouts and their conversion into
// world geometry.
package level

// Level represents a playable brick wall.
type Level struct {
	ID     string
	Name   string
	Rows   int      // Number of brick rows
	Cols   int      // Number of brick columns
	Bricks [][]bool // [row][col], true where a brick exists; row 0 is the bottom row
}

// Clone creates a deep copy of the level.
func (l *Level) Clone() *Level {
	clone := &Level{
		ID:     l.ID,
		Name:   l.Name,
		Rows:   l.Rows,
		Cols:   l.Cols,
		Bricks: make([][]bool, len(l.Bricks)),
	}
	for i, row := range l.Bricks {
		clone.Bricks[i] = make([]bool, len(row))
		copy(clone.Bricks[i], row)
	}
	return clone
}

// Count returns the number of bricks in the level.
func (l *Level) Count() int {
	count := 0
	for _, row := range l.Bricks {
		for _, ok := range row {
			if ok {
				count++
			}
		}
	}
	return count
}

// Has reports whether a brick exists at (row, col).
func (l *Level) Has(row, col int) bool {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return false
	}
	return l.Bricks[row][col]
}

// Parse creates a Level from an ASCII map. Lines are given top to bottom
// as they appear on screen, so the last line becomes row 0.
// Characters:
//
//	'#' = brick
//	'.' (or anything else) = empty
func Parse(id, name string, lines []string) *Level {
	if len(lines) == 0 {
		return &Level{ID: id, Name: name}
	}

	// Find max width
	maxWidth := 0
	for _, line := range lines {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}

	lvl := &Level{
		ID:     id,
		Name:   name,
		Rows:   len(lines),
		Cols:   maxWidth,
		Bricks: make([][]bool, len(lines)),
	}

	for i, line := range lines {
		row := len(lines) - 1 - i
		lvl.Bricks[row] = make([]bool, maxWidth)
		for col := range maxWidth {
			lvl.Bricks[row][col] = col < len(line) && line[col] == '#'
		}
	}

	return lvl
}

// Grid creates a full rows x cols wall.
func Grid(id, name string, rows, cols int) *Level {
	lines := make([]string, rows)
	for i := range lines {
		line := make([]byte, cols)
		for j := range line {
			line[j] = '#'
		}
		lines[i] = string(line)
	}
	return Parse(id, name, lines)
}
