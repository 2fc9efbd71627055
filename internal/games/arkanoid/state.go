package arkanoid

// State is the loop's life-cycle state.
type State string

const (
	StatePlaying    State = "playing"     // Normal play
	StateWinPending State = "win_pending" // Board cleared, waiting for the delayed reset
)

// GameState is the lives/score bookkeeping of one game.
type GameState struct {
	Lives       int
	Score       int
	TotalBricks int
}

// Won reports whether every brick has been destroyed.
func (s GameState) Won() bool {
	return s.TotalBricks > 0 && s.Score >= s.TotalBricks
}
