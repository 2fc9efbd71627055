package arkanoid

import "github.com/vovakirdan/arkanoid/internal/entity"

// EventType identifies something that happened during a tick.
type EventType int

const (
	EventBrickDestroyed EventType = iota // A brick vanished; hide it
	EventBallLost                        // Ball fell below the loss line
	EventSoftReset                       // Ball and paddle returned to start
	EventGameOver                        // Last life lost
	EventWinScheduled                    // Board cleared, reset pending
	EventLevelWon                        // Win delay elapsed
	EventHardReset                       // Whole game rebuilt
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventBrickDestroyed:
		return "brick_destroyed"
	case EventBallLost:
		return "ball_lost"
	case EventSoftReset:
		return "soft_reset"
	case EventGameOver:
		return "game_over"
	case EventWinScheduled:
		return "win_scheduled"
	case EventLevelWon:
		return "level_won"
	case EventHardReset:
		return "hard_reset"
	default:
		return "unknown"
	}
}

// Event is emitted by the loop for the presentation layer.
type Event struct {
	Type  EventType
	Brick entity.ID // Set for EventBrickDestroyed
	Score int       // Score at the time of the event
	Lives int       // Lives at the time of the event
}
