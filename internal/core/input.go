package core

// Action represents a semantic game action, abstracted from physical key
// presses and mouse gestures.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move paddle left
	ActionRight          // D, Right arrow - move paddle right
	ActionLaunch         // Space, Up - release the ball
	ActionPause          // P, Escape - pause/unpause
	ActionRestart        // R - hard reset
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionBack           // B - back to the previous screen
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionLaunch:
		return "Launch"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionBack:
		return "Back"
	default:
		return "Unknown"
	}
}

// ParseAction converts a name produced by String back to an Action.
// Matching is case-sensitive; unknown names yield ActionNone.
func ParseAction(name string) Action {
	for a := ActionLeft; a <= ActionBack; a++ {
		if a.String() == name {
			return a
		}
	}
	return ActionNone
}

// InputFrame collects the input for one frame: discrete actions plus a
// horizontal paddle drag in world units.
type InputFrame struct {
	Actions map[Action]bool
	DragX   float64
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Drag accumulates a horizontal drag.
func (f *InputFrame) Drag(dx float64) {
	f.DragX += dx
}

// Empty reports whether the frame carries no input.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.DragX == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.DragX = 0
}
