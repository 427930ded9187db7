package teleop

import "fmt"

// Key codes. Arrow keys arrive as ESC [ A..D; only the final byte is
// meaningful, the ESC and '[' bytes decode as unknown keys.
const (
	KeyUp    byte = 0x41
	KeyDown  byte = 0x42
	KeyRight byte = 0x43
	KeyLeft  byte = 0x44
	KeyQuit  byte = 0x71 // 'q'
)

// Action is what a decoded key asks the loop to do.
type Action int

const (
	ActionNone Action = iota // unrecognized key
	ActionMove
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Intent is the velocity direction of one input cycle. Each component is
// -1, 0 or 1.
type Intent struct {
	Linear  float64
	Angular float64
}

// IsZero reports whether the intent asks for no motion.
func (i Intent) IsZero() bool {
	return i.Linear == 0 && i.Angular == 0
}

// Decode maps a single input byte to an action and intent. Intents start
// from zero on every call, so a result only ever reflects c.
func Decode(c byte) (Action, Intent) {
	switch c {
	case KeyUp:
		return ActionMove, Intent{Linear: 1}
	case KeyDown:
		return ActionMove, Intent{Linear: -1}
	case KeyLeft:
		return ActionMove, Intent{Angular: 1}
	case KeyRight:
		return ActionMove, Intent{Angular: -1}
	case KeyQuit:
		return ActionQuit, Intent{}
	default:
		return ActionNone, Intent{}
	}
}

// KeyName returns a short label for logging.
func KeyName(c byte) string {
	switch c {
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeyRight:
		return "RIGHT"
	case KeyQuit:
		return "QUIT"
	default:
		return fmt.Sprintf("0x%02X", c)
	}
}
