package state

import "strings"

// Screen names one UI screen.
type Screen string

const (
	Start   Screen = "start"
	Select  Screen = "select"
	Playing Screen = "playing"
	Won     Screen = "won"
	Lost    Screen = "lost"
)

// Screens lists every screen in navigation order.
var Screens = []Screen{Start, Select, Playing, Won, Lost}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}

// IsResult reports whether s shows a round outcome.
func (s Screen) IsResult() bool {
	return s == Won || s == Lost
}

// Title is the heading shown for the screen.
func (s Screen) Title() string {
	switch s {
	case Start:
		return "Memory Game"
	case Select:
		return "Choose a difficulty"
	case Won:
		return "You won!"
	case Lost:
		return "Time's up!"
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}
