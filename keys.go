package main

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lucas-eduardo-abreu/memory-game/internal/state"
)

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Number key.Binding
	Hint   key.Binding
	Pause  key.Binding
	Exit   key.Binding
	Again  key.Binding
	Menu   key.Binding
	Quit   key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "right"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "select"),
	),
	Number: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "difficulty"),
	),
	Hint: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "hint"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Exit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Again: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "play again"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "menu"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// screenHelp adapts the bindings that apply on one screen to help.KeyMap.
type screenHelp []key.Binding

func (h screenHelp) ShortHelp() []key.Binding  { return h }
func (h screenHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// HelpFor returns the bindings shown in the help line of a screen.
func (k KeyMap) HelpFor(s state.Screen) screenHelp {
	switch s {
	case state.Start:
		return screenHelp{k.Select, k.Quit}
	case state.Select:
		return screenHelp{k.Up, k.Down, k.Select, k.Number, k.Exit, k.Quit}
	case state.Playing:
		return screenHelp{k.Select, k.Hint, k.Pause, k.Exit, k.Quit}
	default:
		return screenHelp{k.Again, k.Menu, k.Quit}
	}
}
