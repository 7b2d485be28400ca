package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// ErrUnknownScreen is returned by Goto for a screen the navigator does not know.
var ErrUnknownScreen = errors.New("unknown screen")

// Navigator is the screen state machine. Exactly one screen is active;
// Goto moves to any screen unconditionally.
type Navigator struct {
	FSM     *fsm.FSM
	onEnter map[Screen][]func(from Screen)
	onLeave map[Screen][]func(to Screen)
}

// NewNavigator returns a navigator on the Start screen.
func NewNavigator() *Navigator {
	n := &Navigator{
		onEnter: map[Screen][]func(Screen){},
		onLeave: map[Screen][]func(Screen){},
	}
	n.FSM = fsm.NewFSM(
		string(Start),
		getScreenTransitions(),
		getScreenCallbacks(n),
	)
	return n
}

// Current returns the active screen.
func (n *Navigator) Current() Screen {
	return Screen(n.FSM.Current())
}

// Is reports whether s is the active screen.
func (n *Navigator) Is(s Screen) bool {
	return n.FSM.Is(string(s))
}

// Goto deactivates the current screen and activates s. Going to the
// screen that is already active does nothing.
func (n *Navigator) Goto(s Screen) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
	err := n.FSM.Event(context.Background(), gotoEvent(s))
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}

// OnEnter registers an entry action for a screen.
func (n *Navigator) OnEnter(s Screen, fn func(from Screen)) {
	n.onEnter[s] = append(n.onEnter[s], fn)
}

// OnLeave registers an exit action for a screen.
func (n *Navigator) OnLeave(s Screen, fn func(to Screen)) {
	n.onLeave[s] = append(n.onLeave[s], fn)
}

func gotoEvent(s Screen) string {
	return "goto_" + string(s)
}

// getScreenTransitions allows every screen to reach every other screen.
func getScreenTransitions() []fsm.EventDesc {
	src := make([]string, 0, len(Screens))
	for _, s := range Screens {
		src = append(src, string(s))
	}

	events := fsm.Events{}
	for _, s := range Screens {
		events = append(events, fsm.EventDesc{Name: gotoEvent(s), Src: src, Dst: string(s)})
	}
	return events
}

func getScreenCallbacks(n *Navigator) map[string]fsm.Callback {
	return fsm.Callbacks{
		"leave_state": func(_ context.Context, e *fsm.Event) {
			for _, fn := range n.onLeave[Screen(e.Src)] {
				fn(Screen(e.Dst))
			}
		},
		"enter_state": func(_ context.Context, e *fsm.Event) {
			for _, fn := range n.onEnter[Screen(e.Dst)] {
				fn(Screen(e.Src))
			}
		},
	}
}
