package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/lucas-eduardo-abreu/memory-game/internal/clock"
)

// Phase is the match engine state of a round.
type Phase string

const (
	Idle           Phase = "idle"
	AwaitingSecond Phase = "awaitingSecond"
	Resolving      Phase = "resolving"
	Complete       Phase = "complete"
	Expired        Phase = "expired"
)

const (
	MismatchDelay = 600 * time.Millisecond
	WinDelay      = 400 * time.Millisecond
	HintDuration  = 2000 * time.Millisecond
)

// Round is one playthrough of a profile. All of its deferred work is
// scheduled on its own timer group, so Discard cancels everything.
type Round struct {
	FSM *fsm.FSM

	id      string
	profile Profile
	cards   []Card
	found   int
	moves   int
	first   int // provisional selection, -1 when empty
	second  int // mismatched partner while resolving, -1 otherwise
	started bool

	paused    bool
	hintUsed  bool
	hinting   bool
	hinted    []int
	discarded bool

	group *clock.Group
	clock *clock.Clock
	bus   *Bus
}

// NewRound validates the profile and deals a fresh deck. No round is
// created when the profile is invalid.
func NewRound(p Profile, group *clock.Group, rng *rand.Rand, bus *Bus) (*Round, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cards, err := BuildDeck(p, rng)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.ID, err)
	}

	r := &Round{
		id:      uuid.NewString(),
		profile: p,
		cards:   cards,
		first:   -1,
		second:  -1,
		group:   group,
		bus:     bus,
	}
	r.clock = clock.New(group, p.TimeLimit)
	r.clock.OnTick = func(sec int) {
		r.emit(Event{Kind: ClockTicked, Seconds: sec})
	}
	r.clock.OnExpire = r.expire

	r.FSM = fsm.NewFSM(
		string(Idle),
		getPhaseTransitions(),
		getPhaseCallbacks(r),
	)
	return r, nil
}

func getPhaseTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "reveal", Src: []string{string(Idle)}, Dst: string(AwaitingSecond)},
		{Name: "pair", Src: []string{string(AwaitingSecond)}, Dst: string(Idle)},
		{Name: "clear", Src: []string{string(AwaitingSecond)}, Dst: string(Complete)},
		{Name: "miss", Src: []string{string(AwaitingSecond)}, Dst: string(Resolving)},
		{Name: "settle", Src: []string{string(Resolving)}, Dst: string(Idle)},
		{Name: "expire", Src: []string{string(Idle), string(AwaitingSecond), string(Resolving)}, Dst: string(Expired)},
	}
}

func getPhaseCallbacks(r *Round) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			r.emit(Event{Kind: PhaseChanged, Phase: Phase(e.Dst)})
		},
	}
}

func (r *Round) ID() string          { return r.id }
func (r *Round) Profile() Profile    { return r.profile }
func (r *Round) Clock() *clock.Clock { return r.clock }
func (r *Round) Moves() int          { return r.moves }
func (r *Round) FoundPairs() int     { return r.found }
func (r *Round) Paused() bool        { return r.paused }
func (r *Round) HintUsed() bool      { return r.hintUsed }
func (r *Round) Hinting() bool       { return r.hinting }
func (r *Round) Discarded() bool     { return r.discarded }

// Phase returns the current match engine state.
func (r *Round) Phase() Phase {
	return Phase(r.FSM.Current())
}

// Locked reports whether a mismatch is being shown and input is blocked.
func (r *Round) Locked() bool {
	return r.Phase() == Resolving
}

// Over reports whether the round has been won or lost.
func (r *Round) Over() bool {
	p := r.Phase()
	return p == Complete || p == Expired
}

// Provisional returns the index of the first selection, if any.
func (r *Round) Provisional() (int, bool) {
	return r.first, r.first >= 0
}

// Cards returns a snapshot of the board.
func (r *Round) Cards() []Card {
	out := make([]Card, len(r.cards))
	copy(out, r.cards)
	return out
}

// Card returns the card at a board position.
func (r *Round) Card(i int) (Card, bool) {
	if i < 0 || i >= len(r.cards) {
		return Card{}, false
	}
	return r.cards[i], true
}

// SelectCard handles one card selection and reports whether it was
// accepted. Rejected selections change nothing.
func (r *Round) SelectCard(i int) bool {
	if r.discarded || r.paused || i < 0 || i >= len(r.cards) {
		return false
	}
	switch r.Phase() {
	case Resolving, Complete, Expired:
		return false
	}
	// Matched, provisional and otherwise revealed cards are all non-hidden.
	if r.cards[i].Face != Hidden {
		return false
	}

	if r.first < 0 {
		r.setFace(i, Revealed)
		r.first = i
		if !r.started {
			r.started = true
			r.clock.Start()
		}
		r.fire("reveal")
		return true
	}

	first := r.first
	r.moves++
	r.setFace(i, Revealed)

	if r.cards[first].Key == r.cards[i].Key {
		r.setFace(first, Matched)
		r.setFace(i, Matched)
		r.first = -1
		r.found++
		r.emitStats()

		if r.found == r.profile.Pairs {
			r.clock.Stop()
			r.fire("clear")
			moves, elapsed := r.moves, r.clock.Elapsed()
			r.group.After(WinDelay, func() {
				r.emit(Event{Kind: RoundWon, Moves: moves, FoundPairs: r.found, Pairs: r.profile.Pairs, Seconds: elapsed})
			})
			return true
		}
		r.fire("pair")
		return true
	}

	r.second = i
	r.emitStats()
	r.fire("miss")
	r.group.After(MismatchDelay, r.settle)
	return true
}

// settle hides a mismatched pair and releases the lock.
func (r *Round) settle() {
	for _, idx := range []int{r.first, r.second} {
		if idx >= 0 && r.cards[idx].Face == Revealed {
			r.setFace(idx, Hidden)
		}
	}
	r.first, r.second = -1, -1
	r.fire("settle")
}

// expire ends a countdown round.
func (r *Round) expire() {
	if r.discarded || r.Over() {
		return
	}
	r.endHint()
	r.group.StopAll()
	r.fire("expire")
	r.emit(Event{Kind: RoundLost, Moves: r.moves, FoundPairs: r.found, Pairs: r.profile.Pairs, Seconds: r.clock.Elapsed()})
}

// Pause freezes the clock and every pending timer of the round.
func (r *Round) Pause() bool {
	if r.discarded || r.paused || r.Over() {
		return false
	}
	r.clock.Pause()
	if r.Over() {
		// the clock ran out while sampling
		return false
	}
	r.paused = true
	r.group.PauseAll()
	r.emit(Event{Kind: PauseChanged, Paused: true})
	return true
}

// Resume restarts whatever Pause froze.
func (r *Round) Resume() bool {
	if r.discarded || !r.paused {
		return false
	}
	r.paused = false
	r.group.ResumeAll()
	r.clock.Resume()
	r.emit(Event{Kind: PauseChanged, Paused: false})
	return true
}

// Discard cancels every outstanding timer. The round accepts no more input.
func (r *Round) Discard() {
	if r.discarded {
		return
	}
	r.discarded = true
	r.clock.Stop()
	r.group.StopAll()
}

func (r *Round) setFace(i int, f Face) {
	r.cards[i].Face = f
	r.emit(Event{Kind: CardChanged, Card: r.cards[i]})
}

func (r *Round) emitStats() {
	r.emit(Event{Kind: StatsChanged, Moves: r.moves, FoundPairs: r.found, Pairs: r.profile.Pairs})
}

func (r *Round) emit(e Event) {
	e.RoundID = r.id
	r.bus.Emit(e)
}

func (r *Round) fire(event string) {
	_ = r.FSM.Event(context.Background(), event)
}
