package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lucas-eduardo-abreu/memory-game/internal/clock"
	"github.com/lucas-eduardo-abreu/memory-game/internal/scoring"
	"github.com/lucas-eduardo-abreu/memory-game/internal/state"
)

// Result describes how the last round ended.
type Result struct {
	Difficulty  string
	Won         bool
	Moves       int
	TimeSec     int
	Improved    bool
	Previous    scoring.Record
	HadPrevious bool
	SaveErr     error
}

// Session owns the navigator, the single active round and the score
// store. Every command is a no-op returning false when it does not
// apply to the current screen.
type Session struct {
	Profiles []Profile
	Options  Options
	Scoring  *scoring.Scoring
	History  *scoring.ScoreHistory

	nav     *state.Navigator
	sched   *clock.Scheduler
	bus     *Bus
	rng     *rand.Rand
	profile Profile
	round   *Round
	result  *Result
}

// NewSession creates a session on the Start screen. start is the
// scheduler's initial instant; Advance moves it forward.
func NewSession(profiles []Profile, opts Options, sc *scoring.Scoring, start time.Time) (*Session, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no difficulty profiles")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		Profiles: ApplyOptions(profiles, opts),
		Options:  opts,
		Scoring:  sc,
		History:  scoring.NewScoreHistory(),
		nav:      state.NewNavigator(),
		sched:    clock.NewScheduler(start),
		bus:      NewBus(),
		rng:      rand.New(rand.NewSource(seed)),
	}

	// Leaving the game for a menu throws the round away.
	s.nav.OnEnter(state.Start, func(state.Screen) { s.discardRound() })
	s.nav.OnEnter(state.Select, func(state.Screen) { s.discardRound() })

	s.bus.Subscribe(s.handleEvent)
	return s, nil
}

func (s *Session) Navigator() *state.Navigator  { return s.nav }
func (s *Session) Scheduler() *clock.Scheduler  { return s.sched }
func (s *Session) Bus() *Bus                    { return s.bus }
func (s *Session) Round() *Round                { return s.round }
func (s *Session) Profile() Profile             { return s.profile }
func (s *Session) LastResult() *Result          { return s.result }
func (s *Session) Screen() state.Screen         { return s.nav.Current() }
func (s *Session) Subscribe(fn Listener) func() { return s.bus.Subscribe(fn) }

// Advance runs every deferred callback due by now.
func (s *Session) Advance(now time.Time) {
	s.sched.Advance(now)
}

// Begin goes from the start screen to difficulty selection.
func (s *Session) Begin() bool {
	if !s.nav.Is(state.Start) {
		return false
	}
	return s.nav.Goto(state.Select) == nil
}

// Back returns from difficulty selection to the start screen.
func (s *Session) Back() bool {
	if !s.nav.Is(state.Select) {
		return false
	}
	return s.nav.Goto(state.Start) == nil
}

// Choose starts a round of the given difficulty, replacing any current round.
func (s *Session) Choose(id string) error {
	p, err := FindProfile(s.Profiles, id)
	if err != nil {
		return err
	}
	return s.startRound(p)
}

// PlayAgain starts a new round of the same difficulty from a result screen.
func (s *Session) PlayAgain() bool {
	if !s.nav.Current().IsResult() {
		return false
	}
	return s.startRound(s.profile) == nil
}

// Menu leaves a result screen for the start screen.
func (s *Session) Menu() bool {
	if !s.nav.Current().IsResult() {
		return false
	}
	return s.nav.Goto(state.Start) == nil
}

// Exit abandons the current round and returns to difficulty selection.
func (s *Session) Exit() bool {
	if !s.nav.Is(state.Playing) {
		return false
	}
	return s.nav.Goto(state.Select) == nil
}

// Select forwards a card selection to the active round.
func (s *Session) Select(i int) bool {
	if r := s.playing(); r != nil {
		return r.SelectCard(i)
	}
	return false
}

// Hint uses the active round's hint.
func (s *Session) Hint() bool {
	if r := s.playing(); r != nil {
		return r.UseHint()
	}
	return false
}

func (s *Session) Pause() bool {
	if r := s.playing(); r != nil {
		return r.Pause()
	}
	return false
}

func (s *Session) Resume() bool {
	if r := s.playing(); r != nil {
		return r.Resume()
	}
	return false
}

// TogglePause pauses a running round or resumes a paused one.
func (s *Session) TogglePause() bool {
	r := s.playing()
	if r == nil {
		return false
	}
	if r.Paused() {
		return r.Resume()
	}
	return r.Pause()
}

func (s *Session) playing() *Round {
	if s.round == nil || !s.nav.Is(state.Playing) {
		return nil
	}
	return s.round
}

func (s *Session) startRound(p Profile) error {
	group := clock.NewGroup(s.sched)
	r, err := NewRound(p, group, s.rng, s.bus)
	if err != nil {
		return err
	}
	s.discardRound()
	s.round = r
	s.profile = p
	s.result = nil
	if s.nav.Is(state.Playing) {
		return nil
	}
	return s.nav.Goto(state.Playing)
}

func (s *Session) discardRound() {
	if s.round != nil {
		s.round.Discard()
		s.round = nil
	}
}

func (s *Session) handleEvent(e Event) {
	if s.round == nil || e.RoundID != s.round.ID() {
		return
	}
	switch e.Kind {
	case RoundWon:
		s.finish(e, true)
		s.nav.Goto(state.Won)
	case RoundLost:
		s.finish(e, false)
		s.nav.Goto(state.Lost)
	}
}

func (s *Session) finish(e Event, won bool) {
	res := &Result{
		Difficulty: s.profile.ID,
		Won:        won,
		Moves:      e.Moves,
		TimeSec:    e.Seconds,
	}
	if won && s.Scoring != nil {
		res.Previous, res.HadPrevious = s.Scoring.Best(s.profile.ID)
		res.Improved, res.SaveErr = s.Scoring.Submit(s.profile.ID, e.Moves, e.Seconds)
	}
	s.result = res
	s.History.Add(scoring.ScoreHistoryEntry{
		Difficulty: res.Difficulty,
		Won:        won,
		Moves:      res.Moves,
		TimeSec:    res.TimeSec,
		Improved:   res.Improved,
	})
}
