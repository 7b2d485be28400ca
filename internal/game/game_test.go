package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/lucas-eduardo-abreu/memory-game/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type roundFixture struct {
	round  *Round
	sched  *clock.Scheduler
	events []Event
}

func newRoundFixture(t *testing.T, p Profile) *roundFixture {
	t.Helper()
	f := &roundFixture{sched: clock.NewScheduler(epoch)}
	bus := NewBus()
	bus.Subscribe(func(e Event) { f.events = append(f.events, e) })

	r, err := NewRound(p, clock.NewGroup(f.sched), rand.New(rand.NewSource(7)), bus)
	if err != nil {
		t.Fatalf("NewRound failed: %v", err)
	}
	f.round = r
	return f
}

func (f *roundFixture) advance(d time.Duration) {
	f.sched.Advance(f.sched.Now().Add(d))
}

func (f *roundFixture) count(kind EventKind) int {
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (f *roundFixture) last(kind EventKind) (Event, bool) {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Kind == kind {
			return f.events[i], true
		}
	}
	return Event{}, false
}

// pairs maps each key to its two board positions.
func (f *roundFixture) pairs() map[int][]int {
	out := map[int][]int{}
	for _, c := range f.round.Cards() {
		out[c.Key] = append(out[c.Key], c.Index)
	}
	return out
}

// mismatch returns two positions holding different keys.
func (f *roundFixture) mismatch() (int, int) {
	p := f.pairs()
	return p[1][0], p[2][0]
}

func untimed(pairs int) Profile {
	return Profile{ID: "test", Label: "Test", Pairs: pairs}
}

func TestRound_InvalidProfile(t *testing.T) {
	s := clock.NewScheduler(epoch)
	r, err := NewRound(Profile{ID: "bad", Pairs: 2, Cols: 3, Rows: 3}, clock.NewGroup(s), rand.New(rand.NewSource(1)), nil)
	if !errors.Is(err, ErrGridMismatch) {
		t.Errorf("expected ErrGridMismatch, got %v", err)
	}
	if r != nil {
		t.Error("no round should be created for an invalid profile")
	}
}

func TestRound_FirstSelection(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round

	if r.Phase() != Idle {
		t.Fatalf("expected idle, got %s", r.Phase())
	}
	if r.Clock().Started() {
		t.Fatal("clock must not start before the first selection")
	}

	if !r.SelectCard(0) {
		t.Fatal("first selection should be accepted")
	}
	c, _ := r.Card(0)
	if c.Face != Revealed {
		t.Errorf("expected revealed, got %s", c.Face)
	}
	if idx, ok := r.Provisional(); !ok || idx != 0 {
		t.Errorf("provisional slot should hold 0, got %d, %v", idx, ok)
	}
	if r.Phase() != AwaitingSecond {
		t.Errorf("expected awaitingSecond, got %s", r.Phase())
	}
	if !r.Clock().Started() {
		t.Error("clock should start on first selection")
	}
	if r.Moves() != 0 {
		t.Errorf("first selection must not count a move, got %d", r.Moves())
	}
}

func TestRound_SameCardTwiceIsNoOp(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round
	r.SelectCard(3)
	before := len(f.events)

	if r.SelectCard(3) {
		t.Error("reselecting the provisional card should be rejected")
	}
	if r.Moves() != 0 || r.Phase() != AwaitingSecond || len(f.events) != before {
		t.Errorf("state changed: moves=%d phase=%s events=%d->%d", r.Moves(), r.Phase(), before, len(f.events))
	}
}

func TestRound_OutOfRange(t *testing.T) {
	f := newRoundFixture(t, untimed(2))
	if f.round.SelectCard(-1) || f.round.SelectCard(4) {
		t.Error("out of range selections should be rejected")
	}
}

func TestRound_WinPairByPair(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round

	for key, pos := range f.pairs() {
		if !r.SelectCard(pos[0]) || !r.SelectCard(pos[1]) {
			t.Fatalf("selections for key %d rejected", key)
		}
	}

	if r.FoundPairs() != 4 {
		t.Errorf("expected 4 pairs, got %d", r.FoundPairs())
	}
	if r.Phase() != Complete {
		t.Errorf("expected complete, got %s", r.Phase())
	}
	if !r.Clock().Stopped() {
		t.Error("clock should stop on completion")
	}
	for _, c := range r.Cards() {
		if c.Face != Matched {
			t.Errorf("card %d should be matched, got %s", c.Index, c.Face)
		}
	}

	// The outcome waits for the completion delay.
	if f.count(RoundWon) != 0 {
		t.Fatal("won event fired before the completion delay")
	}
	f.advance(WinDelay)
	won, ok := f.last(RoundWon)
	if !ok {
		t.Fatal("expected a won event")
	}
	if won.Moves != 4 || won.FoundPairs != 4 || won.RoundID != r.ID() {
		t.Errorf("unexpected won event %+v", won)
	}
	if f.count(RoundWon) != 1 {
		t.Errorf("expected one won event, got %d", f.count(RoundWon))
	}
}

func TestRound_WinReportsElapsed(t *testing.T) {
	f := newRoundFixture(t, untimed(1))
	r := f.round
	r.SelectCard(0)
	f.advance(3*time.Second + 100*time.Millisecond)
	r.SelectCard(1)
	f.advance(WinDelay)

	won, ok := f.last(RoundWon)
	if !ok || won.Seconds != 3 || won.Moves != 1 {
		t.Errorf("expected 1 move in 3s, got %+v", won)
	}
}

func TestRound_MismatchLocksThenReverts(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round
	a, b := f.mismatch()

	r.SelectCard(a)
	r.SelectCard(b)
	if !r.Locked() || r.Phase() != Resolving {
		t.Fatalf("expected resolving, got %s", r.Phase())
	}
	if r.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", r.Moves())
	}

	// Every selection is rejected while the mismatch is on screen.
	snapshot := r.Cards()
	for i := range snapshot {
		if r.SelectCard(i) {
			t.Fatalf("selection %d accepted during resolve", i)
		}
	}
	if r.Moves() != 1 {
		t.Errorf("rejected selections counted moves: %d", r.Moves())
	}

	f.advance(MismatchDelay - time.Millisecond)
	if c, _ := r.Card(a); c.Face != Revealed {
		t.Fatal("cards reverted before the delay elapsed")
	}

	f.advance(time.Millisecond)
	for _, i := range []int{a, b} {
		if c, _ := r.Card(i); c.Face != Hidden {
			t.Errorf("card %d should be hidden, got %s", i, c.Face)
		}
	}
	if _, ok := r.Provisional(); ok {
		t.Error("provisional slot should be cleared")
	}
	if r.Locked() || r.Phase() != Idle {
		t.Errorf("expected idle, got %s", r.Phase())
	}
	if !r.SelectCard(a) {
		t.Error("input should be accepted after the lock releases")
	}
}

func TestRound_MatchedCardRejected(t *testing.T) {
	f := newRoundFixture(t, untimed(3))
	r := f.round
	pos := f.pairs()[1]
	r.SelectCard(pos[0])
	r.SelectCard(pos[1])

	if r.SelectCard(pos[0]) {
		t.Error("matched card should be rejected")
	}
	if c, _ := r.Card(pos[0]); c.Face != Matched {
		t.Errorf("matched card changed to %s", c.Face)
	}
	if r.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", r.Moves())
	}
}

func TestRound_MoveCounterOnlyOnSecondSelections(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round
	a, b := f.mismatch()

	r.UseHint()
	f.advance(HintDuration)
	if r.Moves() != 0 {
		t.Fatalf("hint counted a move")
	}

	r.SelectCard(a) // first
	r.SelectCard(a) // rejected
	r.SelectCard(b) // second -> move 1
	r.SelectCard(a) // rejected (locked)
	f.advance(MismatchDelay)
	r.SelectCard(b) // first
	if r.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", r.Moves())
	}

	stats, _ := f.last(StatsChanged)
	if stats.Moves != 1 {
		t.Errorf("stats event should report 1 move, got %d", stats.Moves)
	}
}

func TestRound_Hint(t *testing.T) {
	f := newRoundFixture(t, untimed(3))
	r := f.round
	pos := f.pairs()
	r.SelectCard(pos[1][0])
	r.SelectCard(pos[1][1]) // key 1 matched
	r.SelectCard(pos[2][0]) // provisional

	if !r.UseHint() {
		t.Fatal("hint should be accepted")
	}
	if !r.Hinting() || !r.HintUsed() {
		t.Error("expected hint flags set")
	}
	for _, c := range r.Cards() {
		if c.Face == Hidden {
			t.Errorf("card %d hidden during hint", c.Index)
		}
	}
	if idx, ok := r.Provisional(); !ok || idx != pos[2][0] {
		t.Error("hint must not touch the provisional slot")
	}
	if r.UseHint() {
		t.Error("second hint in the same round should be rejected")
	}

	f.advance(HintDuration)
	if r.Hinting() {
		t.Error("hint should be over")
	}
	for _, c := range r.Cards() {
		want := Hidden
		if c.Key == 1 {
			want = Matched
		} else if c.Index == pos[2][0] {
			want = Revealed
		}
		if c.Face != want {
			t.Errorf("card %d (key %d): expected %s, got %s", c.Index, c.Key, want, c.Face)
		}
	}
	if r.Moves() != 1 || r.Locked() {
		t.Errorf("hint changed moves or lock: moves=%d locked=%v", r.Moves(), r.Locked())
	}
	if f.count(HintStarted) != 1 || f.count(HintEnded) != 1 {
		t.Error("expected one hint start and end event")
	}
}

func TestRound_HintRejectedWhenPaused(t *testing.T) {
	f := newRoundFixture(t, untimed(2))
	r := f.round
	r.Pause()
	if r.UseHint() {
		t.Error("hint should be rejected while paused")
	}
	r.Resume()
	if !r.UseHint() {
		t.Error("hint should be available after resume")
	}
}

func TestRound_PauseBlocksInputAndFreezesTimers(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round
	a, b := f.mismatch()
	r.SelectCard(a)
	f.advance(2 * time.Second)
	r.SelectCard(b)

	if !r.Pause() {
		t.Fatal("pause should be accepted")
	}
	if r.Pause() {
		t.Error("pausing twice should be a no-op")
	}

	// The mismatch reveal is suspended along with the clock.
	f.advance(10 * time.Second)
	if c, _ := r.Card(a); c.Face != Revealed {
		t.Error("mismatch reverted while paused")
	}
	if r.Clock().Elapsed() != 2 {
		t.Errorf("clock advanced while paused: %d", r.Clock().Elapsed())
	}

	if !r.Resume() {
		t.Fatal("resume should be accepted")
	}
	if r.Resume() {
		t.Error("resuming when not paused should be a no-op")
	}
	f.advance(MismatchDelay)
	if c, _ := r.Card(a); c.Face != Hidden {
		t.Error("mismatch should revert after resume")
	}
	if r.Phase() != Idle {
		t.Errorf("expected idle, got %s", r.Phase())
	}
}

func TestRound_SelectRejectedWhilePaused(t *testing.T) {
	f := newRoundFixture(t, untimed(2))
	r := f.round
	r.Pause()
	if r.SelectCard(0) {
		t.Error("selection accepted while paused")
	}
	if r.Clock().Started() {
		t.Error("clock started by a rejected selection")
	}
	if f.count(PauseChanged) != 1 {
		t.Errorf("expected one pause event, got %d", f.count(PauseChanged))
	}
}

func TestRound_CountDownExpiry(t *testing.T) {
	f := newRoundFixture(t, Profile{ID: "blitz", Pairs: 2, TimeLimit: 1})
	r := f.round
	a, b := f.mismatch()
	r.SelectCard(a)

	f.advance(time.Second)
	if r.Phase() != Expired {
		t.Fatalf("expected expired, got %s", r.Phase())
	}
	if f.count(RoundLost) != 1 {
		t.Fatalf("expected one lost event, got %d", f.count(RoundLost))
	}

	ticks := f.count(ClockTicked)
	f.advance(5 * time.Second)
	if f.count(ClockTicked) != ticks || f.count(RoundLost) != 1 {
		t.Error("clock kept running after expiry")
	}
	if r.SelectCard(b) {
		t.Error("selection accepted after expiry")
	}
	if r.Pause() || r.UseHint() {
		t.Error("pause and hint should be rejected after expiry")
	}
	if f.sched.Len() != 0 {
		t.Errorf("expected no pending timers, got %d", f.sched.Len())
	}
}

func TestRound_ExpiryCancelsPendingMismatch(t *testing.T) {
	f := newRoundFixture(t, Profile{ID: "blitz", Pairs: 2, TimeLimit: 1})
	r := f.round
	a, b := f.mismatch()
	r.SelectCard(a)
	f.advance(700 * time.Millisecond)
	r.SelectCard(b)

	f.advance(2 * time.Second)
	if r.Phase() != Expired {
		t.Fatalf("expected expired, got %s", r.Phase())
	}
	lost, _ := f.last(RoundLost)
	if lost.Moves != 1 || lost.Seconds != 1 {
		t.Errorf("unexpected lost event %+v", lost)
	}
}

func TestRound_DiscardCancelsTimers(t *testing.T) {
	f := newRoundFixture(t, untimed(4))
	r := f.round
	a, b := f.mismatch()
	r.SelectCard(a)
	r.SelectCard(b)
	r.UseHint()

	r.Discard()
	f.advance(10 * time.Second)

	if c, _ := r.Card(a); c.Face != Revealed {
		t.Error("discarded round was mutated by a stale timer")
	}
	if f.sched.Len() != 0 {
		t.Errorf("expected no pending timers, got %d", f.sched.Len())
	}
	if r.SelectCard(0) {
		t.Error("discarded round accepted input")
	}
}
