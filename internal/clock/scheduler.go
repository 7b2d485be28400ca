package clock

import (
	"time"
)

// Scheduler is a single-threaded queue of deferred callbacks.
// Nothing fires on its own: callbacks run synchronously inside Advance,
// so every mutation happens on the goroutine that drives the scheduler.
type Scheduler struct {
	now     time.Time
	seq     uint64
	pending []*Timer
}

// Timer is a handle to one scheduled callback.
type Timer struct {
	s         *Scheduler
	seq       uint64
	due       time.Time
	remaining time.Duration // set while paused
	fn        func()
	paused    bool
	done      bool
}

// NewScheduler creates a scheduler whose virtual clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler's current instant.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		s:   s,
		seq: s.seq,
		due: s.now.Add(d),
		fn:  fn,
	}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward to the given instant, firing every
// active timer due at or before it in due order. Timers scheduled by a
// callback fire in the same call if they fall inside the window.
func (s *Scheduler) Advance(to time.Time) {
	for {
		next := s.nextDue(to)
		if next == nil {
			break
		}
		if next.due.After(s.now) {
			s.now = next.due
		}
		next.done = true
		s.remove(next)
		next.fn()
	}
	if to.After(s.now) {
		s.now = to
	}
}

// Len reports how many timers are still scheduled or paused.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

func (s *Scheduler) nextDue(to time.Time) *Timer {
	var next *Timer
	for _, t := range s.pending {
		if t.paused || t.due.After(to) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *Scheduler) remove(t *Timer) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Stop cancels the timer. It reports whether the call prevented the
// callback from running.
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	return true
}

// Pause freezes the timer, keeping whatever time was left on it.
func (t *Timer) Pause() {
	if t == nil || t.done || t.paused {
		return
	}
	t.remaining = t.due.Sub(t.s.now)
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.paused = true
}

// Resume restarts a paused timer with its remaining duration.
func (t *Timer) Resume() {
	if t == nil || t.done || !t.paused {
		return
	}
	t.due = t.s.now.Add(t.remaining)
	t.remaining = 0
	t.paused = false
}

// Active reports whether the timer can still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.done
}

// Paused reports whether the timer is frozen.
func (t *Timer) Paused() bool {
	return t != nil && !t.done && t.paused
}

// Group tracks the timers that belong to one owner so they can be
// cancelled or suspended together.
type Group struct {
	s      *Scheduler
	timers []*Timer
}

// NewGroup creates an empty group on s.
func NewGroup(s *Scheduler) *Group {
	return &Group{s: s}
}

// Scheduler returns the scheduler the group schedules on.
func (g *Group) Scheduler() *Scheduler {
	return g.s
}

// Now returns the scheduler's current instant.
func (g *Group) Now() time.Time {
	return g.s.now
}

// After schedules fn on the underlying scheduler and tracks the handle.
func (g *Group) After(d time.Duration, fn func()) *Timer {
	g.prune()
	t := g.s.After(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// StopAll cancels every timer in the group.
func (g *Group) StopAll() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = nil
}

// PauseAll suspends every active timer in the group.
func (g *Group) PauseAll() {
	g.prune()
	for _, t := range g.timers {
		t.Pause()
	}
}

// ResumeAll restarts every paused timer in the group.
func (g *Group) ResumeAll() {
	g.prune()
	for _, t := range g.timers {
		t.Resume()
	}
}

// Active reports how many timers in the group can still fire.
func (g *Group) Active() int {
	g.prune()
	return len(g.timers)
}

func (g *Group) prune() {
	live := g.timers[:0]
	for _, t := range g.timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	g.timers = live
}
