package clock

import (
	"testing"
	"time"
)

func newTestClock(limit int) (*Scheduler, *Clock) {
	s := NewScheduler(epoch)
	return s, New(NewGroup(s), limit)
}

func TestClock_CountUp(t *testing.T) {
	s, c := newTestClock(0)
	if c.Mode() != CountUp {
		t.Fatalf("expected count-up mode, got %v", c.Mode())
	}

	var ticks []int
	c.OnTick = func(sec int) { ticks = append(ticks, sec) }

	// Nothing happens before Start.
	s.Advance(epoch.Add(3 * time.Second))
	if c.Elapsed() != 0 || len(ticks) != 0 {
		t.Fatalf("clock ticked before start: elapsed=%d ticks=%v", c.Elapsed(), ticks)
	}

	c.Start()
	s.Advance(epoch.Add(6 * time.Second))
	if c.Elapsed() != 3 {
		t.Errorf("expected 3s elapsed, got %d", c.Elapsed())
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] < ticks[i-1] {
			t.Errorf("ticks must be non-decreasing: %v", ticks)
		}
	}
	if len(ticks) != 3 {
		t.Errorf("expected one tick per second, got %v", ticks)
	}
}

func TestClock_PauseExcludesPausedTime(t *testing.T) {
	s, c := newTestClock(0)
	ticks := 0
	c.OnTick = func(int) { ticks++ }
	c.Start()

	s.Advance(epoch.Add(2 * time.Second))
	c.Pause()
	if !c.Paused() {
		t.Fatal("clock should be paused")
	}
	before := ticks
	s.Advance(epoch.Add(60 * time.Second))
	if ticks != before {
		t.Error("ticks delivered while paused")
	}
	if c.Elapsed() != 2 {
		t.Errorf("display should freeze at 2, got %d", c.Elapsed())
	}

	c.Resume()
	s.Advance(epoch.Add(63 * time.Second))
	if c.Elapsed() != 5 {
		t.Errorf("expected 5s excluding pause, got %d", c.Elapsed())
	}
}

func TestClock_PauseResumeNoOps(t *testing.T) {
	s, c := newTestClock(0)

	c.Pause() // not started
	if c.Paused() {
		t.Error("pause before start should be a no-op")
	}
	c.Resume() // not paused
	if c.Started() {
		t.Error("resume should not start the clock")
	}

	c.Start()
	c.Pause()
	c.Pause()
	c.Resume()
	if c.Paused() || !c.Running() {
		t.Error("double pause then resume should leave the clock running")
	}
	if s.Len() != 1 {
		t.Errorf("expected exactly one pending tick, got %d", s.Len())
	}
}

func TestClock_CountDownExpiresOnce(t *testing.T) {
	s, c := newTestClock(1)
	if c.Mode() != CountDown || c.Display() != 1 {
		t.Fatalf("expected countdown from 1, got mode=%v display=%d", c.Mode(), c.Display())
	}

	expired := 0
	ticks := 0
	c.OnExpire = func() { expired++ }
	c.OnTick = func(int) { ticks++ }
	c.Start()

	s.Advance(epoch.Add(750 * time.Millisecond))
	if expired != 0 {
		t.Fatal("expired early")
	}

	s.Advance(epoch.Add(time.Second))
	if expired != 1 {
		t.Fatalf("expected one expiry, got %d", expired)
	}
	if !c.Expired() || c.Remaining() != 0 {
		t.Errorf("expected expired clock at 0, got remaining=%d", c.Remaining())
	}

	after := ticks
	s.Advance(epoch.Add(10 * time.Second))
	if expired != 1 || ticks != after {
		t.Errorf("clock kept ticking after expiry: expired=%d ticks=%d->%d", expired, after, ticks)
	}
	if s.Len() != 0 {
		t.Errorf("expected no pending ticks, got %d", s.Len())
	}
}

func TestClock_CountDownFraction(t *testing.T) {
	s, c := newTestClock(10)
	c.Start()
	s.Advance(epoch.Add(5 * time.Second))
	if c.Remaining() != 5 || c.Elapsed() != 5 {
		t.Errorf("expected 5 remaining/5 elapsed, got %d/%d", c.Remaining(), c.Elapsed())
	}
	if c.Fraction() != 0.5 {
		t.Errorf("expected fraction 0.5, got %v", c.Fraction())
	}
}

func TestClock_StopCancelsTicks(t *testing.T) {
	s, c := newTestClock(30)
	c.Start()
	c.Stop()
	if s.Len() != 0 {
		t.Fatalf("expected no pending ticks after stop, got %d", s.Len())
	}
	c.Start()
	c.Resume()
	if s.Len() != 0 {
		t.Error("stopped clock must not restart")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{90, "01:30"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
