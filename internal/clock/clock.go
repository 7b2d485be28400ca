package clock

import (
	"fmt"
	"time"
)

// SampleInterval is how often a running clock re-reads the time.
const SampleInterval = 250 * time.Millisecond

// Mode selects whether a clock counts up from zero or down from a limit.
type Mode int

const (
	CountUp Mode = iota
	CountDown
)

func (m Mode) String() string {
	if m == CountDown {
		return "countdown"
	}
	return "countup"
}

// Clock is the round timer. It samples the scheduler's time every
// SampleInterval and publishes whole seconds.
type Clock struct {
	group   *Group
	mode    Mode
	limit   int
	display int
	ref     time.Time // start instant (count-up) or deadline (count-down)
	tick    *Timer

	started bool
	paused  bool
	stopped bool
	expired bool

	// OnTick receives the displayed value every time it changes.
	OnTick func(seconds int)
	// OnExpire fires once when a countdown reaches zero.
	OnExpire func()
}

// New creates a stopped clock. A positive limit selects countdown mode.
func New(group *Group, limitSeconds int) *Clock {
	c := &Clock{group: group, mode: CountUp}
	if limitSeconds > 0 {
		c.mode = CountDown
		c.limit = limitSeconds
		c.display = limitSeconds
	}
	return c
}

// Mode returns the counting direction.
func (c *Clock) Mode() Mode { return c.mode }

// Limit returns the countdown limit in seconds, or 0 in count-up mode.
func (c *Clock) Limit() int { return c.limit }

// Start begins ticking. Only the first call has any effect.
func (c *Clock) Start() {
	if c.started || c.stopped {
		return
	}
	c.started = true
	now := c.group.Now()
	if c.mode == CountDown {
		c.ref = now.Add(time.Duration(c.limit) * time.Second)
	} else {
		c.ref = now
	}
	c.arm()
}

// Pause freezes the displayed value and cancels the pending tick.
func (c *Clock) Pause() {
	if !c.Running() {
		return
	}
	c.sample()
	if c.stopped {
		return
	}
	c.paused = true
	c.tick.Stop()
	c.tick = nil
}

// Resume re-derives the reference instant from the displayed value so
// the paused stretch is not counted.
func (c *Clock) Resume() {
	if !c.paused || c.stopped {
		return
	}
	c.paused = false
	now := c.group.Now()
	d := time.Duration(c.display) * time.Second
	if c.mode == CountDown {
		c.ref = now.Add(d)
	} else {
		c.ref = now.Add(-d)
	}
	c.arm()
}

// Stop cancels all future ticks. A stopped clock never restarts.
func (c *Clock) Stop() {
	if c.stopped {
		return
	}
	if c.Running() && c.mode == CountUp {
		c.sample()
	}
	c.stopped = true
	c.paused = false
	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}
}

// Running reports whether the clock has started and is neither paused nor stopped.
func (c *Clock) Running() bool {
	return c.started && !c.paused && !c.stopped
}

func (c *Clock) Started() bool { return c.started }
func (c *Clock) Paused() bool  { return c.paused }
func (c *Clock) Stopped() bool { return c.stopped }
func (c *Clock) Expired() bool { return c.expired }

// Display returns the value a HUD should show: elapsed seconds when
// counting up, remaining seconds when counting down.
func (c *Clock) Display() int {
	return c.display
}

// Elapsed returns whole seconds played so far, excluding pauses.
func (c *Clock) Elapsed() int {
	if c.mode == CountDown {
		return c.limit - c.display
	}
	return c.display
}

// Remaining returns the seconds left in countdown mode and 0 otherwise.
func (c *Clock) Remaining() int {
	if c.mode == CountDown {
		return c.display
	}
	return 0
}

// Fraction returns remaining/limit for countdown clocks and 1 otherwise.
func (c *Clock) Fraction() float64 {
	if c.mode != CountDown || c.limit == 0 {
		return 1
	}
	return float64(c.display) / float64(c.limit)
}

func (c *Clock) arm() {
	c.tick = c.group.After(SampleInterval, func() {
		c.tick = nil
		c.sample()
		if c.Running() {
			c.arm()
		}
	})
}

func (c *Clock) sample() {
	now := c.group.Now()
	var v int
	if c.mode == CountDown {
		left := c.ref.Sub(now)
		// round up so the display only reaches zero at the deadline
		v = int((left + time.Second - 1) / time.Second)
		if v < 0 {
			v = 0
		}
	} else {
		v = int(now.Sub(c.ref) / time.Second)
		if v < c.display {
			v = c.display
		}
	}

	if v != c.display {
		c.display = v
		if c.OnTick != nil {
			c.OnTick(v)
		}
	}

	if c.mode == CountDown && c.display <= 0 && !c.expired {
		c.expired = true
		c.Stop()
		if c.OnExpire != nil {
			c.OnExpire()
		}
	}
}

// Format renders seconds as MM:SS, clamping negatives to zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
