package game

// EventKind identifies what changed.
type EventKind int

const (
	CardChanged EventKind = iota
	StatsChanged
	ClockTicked
	PhaseChanged
	PauseChanged
	HintStarted
	HintEnded
	RoundWon
	RoundLost
)

func (k EventKind) String() string {
	switch k {
	case CardChanged:
		return "card"
	case StatsChanged:
		return "stats"
	case ClockTicked:
		return "tick"
	case PhaseChanged:
		return "phase"
	case PauseChanged:
		return "pause"
	case HintStarted:
		return "hint-start"
	case HintEnded:
		return "hint-end"
	case RoundWon:
		return "won"
	case RoundLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a Round. Fields not relevant to
// the kind are zero.
type Event struct {
	Kind       EventKind
	RoundID    string
	Card       Card
	Phase      Phase
	Paused     bool
	Moves      int
	FoundPairs int
	Pairs      int
	Seconds    int // clock display for ticks, elapsed seconds for outcomes
}

// Listener receives events.
type Listener func(Event)

// Bus fans events out to subscribers in subscription order.
type Bus struct {
	next      int
	listeners map[int]Listener
	order     []int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: map[int]Listener{}}
}

// Subscribe adds a listener and returns a function that removes it.
func (b *Bus) Subscribe(fn Listener) func() {
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.order = append(b.order, id)
	return func() {
		delete(b.listeners, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers e to every subscriber.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	ids := append([]int(nil), b.order...)
	for _, id := range ids {
		if fn, ok := b.listeners[id]; ok {
			fn(e)
		}
	}
}
