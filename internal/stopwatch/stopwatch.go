package stopwatch

import (
	"sync"
	"time"
)

// Interval is the tick period.
const Interval = time.Second

// Stopwatch couples a State with the tick source that advances it.
type Stopwatch struct {
	mu       sync.Mutex
	state    State
	clock    Clock
	interval time.Duration
	source   TickSource
	gen      uint64
	onChange func(State)
}

// New creates a paused stopwatch. onChange, if non-nil, receives every new
// state after a tick, toggle or reset. It is called without the internal
// lock held.
func New(clock Clock, onChange func(State)) *Stopwatch {
	if clock == nil {
		clock = RealClock{}
	}
	return &Stopwatch{
		clock:    clock,
		interval: Interval,
		onChange: onChange,
	}
}

// State returns a snapshot of the current state.
func (sw *Stopwatch) State() State {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.state
}

// Display returns the current HH:MM:SS string.
func (sw *Stopwatch) Display() string {
	return sw.State().Display()
}

// Toggle starts a paused stopwatch or pauses a running one.
func (sw *Stopwatch) Toggle() State {
	sw.mu.Lock()
	sw.state = sw.state.Toggle()
	if sw.state.Running {
		sw.startLocked()
	} else {
		sw.cancelLocked()
	}
	s := sw.state
	sw.mu.Unlock()

	sw.notify(s)
	return s
}

// Reset zeroes the counter. A running stopwatch gets a fresh tick source so
// the next increment is a full interval away.
func (sw *Stopwatch) Reset() State {
	sw.mu.Lock()
	sw.cancelLocked()
	sw.state = sw.state.Reset()
	if sw.state.Running {
		sw.startLocked()
	}
	s := sw.state
	sw.mu.Unlock()

	sw.notify(s)
	return s
}

// Close cancels any live tick source and pauses the stopwatch. It is safe
// to call more than once.
func (sw *Stopwatch) Close() {
	sw.mu.Lock()
	sw.cancelLocked()
	sw.state.Running = false
	sw.mu.Unlock()
}

// startLocked cancels the previous source before acquiring a new one.
func (sw *Stopwatch) startLocked() {
	sw.cancelLocked()
	gen := sw.gen
	sw.source = sw.clock.Every(sw.interval, func() {
		sw.tick(gen)
	})
}

func (sw *Stopwatch) cancelLocked() {
	sw.gen++
	if sw.source != nil {
		sw.source.Stop()
		sw.source = nil
	}
}

// tick ignores callbacks from a source that has since been cancelled.
func (sw *Stopwatch) tick(gen uint64) {
	sw.mu.Lock()
	if gen != sw.gen || !sw.state.Running {
		sw.mu.Unlock()
		return
	}
	sw.state = sw.state.Tick()
	s := sw.state
	sw.mu.Unlock()

	sw.notify(s)
}

func (sw *Stopwatch) notify(s State) {
	if sw.onChange != nil {
		sw.onChange(s)
	}
}
