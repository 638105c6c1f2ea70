package stopwatch

import (
	"sync"
	"time"
)

// TickSource is a live periodic callback. Stop must be safe to call more
// than once.
type TickSource interface {
	Stop()
}

// Clock starts tick sources.
type Clock interface {
	// Every calls fn once per interval until the returned source is stopped.
	// Calls are never concurrent with each other.
	Every(interval time.Duration, fn func()) TickSource
}

// RealClock is a Clock backed by time.Ticker.
type RealClock struct{}

// Every implements Clock.
func (RealClock) Every(interval time.Duration, fn func()) TickSource {
	t := &tickerSource{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerSource struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerSource) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop implements TickSource.
func (t *tickerSource) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
