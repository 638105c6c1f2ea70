package stopwatch

import "fmt"

// State is the stopwatch model. The zero value is paused at 00:00:00.
type State struct {
	Elapsed int
	Running bool
}

// Toggle flips between running and paused. Elapsed is unchanged.
func (s State) Toggle() State {
	s.Running = !s.Running
	return s
}

// Reset zeroes the counter. A running stopwatch keeps running.
func (s State) Reset() State {
	s.Elapsed = 0
	return s
}

// Tick advances a running stopwatch by one second. A paused one is
// returned unchanged.
func (s State) Tick() State {
	if s.Running {
		s.Elapsed++
	}
	return s
}

// Hours returns the whole hours in Elapsed.
func (s State) Hours() int { return s.Elapsed / 3600 }

// Minutes returns the minutes past the hour.
func (s State) Minutes() int { return (s.Elapsed / 60) % 60 }

// Seconds returns the seconds past the minute.
func (s State) Seconds() int { return s.Elapsed % 60 }

// Display renders Elapsed as HH:MM:SS.
func (s State) Display() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.Hours(), s.Minutes(), s.Seconds())
}

// String implements fmt.Stringer.
func (s State) String() string {
	return s.Display()
}
