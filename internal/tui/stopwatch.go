package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/link2video/internal/stopwatch"
)

// StopwatchTickMsg advances the stopwatch by one second. Ticks carrying
// an old generation were scheduled before the last toggle or reset and
// are dropped.
type StopwatchTickMsg struct {
	Gen int
}

// Stopwatch is the stopwatch pane. It holds at most one pending tick.
type Stopwatch struct {
	state   stopwatch.State
	gen     int
	visible bool
}

// State returns the current counter state.
func (s Stopwatch) State() stopwatch.State {
	return s.state
}

// Visible reports whether the pane has been opened.
func (s Stopwatch) Visible() bool {
	return s.visible
}

// Toggle starts or pauses the stopwatch and opens the pane.
func (s Stopwatch) Toggle() (Stopwatch, tea.Cmd) {
	s.visible = true
	s.state = s.state.Toggle()
	s.gen++
	if s.state.Running {
		return s, s.tick()
	}
	return s, nil
}

// Reset zeroes the counter. A running stopwatch keeps running from zero.
func (s Stopwatch) Reset() (Stopwatch, tea.Cmd) {
	s.state = s.state.Reset()
	s.gen++
	if s.state.Running {
		return s, s.tick()
	}
	return s, nil
}

// Update handles StopwatchTickMsg.
func (s Stopwatch) Update(msg tea.Msg) (Stopwatch, tea.Cmd) {
	tick, ok := msg.(StopwatchTickMsg)
	if !ok || tick.Gen != s.gen || !s.state.Running {
		return s, nil
	}
	s.state = s.state.Tick()
	return s, s.tick()
}

func (s Stopwatch) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(stopwatch.Interval, func(time.Time) tea.Msg {
		return StopwatchTickMsg{Gen: gen}
	})
}

// View renders the pane, or nothing before the first toggle.
func (s Stopwatch) View() string {
	if !s.visible {
		return ""
	}
	status := "paused"
	if s.state.Running {
		status = "running"
	}
	return stopwatchStyle.Render("⏱  "+s.state.Display()) + " " + dimStyle.Render(status)
}
