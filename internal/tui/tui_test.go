package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/link2video/internal/config"
	"github.com/handiism/link2video/internal/download"
	"github.com/handiism/link2video/internal/format"
	"github.com/handiism/link2video/internal/model"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func testMenu() format.Menu {
	return format.Select([]model.FormatDescriptor{
		{Extension: "mp4", Quality: "720p", Height: 720, Type: "video"},
		{Extension: "mp4", Quality: "1080p", Height: 1080, Type: "video"},
		{Extension: "mp3", Quality: "128kbps", Bitrate: 128, Type: "audio"},
	}, format.DefaultPolicy())
}

func TestStopwatch_ToggleTickReset(t *testing.T) {
	var sw Stopwatch

	sw, cmd := sw.Toggle()
	if !sw.State().Running || cmd == nil || !sw.Visible() {
		t.Fatalf("Toggle() = %+v, cmd = %v", sw.State(), cmd)
	}

	gen := sw.gen
	for i := 0; i < 125; i++ {
		sw, cmd = sw.Update(StopwatchTickMsg{Gen: gen})
		if cmd == nil {
			t.Fatalf("tick %d did not schedule the next tick", i)
		}
	}
	if got := sw.State().Display(); got != "00:02:05" {
		t.Errorf("Display() = %q, want 00:02:05", got)
	}

	sw, cmd = sw.Reset()
	if sw.State().Elapsed != 0 || !sw.State().Running || cmd == nil {
		t.Errorf("Reset() = %+v, cmd = %v", sw.State(), cmd)
	}

	// The tick scheduled before the reset is stale.
	sw, cmd = sw.Update(StopwatchTickMsg{Gen: gen})
	if sw.State().Elapsed != 0 || cmd != nil {
		t.Errorf("stale tick changed state: %+v", sw.State())
	}
}

func TestStopwatch_PauseDropsPendingTick(t *testing.T) {
	var sw Stopwatch
	sw, _ = sw.Toggle()
	pending := sw.gen

	sw, cmd := sw.Toggle()
	if sw.State().Running || cmd != nil {
		t.Fatalf("pause: %+v, cmd = %v", sw.State(), cmd)
	}

	sw, cmd = sw.Update(StopwatchTickMsg{Gen: pending})
	if sw.State().Elapsed != 0 || cmd != nil {
		t.Errorf("tick after pause changed state: %+v", sw.State())
	}
}

func TestStopwatch_ResetWhilePaused(t *testing.T) {
	sw := Stopwatch{}
	sw.state.Elapsed = 42

	sw, cmd := sw.Reset()
	if sw.State().Elapsed != 0 || sw.State().Running || cmd != nil {
		t.Errorf("Reset() = %+v, cmd = %v", sw.State(), cmd)
	}
}

func TestStopwatch_View(t *testing.T) {
	var sw Stopwatch
	if sw.View() != "" {
		t.Error("hidden stopwatch should render nothing")
	}
	sw, _ = sw.Toggle()
	if !strings.Contains(sw.View(), "00:00:00") {
		t.Errorf("View() = %q", sw.View())
	}
}

func TestModel_StopwatchKeys(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m, cmd := update(t, m, key("ctrl+s"))
	if !m.stopwatch.State().Running || cmd == nil {
		t.Fatalf("ctrl+s did not start the stopwatch")
	}
	if m.textInput.Value() != "" {
		t.Errorf("ctrl+s leaked into the input: %q", m.textInput.Value())
	}

	m, _ = update(t, m, StopwatchTickMsg{Gen: m.stopwatch.gen})
	m, _ = update(t, m, StopwatchTickMsg{Gen: m.stopwatch.gen})
	if m.stopwatch.State().Elapsed != 2 {
		t.Errorf("Elapsed = %d, want 2", m.stopwatch.State().Elapsed)
	}

	m, _ = update(t, m, key("ctrl+r"))
	if m.stopwatch.State().Elapsed != 0 || !m.stopwatch.State().Running {
		t.Errorf("ctrl+r = %+v", m.stopwatch.State())
	}
	if !strings.Contains(m.View(), "00:00:00") {
		t.Error("View() does not show the stopwatch")
	}
}

func TestModel_EnterRequiresURL(t *testing.T) {
	m := NewModel(nil)
	m, cmd := update(t, m, key("enter"))
	if m.state != StateInput || cmd != nil {
		t.Errorf("enter with empty input: state = %v", m.state)
	}

	m.textInput.SetValue("https://youtu.be/x")
	m, cmd = update(t, m, key("enter"))
	if m.state != StateFetching || cmd == nil {
		t.Errorf("enter with url: state = %v", m.state)
	}
}

func TestModel_TabTogglesVerbose(t *testing.T) {
	m := NewModel(nil)
	m, _ = update(t, m, key("tab"))
	if !m.verbose {
		t.Error("tab did not enable verbose")
	}
}

func TestModel_FetchDone(t *testing.T) {
	tests := []struct {
		name      string
		msg       FetchDoneMsg
		wantState State
		wantErr   string
	}{
		{"menu", FetchDoneMsg{Info: &model.VideoInfo{Title: "T"}, Menu: testMenu()}, StateMenu, ""},
		{"error", FetchDoneMsg{Err: errors.New("HTTP 400: URL no soportada")}, StateError, "URL no soportada"},
		{"empty menu", FetchDoneMsg{Info: &model.VideoInfo{Title: "T"}}, StateError, "no downloadable formats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(nil)
			m.state = StateFetching
			m, _ = update(t, m, tt.msg)
			if m.state != tt.wantState {
				t.Errorf("state = %v, want %v", m.state, tt.wantState)
			}
			if tt.wantErr != "" && (m.err == nil || !strings.Contains(m.err.Error(), tt.wantErr)) {
				t.Errorf("err = %v, want %q", m.err, tt.wantErr)
			}
		})
	}
}

func TestModel_MenuNavigation(t *testing.T) {
	m := NewModel(nil)
	m.state = StateFetching
	m, _ = update(t, m, FetchDoneMsg{Info: &model.VideoInfo{Title: "T"}, Menu: testMenu()})

	view := m.View()
	for _, want := range []string{"Video", "Audio", "MP4 • 1080p", "MP4 • 720p", "MP3 • 128kbps"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q", want)
		}
	}
	if strings.Index(view, "MP4 • 1080p") > strings.Index(view, "MP4 • 720p") {
		t.Error("1080p should be listed before 720p")
	}

	m, _ = update(t, m, key("up"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top", m.cursor)
	}
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("down"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want clamp at 2", m.cursor)
	}
	m, _ = update(t, m, key("k"))

	m, cmd := update(t, m, key("enter"))
	if m.state != StateDownloading || cmd == nil {
		t.Fatalf("enter in menu: state = %v", m.state)
	}
	if m.chosen.Quality != "720p" || m.chosen.Extension != "mp4" {
		t.Errorf("chosen = %+v, want mp4 720p", m.chosen)
	}
}

func TestModel_MenuEscReturnsToInput(t *testing.T) {
	m := NewModel(nil)
	m.state = StateFetching
	m, _ = update(t, m, FetchDoneMsg{Info: &model.VideoInfo{Title: "T"}, Menu: testMenu()})
	m, _ = update(t, m, key("esc"))
	if m.state != StateInput || m.menu.Len() != 0 {
		t.Errorf("esc in menu: state = %v, menu = %d", m.state, m.menu.Len())
	}
}

func TestModel_DownloadDone(t *testing.T) {
	m := NewModel(nil)
	m.state = StateDownloading
	m.chosen = model.FormatDescriptor{Extension: "mp4", Quality: "720p"}

	m, _ = update(t, m, DownloadDoneMsg{Path: "/tmp/Youtube/T [720p].mp4", Received: 2048, Total: 2048})
	if m.state != StateComplete {
		t.Fatalf("state = %v, want complete", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "T [720p].mp4") || !strings.Contains(view, "2.0 kB") {
		t.Errorf("complete view = %q", view)
	}

	m, _ = update(t, m, key("r"))
	if m.state != StateInput || m.saved != "" || m.receivedBytes != 0 {
		t.Errorf("restart left state behind: %+v", m.state)
	}
}

func TestModel_EscCancelsDownload(t *testing.T) {
	m := NewModel(nil)
	m.state = StateDownloading

	m, _ = update(t, m, key("esc"))
	if m.state != StateError || !errors.Is(m.err, errCancelled) {
		t.Fatalf("esc: state = %v, err = %v", m.state, m.err)
	}

	// A late result after cancellation keeps the cancelled error.
	m, _ = update(t, m, DownloadDoneMsg{Err: errors.New("context canceled")})
	if !errors.Is(m.err, errCancelled) {
		t.Errorf("err = %v, want cancelled", m.err)
	}
}

func TestModel_CollectLogsFiltersVerbose(t *testing.T) {
	m := NewModel(nil)
	m.state = StateFetching
	m.events.add(download.ProgressEvent{Message: "debug", Level: download.LevelVerbose})
	m.events.add(download.ProgressEvent{Message: "Found: T", Level: download.LevelInfo})

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick while fetching should reschedule")
	}
	if len(m.logs) != 1 || m.logs[0].Message != "Found: T" {
		t.Errorf("logs = %+v", m.logs)
	}

	m.verbose = true
	for i := 0; i < maxLogs+5; i++ {
		m.events.add(download.ProgressEvent{Message: "debug", Level: download.LevelVerbose})
	}
	m, _ = update(t, m, TickMsg{})
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_TickStopsWhenIdle(t *testing.T) {
	m := NewModel(nil)
	m.state = StateComplete
	if _, cmd := update(t, m, TickMsg{}); cmd != nil {
		t.Error("tick outside fetching/downloading should not reschedule")
	}
}

func TestModel_StaleResultsIgnored(t *testing.T) {
	m := NewModel(nil)
	m.textInput.SetValue("https://youtu.be/x")
	m, _ = update(t, m, key("enter"))
	abandoned := m.session

	m, _ = update(t, m, key("esc"))
	m, _ = update(t, m, key("r"))
	if m.state != StateInput {
		t.Fatalf("state = %v after restart, want input", m.state)
	}
	if m.session == abandoned {
		t.Fatal("restart did not start a new session")
	}

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"cancelled fetch", FetchDoneMsg{Session: abandoned, Err: context.Canceled}},
		{"late fetch result", FetchDoneMsg{Session: abandoned, Info: &model.VideoInfo{Title: "Old"}, Menu: testMenu()}},
		{"cancelled download", DownloadDoneMsg{Session: abandoned, Err: context.Canceled}},
		{"late download result", DownloadDoneMsg{Session: abandoned, Path: "/tmp/old.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := update(t, m, tt.msg)
			if got.state != StateInput || got.err != nil || got.menu.Len() != 0 || got.saved != "" {
				t.Errorf("stale result changed state to %v (err = %v)", got.state, got.err)
			}
		})
	}
}

func TestModel_ResultIgnoredOutsideItsState(t *testing.T) {
	m := NewModel(nil)

	m, _ = update(t, m, FetchDoneMsg{Session: m.session, Info: &model.VideoInfo{Title: "T"}, Menu: testMenu()})
	if m.state != StateInput {
		t.Fatalf("fetch result without a fetch moved state to %v", m.state)
	}

	m.state = StateFetching
	m, _ = update(t, m, FetchDoneMsg{Session: m.session, Info: &model.VideoInfo{Title: "T"}, Menu: testMenu()})
	if m.state != StateMenu {
		t.Fatalf("state = %v, want menu", m.state)
	}

	m, _ = update(t, m, DownloadDoneMsg{Session: m.session, Path: "/tmp/x.mp4"})
	if m.state != StateMenu || m.saved != "" {
		t.Errorf("download result in menu moved state to %v", m.state)
	}
}
