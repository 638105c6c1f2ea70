// Package tui provides a Bubble Tea terminal user interface for link2video.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/link2video/internal/config"
	"github.com/handiism/link2video/internal/download"
	"github.com/handiism/link2video/internal/format"
	"github.com/handiism/link2video/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	videoTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	stopwatchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateFetching
	StateMenu
	StateDownloading
	StateComplete
	StateError
)

const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventLog collects manager events from background commands until the
// next progress tick drains them.
type eventLog struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (l *eventLog) add(e download.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) drain() []download.ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	stopwatch Stopwatch
	settings  *config.Settings
	events    *eventLog
	logs      []LogEntry
	err       error

	// Download context. session changes on every restart so results
	// from an abandoned fetch or download can be recognised.
	ctx     context.Context
	cancel  context.CancelFunc
	session int

	manager *download.Manager
	info    *model.VideoInfo
	menu    format.Menu
	cursor  int
	chosen  model.FormatDescriptor
	saved   string

	// Download progress
	totalBytes    int64
	receivedBytes int64

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		events:    &eventLog{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// FetchDoneMsg is sent when video info has been fetched.
	FetchDoneMsg struct {
		Session int
		Manager *download.Manager
		Info    *model.VideoInfo
		Menu    format.Menu
		Err     error
	}

	// DownloadDoneMsg is sent when the chosen format has been saved.
	DownloadDoneMsg struct {
		Session  int
		Path     string
		Received int64
		Total    int64
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StopwatchTickMsg:
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case FetchDoneMsg:
		if msg.Session != m.session || m.state != StateFetching {
			return m, nil
		}
		m.collectLogs()
		switch {
		case m.ctx.Err() != nil:
			m.fail(errCancelled)
		case msg.Err != nil:
			m.fail(msg.Err)
		case msg.Menu.IsEmpty():
			m.fail(errors.New("no downloadable formats available"))
		default:
			m.manager = msg.Manager
			m.info = msg.Info
			m.menu = msg.Menu
			m.cursor = 0
			m.state = StateMenu
		}

	case DownloadDoneMsg:
		if msg.Session != m.session || m.state != StateDownloading {
			return m, nil
		}
		m.collectLogs()
		m.receivedBytes = msg.Received
		m.totalBytes = msg.Total
		switch {
		case m.ctx.Err() != nil:
			m.fail(errCancelled)
		case msg.Err != nil:
			m.fail(msg.Err)
		default:
			m.saved = msg.Path
			m.state = StateComplete
		}

	case TickMsg:
		if m.state != StateFetching && m.state != StateDownloading {
			return m, nil
		}
		m.collectLogs()
		if m.manager != nil && m.state == StateDownloading {
			m.receivedBytes, m.totalBytes = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()))
		}
		cmds = append(cmds, tickProgress())

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "ctrl+s":
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Toggle()
		return m, cmd

	case "ctrl+r":
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Reset()
		return m, cmd
	}

	switch m.state {
	case StateInput:
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "tab":
			m.verbose = !m.verbose
			return m, nil
		case "enter":
			url := strings.TrimSpace(m.textInput.Value())
			if url == "" {
				return m, nil
			}
			m.state = StateFetching
			return m, tea.Batch(m.fetch(url), m.spinner.Tick, tickProgress())
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case StateFetching, StateDownloading:
		if msg.String() == "esc" {
			m.cancel()
			m.fail(errCancelled)
		}

	case StateMenu:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.menu.Len()-1 {
				m.cursor++
			}
		case "esc":
			return m.restart(), nil
		case "enter":
			chosen := false
			m.menu.Choose(m.cursor, func(d model.FormatDescriptor) {
				m.chosen = d
				chosen = true
			})
			if !chosen {
				return m, nil
			}
			m.state = StateDownloading
			m.receivedBytes, m.totalBytes = 0, 0
			return m, tea.Batch(m.download(m.chosen), m.spinner.Tick, tickProgress())
		}

	case StateComplete, StateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m.restart(), nil
		}
	}

	return m, nil
}

// restart returns to the URL prompt with a fresh download context. The
// stopwatch and verbosity survive.
func (m Model) restart() Model {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.info = nil
	m.menu = format.Menu{}
	m.cursor = 0
	m.chosen = model.FormatDescriptor{}
	m.saved = ""
	m.receivedBytes = 0
	m.totalBytes = 0
	m.events = &eventLog{}
	m.session++
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m *Model) fail(err error) {
	m.state = StateError
	m.err = err
}

// collectLogs moves pending manager events into the log pane.
func (m *Model) collectLogs() {
	for _, event := range m.events.drain() {
		if event.Level == download.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{
			Message: event.Message,
			Level:   event.Level,
		})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) percent() float64 {
	if m.totalBytes <= 0 {
		return 0
	}
	p := float64(m.receivedBytes) / float64(m.totalBytes)
	if p > 1 {
		p = 1
	}
	return p
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎬 Link2Video"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download videos and audio from a link"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	if sw := m.stopwatch.View(); sw != "" {
		b.WriteString("\n")
		b.WriteString(sw)
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter video URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (tab)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Backend: %s", m.settings.APIBaseURL)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching video info..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(m.renderVideoInfo())
	b.WriteString("\n")

	i := 0
	for _, section := range m.menu.Sections() {
		b.WriteString(subtitleStyle.Render(section.Title))
		b.WriteString("\n")
		for _, opt := range section.Options {
			line := "  " + opt.Label
			if i == m.cursor {
				line = selectedStyle.Render("> " + opt.Label)
			}
			if size := formatSize(opt.Format); size != "" {
				line += dimStyle.Render("  " + size)
			}
			b.WriteString(line)
			b.WriteString("\n")
			i++
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.renderVideoInfo())
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading " + format.Label(m.chosen)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	size := humanize.Bytes(uint64(m.receivedBytes))
	if m.totalBytes > 0 {
		size += " / " + humanize.Bytes(uint64(m.totalBytes))
	}
	b.WriteString(infoStyle.Render("Downloaded: " + size))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Format: %s\n"+
			"File: %s\n"+
			"Size: %s",
		format.Label(m.chosen),
		filepath.Base(m.saved),
		humanize.Bytes(uint64(m.receivedBytes)),
	))
	b.WriteString(box)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(filepath.Dir(m.saved)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderVideoInfo() string {
	if m.info == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(videoTitleStyle.Render("▶ " + m.info.Title))
	b.WriteString("\n")

	var details []string
	if m.info.Uploader != "" {
		details = append(details, m.info.Uploader)
	}
	if m.info.Platform != "" {
		details = append(details, m.info.Platform)
	}
	details = append(details, m.info.Duration.String())
	b.WriteString(dimStyle.Render("  " + strings.Join(details, " • ")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	const stopwatchHelp = " • ctrl+s: stopwatch • ctrl+r: reset"
	switch m.state {
	case StateInput:
		return "enter: fetch • tab: verbose • esc: quit" + stopwatchHelp
	case StateFetching, StateDownloading:
		return "esc: cancel" + stopwatchHelp
	case StateMenu:
		return "↑/↓: choose • enter: download • esc: back" + stopwatchHelp
	case StateComplete, StateError:
		return "r: new download • q: quit" + stopwatchHelp
	}
	return ""
}

// formatSize renders the size the backend reported for d, if any.
func formatSize(d model.FormatDescriptor) string {
	if d.SizeBytes > 0 {
		return humanize.Bytes(uint64(d.SizeBytes))
	}
	return d.Size
}

// fetch creates the manager and fetches video info.
func (m Model) fetch(url string) tea.Cmd {
	ctx, session, settings, events := m.ctx, m.session, m.settings, m.events
	return func() tea.Msg {
		manager := download.NewManager(settings, events.add)
		info, menu, err := manager.Fetch(ctx, url)
		return FetchDoneMsg{Session: session, Manager: manager, Info: info, Menu: menu, Err: err}
	}
}

// download saves the chosen format in the background.
func (m Model) download(chosen model.FormatDescriptor) tea.Cmd {
	ctx, session, manager := m.ctx, m.session, m.manager
	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Session: session, Err: fmt.Errorf("no manager")}
		}
		path, err := manager.Download(ctx, chosen)
		received, total := manager.GetProgress()
		return DownloadDoneMsg{Session: session, Path: path, Received: received, Total: total, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
