// Package tui provides a Bubble Tea progress view for a tracktag run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/tracktag/internal/model"
	"github.com/handiism/tracktag/internal/pipeline"
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

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// ErrCancelled is reported when the user cancels the run. It matches
// context.Canceled.
var ErrCancelled error = cancelledError{}

type cancelledError struct{}

func (cancelledError) Error() string { return "cancelled by user" }

func (cancelledError) Is(target error) bool { return target == context.Canceled }

// State represents the current UI state.
type State int

const (
	StateInitializing State = iota
	StateEncoding
	StateComplete
	StateError
)

// Session is the run the TUI drives. *session.Manager implements it.
type Session interface {
	Initialize(ctx context.Context, manifest, outputDir string) error
	GetAlbumNames() []string
	GetProgress() (done, total int32)
	Start(ctx context.Context) (*pipeline.Report, error)
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	logs     []LogEntry
	albums   []string
	failed   map[model.TrackID]struct{}
	report   *pipeline.Report
	err      error

	session   Session
	events    <-chan pipeline.ProgressEvent
	manifest  string
	outputDir string

	ctx    context.Context
	cancel context.CancelFunc

	doneTracks  int32
	totalTracks int32

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. events must carry the progress events
// of session and is drained for the lifetime of the program.
func NewModel(ctx context.Context, session Session, events <-chan pipeline.ProgressEvent, manifest, outputDir string, verbose bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(ctx)

	return Model{
		state:     StateInitializing,
		spinner:   sp,
		progress:  prog,
		logs:      make([]LogEntry, 0),
		failed:    make(map[model.TrackID]struct{}),
		session:   session,
		events:    events,
		manifest:  manifest,
		outputDir: outputDir,
		ctx:       ctx,
		cancel:    cancel,
		verbose:   verbose,
	}
}

// Init starts initialization right away.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize(), m.waitForEvent())
}

// Message types
type (
	// ProgressMsg carries one pipeline event.
	ProgressMsg struct {
		Event pipeline.ProgressEvent
	}

	// InitDoneMsg is sent when the session has been initialized.
	InitDoneMsg struct {
		Albums []string
		Err    error
	}

	// RunDoneMsg is sent when the pipeline has finished.
	RunDoneMsg struct {
		Report *pipeline.Report
		Err    error
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
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.state == StateEncoding || m.state == StateInitializing {
				m.err = ErrCancelled
			}
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateEncoding || m.state == StateInitializing {
				m.cancel()
			}

		case "v":
			m.verbose = !m.verbose

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m = m.addEvent(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.albums = msg.Albums
			m.state = StateEncoding
			cmds = append(cmds, m.start(), m.tickProgress())
		}

	case RunDoneMsg:
		m.report = msg.Report
		m.doneTracks, m.totalTracks = m.session.GetProgress()
		switch {
		case errors.Is(msg.Err, context.Canceled) || m.ctx.Err() != nil:
			m.state = StateError
			m.err = ErrCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateEncoding {
			m.doneTracks, m.totalTracks = m.session.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) addEvent(event pipeline.ProgressEvent) Model {
	if event.Track != nil && event.Track.State == pipeline.StateFailed {
		m.failed[event.Track.ID] = struct{}{}
	}
	if event.Level == pipeline.LevelVerbose && !m.verbose {
		return m
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
	return m
}

func (m Model) percent() float64 {
	if m.totalTracks == 0 {
		return 0
	}
	return float64(m.doneTracks) / float64(m.totalTracks)
}

// Report returns the pipeline report once the run has finished.
func (m Model) Report() *pipeline.Report {
	return m.report
}

// Err returns the error that ended the run, if any.
func (m Model) Err() error {
	return m.err
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ tracktag"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.manifest + " → " + m.outputDir))
	b.WriteString("\n\n")

	switch m.state {
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateEncoding:
		b.WriteString(m.viewEncoding())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading track info..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewEncoding() string {
	var b strings.Builder

	if len(m.albums) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d album(s):", len(m.albums))))
		b.WriteString("\n")
		for _, album := range m.albums {
			b.WriteString(albumStyle.Render(fmt.Sprintf("  ♪ %s", album)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d | Failed: %d", m.doneTracks, m.totalTracks, len(m.failed))))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	tracks, failedTracks, failedAlbums := 0, 0, 0
	if m.report != nil {
		tracks = len(m.report.Tracks)
		failedTracks = m.report.FailedTracks()
		failedAlbums = m.report.FailedAlbums()
	}

	headline := "✓ All tracks tagged!"
	style := boxStyle
	if m.report != nil && !m.report.OK() {
		headline = "! Finished with errors"
		style = style.BorderForeground(lipgloss.Color("#FFE66D"))
	}

	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf(
		"%s\n\n"+
			"Albums: %d\n"+
			"Tracks: %d\n"+
			"Failed tracks: %d\n"+
			"Failed albums: %d",
		headline,
		len(m.albums),
		tracks,
		failedTracks,
		failedAlbums,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
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
	switch m.state {
	case StateInitializing, StateEncoding:
		return "v: verbose • esc: cancel"
	case StateComplete, StateError:
		return "v: verbose • q: quit"
	}
	return ""
}

// initialize reads the manifest and maps tracks.
func (m Model) initialize() tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Initialize(m.ctx, m.manifest, m.outputDir); err != nil {
			return InitDoneMsg{Err: err}
		}
		return InitDoneMsg{Albums: m.session.GetAlbumNames()}
	}
}

// start runs the pipeline in the background.
func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		report, err := m.session.Start(m.ctx)
		return RunDoneMsg{Report: report, Err: err}
	}
}

// Run shows the progress view until the user quits. The returned model
// carries the report and the error that ended the run.
func Run(ctx context.Context, session Session, events <-chan pipeline.ProgressEvent, manifest, outputDir string, verbose bool) (Model, error) {
	p := tea.NewProgram(NewModel(ctx, session, events, manifest, outputDir, verbose), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}
