// Package tui provides a Bubble Tea terminal user interface for tagmatch.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tagmatch/internal/config"
	"tagmatch/internal/runner"
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

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateReview
	StateApplying
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   runner.ProgressLevel
}

// matchRow is one reviewable file-to-record proposal.
type matchRow struct {
	file  string
	title string
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Pipeline context
	ctx    context.Context
	cancel context.CancelFunc

	runner     *runner.Runner
	resolution *runner.Resolution
	rows       []matchRow
	cursor     int
	excluded   map[int]bool

	progressCh chan runner.ProgressEvent

	// Options
	dry     bool
	backup  bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "/music/Artist - Album"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		settings:   settings,
		logs:       make([]LogEntry, 0),
		excluded:   make(map[int]bool),
		progressCh: make(chan runner.ProgressEvent, 32),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.listenProgress())
}

// Message types
type (
	// ProgressMsg is sent when the pipeline reports progress.
	ProgressMsg struct {
		Event runner.ProgressEvent
	}

	// ResolveDoneMsg is sent when the resolve phase completes.
	ResolveDoneMsg struct {
		Runner     *runner.Runner
		Resolution *runner.Resolution
		Err        error
	}

	// ApplyDoneMsg is sent when the apply phase completes.
	ApplyDoneMsg struct {
		Err error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateResolving || m.state == StateApplying {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}
			if m.state == StateReview {
				m.state = StateInput
				m.textInput.Focus()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateResolving
				return m, tea.Batch(m.resolve(), m.spinner.Tick)
			}
			if m.state == StateReview {
				m.state = StateApplying
				return m, tea.Batch(m.apply(), m.spinner.Tick)
			}

		case "up", "k":
			if m.state == StateReview && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateReview && m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case " ":
			if m.state == StateReview && len(m.rows) > 0 {
				m.excluded[m.cursor] = !m.excluded[m.cursor]
			}

		case "d":
			if m.state == StateInput {
				m.dry = !m.dry
			}

		case "b":
			if m.state == StateInput {
				m.backup = !m.backup
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another album
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.runner = nil
				m.resolution = nil
				m.rows = nil
				m.cursor = 0
				m.excluded = make(map[int]bool)
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != runner.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.listenProgress())

	case ResolveDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.runner = msg.Runner
			m.resolution = msg.Resolution
			m.rows = reviewRows(msg.Resolution)
			m.cursor = 0
			m.excluded = make(map[int]bool)
			m.state = StateReview
		}

	case ApplyDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func reviewRows(res *runner.Resolution) []matchRow {
	rows := make([]matchRow, 0, len(res.Files))
	for _, file := range res.Files {
		if rec, ok := res.Matches[file]; ok {
			rows = append(rows, matchRow{file: file, title: rec.String()})
		}
	}
	return rows
}

// listenProgress forwards pipeline progress events into the message loop.
func (m Model) listenProgress() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.progressCh
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("tagmatch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Match metadata listings to audio files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateReview:
		b.WriteString(m.viewReview())
	case StateApplying:
		b.WriteString(m.viewApplying())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter album directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	dryCheck := "[ ]"
	if m.dry {
		dryCheck = "[x]"
	}
	backupCheck := "[ ]"
	if m.backup {
		backupCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Dry run (d)\n", dryCheck))
	b.WriteString(fmt.Sprintf("  %s Backup before writing (b)\n", backupCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Matching files to records..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewReview() string {
	var b strings.Builder

	if m.resolution != nil {
		unmatched := len(m.resolution.Files) - len(m.rows)
		b.WriteString(successStyle.Render(fmt.Sprintf("Proposed %d match(es):", len(m.rows))))
		b.WriteString("\n")
		if unmatched > 0 {
			b.WriteString(warningStyle.Render(fmt.Sprintf("%d file(s) could not be matched", unmatched)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		line := fmt.Sprintf("%s%s  =>  %s", pointer, filepath.Base(row.file), row.title)
		if m.excluded[i] {
			b.WriteString(dimStyle.Render(line + "  (skipped)"))
		} else {
			b.WriteString(matchStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewApplying() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Applying tags and renames..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	applied := 0
	for i := range m.rows {
		if !m.excluded[i] {
			applied++
		}
	}
	suffix := ""
	if m.dry {
		suffix = " (dry run)"
	}
	return boxStyle.Render(fmt.Sprintf("Done!%s\n\nFiles updated: %d", suffix, applied))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case runner.LevelError:
			style = errorStyle
			prefix = "x"
		case runner.LevelWarning:
			style = warningStyle
			prefix = "!"
		case runner.LevelSuccess:
			style = successStyle
			prefix = "+"
		case runner.LevelInfo:
			style = infoStyle
			prefix = ">"
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
	case StateInput:
		return "enter: resolve | d: dry run | b: backup | v: verbose | esc: quit"
	case StateResolving, StateApplying:
		return "esc: cancel"
	case StateReview:
		return "up/down: move | space: skip/keep | enter: apply | esc: back"
	case StateComplete, StateError:
		return "r: another album | q: quit"
	}
	return ""
}

func (m Model) runOptions() runner.Options {
	return runner.Options{
		Path:   m.textInput.Value(),
		Dry:    m.dry,
		Backup: m.backup,
	}
}

// resolve runs the read-only resolve phase in the background.
func (m Model) resolve() tea.Cmd {
	opts := m.runOptions()
	settings := m.settings
	progressCh := m.progressCh
	ctx := m.ctx
	return func() tea.Msg {
		r, err := runner.New(settings, func(event runner.ProgressEvent) {
			select {
			case progressCh <- event:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return ResolveDoneMsg{Err: err}
		}

		res, err := r.Resolve(opts)
		if err != nil {
			return ResolveDoneMsg{Err: err}
		}
		return ResolveDoneMsg{Runner: r, Resolution: res}
	}
}

// apply commits the reviewed resolution in the background.
func (m Model) apply() tea.Cmd {
	// Drop the proposals the user skipped before anything is written.
	for i, row := range m.rows {
		if !m.excluded[i] {
			continue
		}
		if rec, ok := m.resolution.Matches[row.file]; ok {
			rec.File = ""
			delete(m.resolution.Matches, row.file)
		}
	}

	r := m.runner
	res := m.resolution
	opts := m.runOptions()
	ctx := m.ctx
	return func() tea.Msg {
		return ApplyDoneMsg{Err: r.Apply(ctx, res, opts)}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
