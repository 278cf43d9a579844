package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxLogLines bounds the scrollback kept in the log viewport.
const maxLogLines = 2000

type (
	lineMsg   string
	reportMsg string
	trialMsg  struct{ trial, leftover int }
	doneMsg   struct{}
)

// TUIOptions configures the full-screen renderer
type TUIOptions struct {
	Output   io.Writer
	Input    io.Reader // nil means stdin
	Total    int       // Expected number of trials, shown in the header
	Trace    bool
	ShowDeck bool
	OnQuit   func() // Called when the user quits before the run ends
}

// TUI renders the simulation with Bubble Tea: a scrolling log of table
// events, a progress header and the final histogram.
type TUI struct {
	program *tea.Program
	format  formatter
	trace   bool
	done    chan struct{}
	err     error
}

// NewTUI starts the Bubble Tea program. Close must be called to stop it.
func NewTUI(opts TUIOptions) *TUI {
	st := newStyles(lipgloss.NewRenderer(opts.Output))
	model := newTUIModel(st, opts.Total, opts.OnQuit)

	progOpts := []tea.ProgramOption{tea.WithOutput(opts.Output)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	t := &TUI{
		program: tea.NewProgram(model, progOpts...),
		format:  formatter{styles: st, showDeck: opts.ShowDeck},
		trace:   opts.Trace,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		_, t.err = t.program.Run()
	}()
	return t
}

func (t *TUI) Event(ev Event) {
	if ev.Kind == EventTrialDone {
		t.program.Send(trialMsg{trial: ev.Trial, leftover: ev.Leftover})
	}
	if t.trace {
		t.program.Send(lineMsg(t.format.event(ev)))
	}
}

func (t *TUI) Report(r Report) {
	t.program.Send(reportMsg(t.format.report(r)))
}

// Close asks the program to exit and waits for it.
func (t *TUI) Close() error {
	t.program.Send(doneMsg{})
	<-t.done
	if t.err != nil {
		return fmt.Errorf("tui: %w", t.err)
	}
	return nil
}

// tuiModel is the Bubble Tea model behind TUI
type tuiModel struct {
	styles      styles
	logViewport viewport.Model
	lines       []string
	report      string

	total        int
	trials       int
	lastLeftover int

	width    int
	height   int
	quitting bool
	onQuit   func()
}

func newTUIModel(st styles, total int, onQuit func()) *tuiModel {
	// Properly sized when WindowSizeMsg arrives
	vp := viewport.New(80, 20)
	vp.SetContent("")
	return &tuiModel{
		styles:      st,
		logViewport: vp,
		total:       total,
		onQuit:      onQuit,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if !m.quitting && m.onQuit != nil {
				m.onQuit()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case lineMsg:
		m.appendLog(string(msg))

	case trialMsg:
		m.trials = msg.trial
		m.lastLeftover = msg.leftover

	case reportMsg:
		m.report = string(msg)
		m.resize()

	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *tuiModel) appendLog(text string) {
	m.lines = append(m.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	if over := len(m.lines) - maxLogLines; over > 0 {
		m.lines = m.lines[over:]
	}
	m.logViewport.SetContent(strings.Join(m.lines, "\n"))
	m.logViewport.GotoBottom()
}

func (m *tuiModel) resize() {
	if m.width == 0 {
		return
	}
	reportHeight := lipgloss.Height(m.report)
	m.logViewport.Width = m.width
	m.logViewport.Height = max(3, m.height-reportHeight-2)
}

func (m *tuiModel) header() string {
	progress := fmt.Sprintf("trial %d", m.trials)
	if m.total > 0 {
		progress = fmt.Sprintf("trial %d/%d", m.trials, m.total)
	}
	if m.trials > 0 {
		progress += fmt.Sprintf("  last: %d left", m.lastLeftover)
	}
	return m.styles.header.Render("Set simulation") + "  " + m.styles.info.Render(progress)
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	if len(m.lines) > 0 {
		b.WriteString(m.logViewport.View())
		b.WriteString("\n")
	}
	b.WriteString(m.report)
	return b.String()
}
