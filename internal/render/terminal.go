package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TerminalOptions controls what the terminal renderer prints
type TerminalOptions struct {
	Color    bool // Colour cards by their colour attribute
	Trace    bool // Print every table event, not just the final report
	ShowDeck bool // Print the undealt deck strip under the table
}

// Terminal writes styled text to an io.Writer.
type Terminal struct {
	w      io.Writer
	opts   TerminalOptions
	format formatter
}

// NewTerminal creates a terminal renderer writing to w
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	return &Terminal{
		w:    w,
		opts: opts,
		format: formatter{
			styles:   newStyles(newLipglossRenderer(w, opts.Color)),
			showDeck: opts.ShowDeck,
		},
	}
}

func newLipglossRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	profile := termenv.Ascii
	if color && !termenv.EnvNoColor() {
		profile = termenv.ANSI256
	}
	return lipgloss.NewRenderer(w, termenv.WithProfile(profile))
}

// Event prints ev when tracing.
func (t *Terminal) Event(ev Event) {
	if !t.opts.Trace {
		return
	}
	_, _ = io.WriteString(t.w, t.format.event(ev))
}

// Report prints the histogram and summary.
func (t *Terminal) Report(r Report) {
	_, _ = io.WriteString(t.w, t.format.report(r))
}

// Close is a no-op; the writer is owned by the caller.
func (t *Terminal) Close() error {
	return nil
}
