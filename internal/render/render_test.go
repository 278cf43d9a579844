package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/setsim/internal/statistics"
	"github.com/lox/setsim/set"
)

func testView(showDeck bool) View {
	slots := []set.Slot{
		set.Filled(set.NewCard(0, 0, 0, 0)),
		{},
		set.Filled(set.NewCard(1, 1, 1, 1)),
		set.Filled(set.NewCard(2, 2, 2, 2)),
	}
	return View{Slots: slots, Out: 3, Left: 4, ShowDeck: showDeck}
}

func TestTerminalTraceTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, TerminalOptions{Trace: true, ShowDeck: true})

	r.Event(Event{Kind: EventDeal, View: testView(true)})
	out := buf.String()

	assert.Contains(t, out, "Table:\n(○  )     (▥▥ )\n")
	assert.Contains(t, out, "Deck: (▲▲▲)\n")
	assert.NotContains(t, out, "\x1b[", "plain output should carry no escape codes")
}

func TestTerminalHidesDeckStrip(t *testing.T) {
	tests := []struct {
		name     string
		optDeck  bool
		viewDeck bool
		want     bool
	}{
		{"both on", true, true, true},
		{"option off", false, true, false},
		{"view off", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewTerminal(&buf, TerminalOptions{Trace: true, ShowDeck: tt.optDeck})
			r.Event(Event{Kind: EventDeal, View: testView(tt.viewDeck)})
			assert.Equal(t, tt.want, strings.Contains(buf.String(), "Deck:"))
		})
	}
}

func TestTerminalEvents(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, TerminalOptions{Trace: true})

	r.Event(Event{Kind: EventCount, Sets: 4})
	r.Event(Event{Kind: EventNoSet})
	r.Event(Event{
		Kind:   EventTake,
		Triple: [3]set.Card{set.NewCard(0, 0, 0, 0), set.NewCard(0, 0, 0, 1), set.NewCard(0, 0, 0, 2)},
		View:   testView(false),
	})
	r.Event(Event{Kind: EventTrialDone, Trial: 1, Leftover: 9})

	out := buf.String()
	assert.Contains(t, out, "Found 4 sets\n")
	assert.Contains(t, out, "No set.\n")
	assert.Contains(t, out, "Retrieving set:(○  )(◍  )(●  )\n")
	assert.Contains(t, out, "Remaining cards: [9]\n")
}

func TestTerminalQuietWithoutTrace(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, TerminalOptions{})
	r.Event(Event{Kind: EventDeal, View: testView(true)})
	r.Event(Event{Kind: EventTrialDone, Leftover: 3})
	assert.Empty(t, buf.String())
}

func TestTerminalReport(t *testing.T) {
	stats := &statistics.Statistics{}
	require.NoError(t, stats.Add(statistics.TrialResult{Leftover: 0, MaxWindow: 15}))
	require.NoError(t, stats.Add(statistics.TrialResult{Leftover: 6, MaxWindow: 12}))
	require.NoError(t, stats.Add(statistics.TrialResult{Leftover: 6, MaxWindow: 12}))
	require.NoError(t, stats.Add(statistics.TrialResult{Leftover: 24, MaxWindow: 18}))

	var buf bytes.Buffer
	r := NewTerminal(&buf, TerminalOptions{})
	r.Report(Report{Stats: stats, Seed: 42, Elapsed: 1500 * time.Millisecond})
	out := buf.String()

	assert.Contains(t, out, "(0:25.00)\n")
	assert.Contains(t, out, "(3:0.00)\n")
	assert.Contains(t, out, "(6:50.00)\n")
	assert.Contains(t, out, "(18:0.00)\n")
	assert.Contains(t, out, "(24:25.00)\n", "rows extend to the highest non-empty bucket")
	assert.NotContains(t, out, "(27:")
	assert.Contains(t, out, "4 iterations in 1.5s (seed: 42)")
	assert.NotContains(t, out, "duplicate")
}

func TestTerminalReportWarnings(t *testing.T) {
	stats := &statistics.Statistics{}
	require.NoError(t, stats.Add(statistics.TrialResult{Leftover: 3, Duplicates: 1}))

	var buf bytes.Buffer
	NewTerminal(&buf, TerminalOptions{}).Report(Report{Stats: stats, Cancelled: true})
	out := buf.String()
	assert.Contains(t, out, "1 decks had duplicate cards")
	assert.Contains(t, out, "run cancelled")
	assert.Contains(t, out, "(18:0.00)\n", "at least seven rows are printed")
}

func TestNop(t *testing.T) {
	var r Renderer = Nop{}
	r.Event(Event{Kind: EventDeal})
	r.Report(Report{})
	assert.NoError(t, r.Close())
}

func TestTUIModel(t *testing.T) {
	quit := 0
	m := newTUIModel(newStyles(newLipglossRenderer(&bytes.Buffer{}, false)), 10, func() { quit++ })

	_, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Equal(t, 60, m.logViewport.Width)

	_, _ = m.Update(lineMsg("Found 2 sets\nNo set.\n"))
	assert.Equal(t, []string{"Found 2 sets", "No set."}, m.lines)

	_, _ = m.Update(trialMsg{trial: 3, leftover: 6})
	assert.Contains(t, m.View(), "trial 3/10  last: 6 left")
	assert.Contains(t, m.View(), "No set.")

	_, _ = m.Update(reportMsg("(0:50.00)\n"))
	assert.Contains(t, m.View(), "(0:50.00)")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, 1, quit)

	// Quitting twice does not cancel twice
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, quit)
}

func TestTUIModelDone(t *testing.T) {
	m := newTUIModel(newStyles(newLipglossRenderer(&bytes.Buffer{}, false)), 0, nil)
	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Contains(t, m.View(), "trial 0")
}

func TestTUIModelBoundsLog(t *testing.T) {
	m := newTUIModel(newStyles(newLipglossRenderer(&bytes.Buffer{}, false)), 0, nil)
	for i := 0; i < maxLogLines+10; i++ {
		m.appendLog("line\n")
	}
	assert.Len(t, m.lines, maxLogLines)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "deal", EventDeal.String())
	assert.Equal(t, "trial-done", EventTrialDone.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
