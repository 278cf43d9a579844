package render

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/setsim/set"
)

// minReportBuckets is how many histogram rows are always shown (0..18 left).
const minReportBuckets = 7

type formatter struct {
	styles   styles
	showDeck bool
}

func (f *formatter) card(s set.Slot) string {
	c, ok := s.Card()
	if !ok {
		return "     "
	}
	face := "(" + c.Symbols() + ")"
	idx := c.Color.Index()
	if idx < 0 {
		return face
	}
	return f.styles.cards[idx].Render(face)
}

func (f *formatter) cards(cards []set.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(f.card(set.Filled(c)))
	}
	return b.String()
}

func (f *formatter) table(v View) string {
	var b strings.Builder
	b.WriteString(f.styles.header.Render("Table:"))
	b.WriteString("\n")
	for row := 0; row+3 <= v.Out && row+3 <= len(v.Slots); row += 3 {
		for _, s := range v.Slots[row : row+3] {
			b.WriteString(f.card(s))
		}
		b.WriteString("\n")
	}
	if !v.ShowDeck || !f.showDeck {
		return b.String()
	}
	b.WriteString(f.styles.rule.Render("-------------"))
	b.WriteString("\nDeck: ")
	for i := v.Out; i < v.Left && i < len(v.Slots); i++ {
		b.WriteString(f.card(v.Slots[i]))
	}
	b.WriteString("\n")
	b.WriteString(f.styles.rule.Render("============="))
	b.WriteString("\n")
	return b.String()
}

// event returns the text for ev, always ending in a newline.
func (f *formatter) event(ev Event) string {
	switch ev.Kind {
	case EventDeal:
		return f.table(ev.View)
	case EventCount:
		return fmt.Sprintf("Found %d sets\n", ev.Sets)
	case EventTake:
		var b strings.Builder
		b.WriteString("Retrieving set:")
		b.WriteString(f.cards(ev.Triple[:]))
		b.WriteString("\n")
		b.WriteString(f.styles.rule.Render("-=-=-="))
		b.WriteString("\n")
		b.WriteString(f.table(ev.View))
		b.WriteString(f.styles.rule.Render("=-=-=-"))
		b.WriteString("\n")
		return b.String()
	case EventNoSet:
		return "No set.\n"
	case EventTrialDone:
		return fmt.Sprintf("Remaining cards: [%d]\n", ev.Leftover)
	}
	return ""
}

// histogram returns one "(leftover:percent)" row per bucket.
func (f *formatter) histogram(r Report) string {
	var b strings.Builder
	if r.Stats == nil {
		return ""
	}
	rows := max(minReportBuckets, r.Stats.HighestBucket()+1)
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "(%s:%s)\n",
			f.styles.bucket.Render(fmt.Sprintf("%d", i*3)),
			f.styles.percent.Render(fmt.Sprintf("%2.2f", r.Stats.Percent(i))))
	}
	return b.String()
}

func (f *formatter) summary(r Report) string {
	var b strings.Builder
	s := r.Stats
	if s == nil {
		return ""
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(w, "%s\t%.3f\n", f.styles.header.Render("mean left"), s.Mean())
	fmt.Fprintf(w, "%s\t%.3f\n", f.styles.header.Render("std dev"), s.StdDev())
	fmt.Fprintf(w, "%s\t[%.3f, %.3f]\n", f.styles.header.Render("95% CI"), low, high)
	fmt.Fprintf(w, "%s\t%d\n", f.styles.header.Render("median"), s.Median())
	fmt.Fprintf(w, "%s\t%d\n", f.styles.header.Render("largest table"), s.MaxWindow)
	w.Flush()

	if s.DuplicateDecks > 0 {
		b.WriteString(f.styles.warning.Render(fmt.Sprintf("%d decks had duplicate cards", s.DuplicateDecks)))
		b.WriteString("\n")
	}
	if r.Cancelled {
		b.WriteString(f.styles.warning.Render("run cancelled, results are partial"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n", f.styles.info.Render(
		fmt.Sprintf("%d iterations in %v (seed: %d)", s.Trials, r.Elapsed.Truncate(time.Millisecond), r.Seed)))
	return b.String()
}

func (f *formatter) report(r Report) string {
	return "\n\n" + f.histogram(r) + "\n" + f.summary(r)
}
