// Package table runs one deck of Set: it keeps the face-up window, takes
// sets off it and deals replacements until no set can be found.
package table

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/setsim/internal/render"
	"github.com/lox/setsim/set"
)

// Rules controls how many cards are face up.
type Rules struct {
	DealSize int // Cards dealt at the start of every search
	Expand   int // Cards added when the table has no set
	MaxSize  int // Above this the table is compacted instead of refilled
}

// DefaultRules are the classic Set rules: 12 cards, growing by 3, refilled
// only while the table holds fewer than 15.
func DefaultRules() Rules {
	return Rules{DealSize: 12, Expand: 3, MaxSize: 15}
}

// Validate checks that the rules describe a playable table
func (r Rules) Validate() error {
	if r.DealSize <= 0 || r.DealSize%3 != 0 {
		return fmt.Errorf("deal size must be a positive multiple of 3, got %d", r.DealSize)
	}
	if r.Expand <= 0 || r.Expand%3 != 0 {
		return fmt.Errorf("expand must be a positive multiple of 3, got %d", r.Expand)
	}
	if r.MaxSize < r.DealSize {
		return fmt.Errorf("max size (%d) must be at least the deal size (%d)", r.MaxSize, r.DealSize)
	}
	if r.DealSize > set.DeckSize {
		return fmt.Errorf("deal size (%d) exceeds the deck (%d)", r.DealSize, set.DeckSize)
	}
	return nil
}

// Table holds one deck being played out. Slots[:out] are face up during a
// search, Slots[out:left] are undealt and slots from left on are out of play.
type Table struct {
	slots    []set.Slot
	left     int
	rules    Rules
	renderer render.Renderer
	logger   *log.Logger

	taken     int
	maxWindow int
}

// New creates a table over slots, which the table takes ownership of.
// Zero-value rules mean DefaultRules.
func New(slots []set.Slot, rules Rules, renderer render.Renderer, logger *log.Logger) *Table {
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if renderer == nil {
		renderer = render.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Table{
		slots:    slots,
		left:     len(slots),
		rules:    rules,
		renderer: renderer,
		logger:   logger,
	}
}

// Left returns the number of cards still in play, face up or undealt.
func (t *Table) Left() int {
	return t.left
}

// Taken returns how many sets have been removed.
func (t *Table) Taken() int {
	return t.taken
}

// MaxWindow returns the largest number of face-up cards seen.
func (t *Table) MaxWindow() int {
	return t.maxWindow
}

// CountSets returns the number of sets among the first out cards.
func (t *Table) CountSets(out int) int {
	return set.CountSets(t.slots[:min(out, t.left)])
}

// view snapshots the cards in play so renderers may keep the event.
func (t *Table) view(out int, showDeck bool) render.View {
	v := render.View{Out: out, Left: t.left, ShowDeck: showDeck}
	if _, discard := t.renderer.(render.Nop); !discard {
		v.Slots = slices.Clone(t.slots[:t.left])
	}
	return v
}

// grow returns how many cards to add when no set is visible.
func (t *Table) grow() int {
	if t.rules.Expand <= 0 {
		return DefaultRules().Expand
	}
	return t.rules.Expand
}

// Step takes one set off the table. It deals min(DealSize, Left) cards,
// growing the table by Expand while no set is visible and cards remain. It
// returns false once every remaining card is face up and none form a set.
func (t *Table) Step() bool {
	out := min(t.rules.DealSize, t.left)
	for {
		if out > t.rules.MaxSize {
			t.logger.Debug("Lots of cards out", "out", out, "left", t.left)
		}
		t.maxWindow = max(t.maxWindow, out)

		t.renderer.Event(render.Event{Kind: render.EventDeal, View: t.view(out, true)})
		t.renderer.Event(render.Event{Kind: render.EventCount, Sets: t.CountSets(out), View: t.view(out, true)})

		if i, j, k, ok := set.FindSet(t.slots[:out]); ok {
			t.take(out, i, j, k)
			return true
		}

		if out >= t.left {
			return false
		}
		t.renderer.Event(render.Event{Kind: render.EventNoSet, View: t.view(out, true)})
		out = min(out+t.grow(), t.left)
	}
}

func (t *Table) take(out, i, j, k int) {
	var triple [3]set.Card
	for n, idx := range [3]int{i, j, k} {
		triple[n], _ = t.slots[idx].Card()
		t.slots[idx] = set.Slot{}
	}
	t.renderer.Event(render.Event{Kind: render.EventTake, Triple: triple, View: t.view(out, false)})

	if t.left > out && out < t.rules.MaxSize {
		// Replacements come from the back of the cards in play.
		for n, idx := range [3]int{i, j, k} {
			src := t.left - 1 - n
			t.slots[idx] = t.slots[src]
			t.slots[src] = set.Slot{}
		}
	} else {
		Compact(t.slots[:t.left])
	}

	t.left -= 3
	t.taken++
	t.logger.Debug("Took set", "cards", triple, "left", t.left)
}

// Compact moves every card towards the front, filling empty slots with the
// next card to their right. Cards keep their relative order.
func Compact(slots []set.Slot) {
	next := 0
	for x := range slots {
		if !slots[x].Empty() {
			continue
		}
		next = max(next, x+1)
		for next < len(slots) && slots[next].Empty() {
			next++
		}
		if next >= len(slots) {
			return
		}
		slots[x] = slots[next]
		slots[next] = set.Slot{}
	}
}

// Play calls Step until no set is found and returns the number of cards left.
func (t *Table) Play() int {
	for t.Step() {
	}
	return t.left
}
