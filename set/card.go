// Package set models the cards of the game Set and the rule that decides
// whether three of them form a set.
package set

import (
	"fmt"
	"strings"
)

// Attr is a one-hot attribute value: 1, 2 or 4. Zero means no value.
type Attr uint8

// The three values every attribute can take.
const (
	First  Attr = 1 << iota // 1
	Second                  // 2
	Third                   // 4
)

// allValues is the OR of the three attribute values.
const allValues = First | Second | Third

// Valid reports whether a holds exactly one of the three values.
func (a Attr) Valid() bool {
	return a == First || a == Second || a == Third
}

// Index returns 0, 1 or 2 for a valid value and -1 otherwise.
func (a Attr) Index() int {
	switch a {
	case First:
		return 0
	case Second:
		return 1
	case Third:
		return 2
	}
	return -1
}

// Card is one card of the deck. Each attribute is stored one-hot so the
// set rule reduces to bitwise AND/OR.
type Card struct {
	Color   Attr
	Number  Attr
	Shape   Attr
	Filling Attr
}

// NewCard creates a card from attribute indices in the range 0..2.
func NewCard(color, number, shape, filling int) Card {
	return Card{
		Color:   Attr(1) << color,
		Number:  Attr(1) << number,
		Shape:   Attr(1) << shape,
		Filling: Attr(1) << filling,
	}
}

// Valid reports whether every attribute holds exactly one value.
func (c Card) Valid() bool {
	return c.Color.Valid() && c.Number.Valid() && c.Shape.Valid() && c.Filling.Valid()
}

// Count returns how many symbols are printed on the card (1..3).
func (c Card) Count() int {
	return c.Number.Index() + 1
}

var (
	colorNames   = [3]string{"red", "green", "purple"}
	shapeNames   = [3]string{"oval", "square", "triangle"}
	fillingNames = [3]string{"open", "striped", "solid"}

	// glyphs is indexed by shape, then filling
	glyphs = [3][3]string{
		{"○", "◍", "●"},
		{"▢", "▥", "▩"},
		{"△", "◬", "▲"},
	}
)

// String returns a compact description such as "2 green striped oval".
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid(%d,%d,%d,%d)", c.Color, c.Number, c.Shape, c.Filling)
	}
	return fmt.Sprintf("%d %s %s %s",
		c.Count(),
		colorNames[c.Color.Index()],
		fillingNames[c.Filling.Index()],
		shapeNames[c.Shape.Index()])
}

// Glyph returns the symbol for the card's shape and filling.
func (c Card) Glyph() string {
	s, f := c.Shape.Index(), c.Filling.Index()
	if s < 0 || f < 0 {
		return "?"
	}
	return glyphs[s][f]
}

// Symbols returns the card face: its glyph repeated Count times and padded
// to three columns, e.g. "◍◍ ".
func (c Card) Symbols() string {
	n := c.Count()
	if n < 1 {
		return "   "
	}
	return strings.Repeat(c.Glyph(), n) + strings.Repeat(" ", 3-n)
}

// Slot is a table position that either holds a card or is empty.
type Slot struct {
	card    Card
	present bool
}

// Filled returns a slot holding c.
func Filled(c Card) Slot {
	return Slot{card: c, present: true}
}

// Card returns the card in the slot and whether there is one.
func (s Slot) Card() (Card, bool) {
	return s.card, s.present
}

// Empty reports whether the slot holds no card.
func (s Slot) Empty() bool {
	return !s.present
}
