package set

import (
	"math/rand"
)

// DeckSize is the number of distinct cards: three values for each of four
// attributes.
const DeckSize = 81

// Deck represents the full 81-card Set deck
type Deck struct {
	cards [DeckSize]Card
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a filled deck shuffled with rng
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Fill()
	d.Shuffle()
	return d
}

// Fill resets the deck to its canonical order, one card per combination of
// attribute values.
func (d *Deck) Fill() {
	for i := range d.cards {
		d.cards[i] = NewCard(i%3, i/3%3, i/9%3, i/27%3)
	}
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Cards returns a copy of the deck in its current order.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards[:])
	return cards
}

// Slots returns the deck as filled table slots.
func (d *Deck) Slots() []Slot {
	slots := make([]Slot, len(d.cards))
	for i, c := range d.cards {
		slots[i] = Filled(c)
	}
	return slots
}

// Duplicates returns every card that appears more than once in the deck.
// A correctly generated deck never has any.
func (d *Deck) Duplicates() []Card {
	var dupes []Card
	for i := 0; i < len(d.cards)-1; i++ {
		for j := i + 1; j < len(d.cards); j++ {
			if d.cards[i] == d.cards[j] {
				dupes = append(dupes, d.cards[i])
			}
		}
	}
	return dupes
}
