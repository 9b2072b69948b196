package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// ErrDeckExhausted is returned when drawing from a deck with no cards left.
// Under normal play a round never gets close, so seeing it means the caller
// broke the dealing contract.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a standard 52-card deck. Cards are never removed; a cursor marks
// the next card to deal.
type Deck struct {
	cards [Size]Card
	next  int
}

// Canonical returns the 52 cards in rank-major, suit-minor order
// (A♠ A♥ A♦ A♣ 2♠ ... K♣).
func Canonical() [Size]Card {
	var cards [Size]Card
	i := 0
	for rank := Ace; rank <= King; rank++ {
		for _, suit := range Suits {
			cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return cards
}

// NewDeck creates a canonical deck and shuffles it with rng
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: Canonical()}
	d.Shuffle(rng)
	return d
}

// NewStackedDeck returns a deck whose first cards are top, in order, followed
// by the remaining cards in canonical order. Useful for scripting rounds.
func NewStackedDeck(top ...Card) (*Deck, error) {
	if len(top) > Size {
		return nil, fmt.Errorf("stacked deck: %d cards exceeds %d", len(top), Size)
	}
	seen := make(map[Card]bool, len(top))
	d := &Deck{}
	for i, c := range top {
		if !c.Rank.Valid() || c.Suit < Spades || c.Suit > Clubs {
			return nil, fmt.Errorf("stacked deck: invalid card at position %d", i)
		}
		if seen[c] {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		seen[c] = true
		d.cards[i] = c
	}
	i := len(top)
	for _, c := range Canonical() {
		if !seen[c] {
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

// Shuffle resets the cursor and applies a Fisher-Yates shuffle. A nil rng
// falls back to the process-wide source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw returns the card at the cursor and advances it
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[d.next]
	d.next++
	return card, nil
}

// Cards returns a copy of the full deck order, dealt cards included
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards[:])
	return out
}

// Dealt returns how many cards have been drawn
func (d *Deck) Dealt() int {
	return d.next
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
