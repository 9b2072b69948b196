package blackjack

import (
	"strings"

	"github.com/lox/twentyone/internal/deck"
)

const (
	// Target is the best possible total; anything above it busts.
	Target = 21

	// DealerStandsOn is the total at which the dealer stops drawing.
	// Soft totals count: the dealer stands on soft 17.
	DealerStandsOn = 17

	aceHigh = 11
	aceDrop = 10
)

// Hand is an ordered sequence of cards held by the player or the dealer
type Hand []deck.Card

// CardValue returns the blackjack value of a single card. Aces count 11
// here; reducing them to 1 is the job of HandTotal.
func CardValue(card deck.Card) int {
	switch {
	case card.IsAce():
		return aceHigh
	case card.IsFaceCard():
		return 10
	default:
		return int(card.Rank)
	}
}

// HandTotal returns the best total for the hand: the highest total not over
// 21 reachable by valuing each Ace as 11 or 1, or the lowest busting total
// when every valuation busts. It is recomputed from the cards on every call.
func HandTotal(hand Hand) int {
	total, _ := score(hand)
	return total
}

// score counts every Ace as 11 and then walks them back to 1 one at a time
// while the hand is over 21. soft reports whether an Ace is still at 11.
func score(hand Hand) (total int, soft bool) {
	aces := 0
	for _, card := range hand {
		total += CardValue(card)
		if card.IsAce() {
			aces++
		}
	}
	for total > Target && aces > 0 {
		total -= aceDrop
		aces--
	}
	return total, aces > 0
}

// Total returns HandTotal(h)
func (h Hand) Total() int {
	return HandTotal(h)
}

// IsSoft reports whether the total includes an Ace still valued at 11
func (h Hand) IsSoft() bool {
	_, soft := score(h)
	return soft
}

// IsBust reports whether the total exceeds 21
func (h Hand) IsBust() bool {
	return HandTotal(h) > Target
}

// IsBlackjack reports whether the hand is a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && HandTotal(h) == Target
}

// String renders the hand as space separated display tokens
func (h Hand) String() string {
	tokens := make([]string, len(h))
	for i, card := range h {
		tokens[i] = card.String()
	}
	return strings.Join(tokens, " ")
}

func (h Hand) clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
