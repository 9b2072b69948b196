package game

import (
	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/deck"
)

// CardView is a card as the player may see it
type CardView struct {
	Card   deck.Card
	Hidden bool
}

// String returns the display token, or "??" for a face-down card
func (c CardView) String() string {
	if c.Hidden {
		return "??"
	}
	return c.Card.String()
}

// RoundView is a read-only snapshot of a round for rendering. The dealer's
// hole card is masked and DealerTotal counts only face-up cards until the
// dealer reveals.
type RoundView struct {
	RoundID     string
	RoundNumber int
	Phase       blackjack.Phase

	PlayerCards     []deck.Card
	PlayerTotal     int
	PlayerSoft      bool
	PlayerBlackjack bool

	DealerCards    []CardView
	DealerTotal    int
	DealerRevealed bool

	Outcome        blackjack.Outcome
	CardsRemaining int
}

// CanDeal reports whether a new round may start
func (v RoundView) CanDeal() bool {
	return v.Phase == blackjack.PhaseIdle || v.Phase.Done()
}

// CanAct reports whether the player may hit or stand
func (v RoundView) CanAct() bool {
	return v.Phase == blackjack.PhasePlayerTurn
}

// Resolved reports whether the round has an outcome
func (v RoundView) Resolved() bool {
	return v.Outcome != blackjack.NoOutcome
}

func newRoundView(r *blackjack.Round) RoundView {
	player := r.PlayerHand()
	dealer := r.DealerHand()
	revealed := r.DealerRevealed()

	cards := make([]CardView, len(dealer))
	for i, c := range dealer {
		cards[i] = CardView{Card: c, Hidden: i == 0 && !revealed}
	}

	dealerTotal := blackjack.HandTotal(dealer)
	if !revealed && len(dealer) > 0 {
		dealerTotal = blackjack.HandTotal(dealer[1:])
	}

	return RoundView{
		Phase:           r.Phase(),
		PlayerCards:     player,
		PlayerTotal:     player.Total(),
		PlayerSoft:      player.IsSoft(),
		PlayerBlackjack: player.IsBlackjack(),
		DealerCards:     cards,
		DealerTotal:     dealerTotal,
		DealerRevealed:  revealed,
		CardsRemaining:  r.CardsRemaining(),
	}
}
