// Package blackjack implements the round engine for single-player "21"
// against a dealer.
//
// The main type is Round, which owns a shuffled deck, the player and dealer
// hands and the flag recording whether the dealer's hole card has been
// revealed. A round is played by calling its operations in order:
//
//	r := blackjack.New()
//	if err := r.DealInitialCards(); err != nil {
//	    return err
//	}
//	card, err := r.PlayerHit()
//	if r.PlayerTotal() > blackjack.Target {
//	    // player bust, round is over
//	}
//	r.RevealDealerCard()
//	_, err = r.PlayDealerTurn()
//	outcome := r.DecideWinner()
//
// Round does not validate the call order; sequencing is the caller's job
// (see package game for a driver that does). Busts and pushes are ordinary
// outcomes returned as values. The only error the engine produces is
// deck.ErrDeckExhausted, which signals a broken dealing contract.
//
// # Deterministic Testing
//
// Rounds shuffle from process entropy by default. Pass WithSeed or WithRNG
// for reproducible decks, or WithDeckFactory to script the exact card order:
//
//	r := blackjack.New(blackjack.WithDeckFactory(func(*rand.Rand) *deck.Deck {
//	    d, _ := deck.NewStackedDeck(deck.MustParseCards("A♠ K♥ 9♦ 7♣")...)
//	    return d
//	}))
//
// A Round is not safe for concurrent use.
package blackjack
