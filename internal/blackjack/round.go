package blackjack

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/randutil"
)

// DeckFactory builds the deck for a new round
type DeckFactory func(rng *rand.Rand) *deck.Deck

// Option configures a Round
type Option func(*Round)

// WithRNG shuffles every round's deck with rng
func WithRNG(rng *rand.Rand) Option {
	return func(r *Round) { r.rng = rng }
}

// WithSeed shuffles from a deterministic generator derived from seed
func WithSeed(seed int64) Option {
	return func(r *Round) { r.rng = randutil.New(seed) }
}

// WithDeckFactory replaces the shuffled deck with one built by f
func WithDeckFactory(f DeckFactory) Option {
	return func(r *Round) { r.newDeck = f }
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *log.Logger) Option {
	return func(r *Round) { r.logger = logger }
}

// Round holds the state of one round of play
type Round struct {
	deck           *deck.Deck
	player         Hand
	dealer         Hand
	dealerRevealed bool
	phase          Phase

	rng     *rand.Rand
	newDeck DeckFactory
	logger  *log.Logger
}

// New creates a Round and starts a fresh round, ready to deal
func New(opts ...Option) *Round {
	r := &Round{
		newDeck: deck.NewDeck,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.rng == nil {
		r.rng = randutil.New(randutil.Entropy())
	}
	r.NewRound()
	return r
}

// NewRound discards the previous round: a freshly shuffled deck with the
// cursor at zero, both hands empty and the dealer's hole card hidden.
func (r *Round) NewRound() {
	r.deck = r.newDeck(r.rng)
	r.player = Hand{}
	r.dealer = Hand{}
	r.dealerRevealed = false
	r.phase = PhaseIdle
	r.logger.Debug("New round", "cards", r.deck.CardsRemaining())
}

// DealInitialCards deals two cards each in the order player, player,
// dealer, dealer. It must be called once per round, before any hit.
func (r *Round) DealInitialCards() error {
	r.phase = PhaseDealing
	for _, to := range []*Hand{&r.player, &r.player, &r.dealer, &r.dealer} {
		card, err := r.DrawCard()
		if err != nil {
			return fmt.Errorf("dealing initial cards: %w", err)
		}
		*to = append(*to, card)
	}
	r.phase = PhasePlayerTurn
	r.logger.Debug("Dealt initial cards", "player", r.player, "dealer", r.dealer)
	return nil
}

// DrawCard returns the next card of the deck
func (r *Round) DrawCard() (deck.Card, error) {
	card, err := r.deck.Draw()
	if err != nil {
		return deck.Card{}, fmt.Errorf("draw card %d: %w", r.deck.Dealt()+1, err)
	}
	return card, nil
}

// PlayerHit draws one card into the player's hand and returns it. Checking
// for a bust is left to the caller.
func (r *Round) PlayerHit() (deck.Card, error) {
	card, err := r.DrawCard()
	if err != nil {
		return deck.Card{}, fmt.Errorf("player hit: %w", err)
	}
	r.player = append(r.player, card)
	if r.player.IsBust() {
		r.phase = PhasePlayerBust
	}
	r.logger.Debug("Player hits", "card", card, "total", r.PlayerTotal())
	return card, nil
}

// PlayerTotal returns the best total of the player's hand
func (r *Round) PlayerTotal() int {
	return HandTotal(r.player)
}

// DealerTotal returns the best total of the dealer's hand, hole card
// included whether or not it has been revealed.
func (r *Round) DealerTotal() int {
	return HandTotal(r.dealer)
}

// RevealDealerCard turns the dealer's hole card face up for the rest of the
// round.
func (r *Round) RevealDealerCard() {
	r.dealerRevealed = true
	switch r.phase {
	case PhasePlayerTurn:
		r.phase = PhaseDealerTurn
	case PhasePlayerBust:
		r.phase = PhaseResolved
	}
	r.logger.Debug("Dealer reveals", "hole", r.holeCard())
}

// PlayDealerTurn draws for the dealer while the dealer's total is under 17
// and returns the dealer's final hand.
func (r *Round) PlayDealerTurn() (Hand, error) {
	for HandTotal(r.dealer) < DealerStandsOn {
		card, err := r.DrawCard()
		if err != nil {
			return r.dealer.clone(), fmt.Errorf("dealer turn: %w", err)
		}
		r.dealer = append(r.dealer, card)
		r.logger.Debug("Dealer draws", "card", card, "total", r.DealerTotal())
	}
	r.phase = PhaseResolved
	r.logger.Debug("Dealer stands", "total", r.DealerTotal(), "soft", r.dealer.IsSoft())
	return r.dealer.clone(), nil
}

// DecideWinner resolves the round from the current totals. It has no side
// effects and returns the same outcome until the hands change.
func (r *Round) DecideWinner() Outcome {
	return Decide(r.PlayerTotal(), r.DealerTotal())
}

// PlayerHand returns a copy of the player's cards
func (r *Round) PlayerHand() Hand {
	return r.player.clone()
}

// DealerHand returns a copy of the dealer's cards, hole card first. The
// caller decides whether to show it; see DealerRevealed.
func (r *Round) DealerHand() Hand {
	return r.dealer.clone()
}

// DealerRevealed reports whether the dealer's hole card has been turned up
func (r *Round) DealerRevealed() bool {
	return r.dealerRevealed
}

// Phase returns where the round is in its lifecycle
func (r *Round) Phase() Phase {
	return r.phase
}

// CardsRemaining returns the number of undealt cards
func (r *Round) CardsRemaining() int {
	return r.deck.CardsRemaining()
}

func (r *Round) holeCard() string {
	if len(r.dealer) == 0 {
		return ""
	}
	return r.dealer[0].String()
}
