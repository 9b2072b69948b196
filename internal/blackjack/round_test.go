package blackjack

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/deck"
)

// stacked returns an option dealing the given cards first, in order
func stacked(t *testing.T, cards string) Option {
	t.Helper()
	top := deck.MustParseCards(cards)
	return WithDeckFactory(func(*rand.Rand) *deck.Deck {
		d, err := deck.NewStackedDeck(top...)
		require.NoError(t, err)
		return d
	})
}

func TestNewRoundResetsState(t *testing.T) {
	r := New(WithSeed(1))
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.Empty(t, r.PlayerHand())
	assert.Empty(t, r.DealerHand())
	assert.False(t, r.DealerRevealed())
	assert.Equal(t, deck.Size, r.CardsRemaining())

	require.NoError(t, r.DealInitialCards())
	_, err := r.PlayerHit()
	require.NoError(t, err)
	r.RevealDealerCard()

	r.NewRound()
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.Empty(t, r.PlayerHand())
	assert.Empty(t, r.DealerHand())
	assert.False(t, r.DealerRevealed())
	assert.Equal(t, deck.Size, r.CardsRemaining())
}

func TestDealOrder(t *testing.T) {
	r := New(stacked(t, "2♠ 3♠ 4♠ 5♠"))
	require.NoError(t, r.DealInitialCards())

	assert.Equal(t, hand("2♠ 3♠"), r.PlayerHand())
	assert.Equal(t, hand("4♠ 5♠"), r.DealerHand())
	assert.Equal(t, PhasePlayerTurn, r.Phase())
	assert.Equal(t, deck.Size-4, r.CardsRemaining())
}

func TestDrawCardExhaustion(t *testing.T) {
	r := New(WithSeed(5))
	seen := make(map[deck.Card]bool)
	for i := 0; i < deck.Size; i++ {
		card, err := r.DrawCard()
		require.NoError(t, err)
		require.False(t, seen[card], "duplicate %s", card)
		seen[card] = true
	}
	_, err := r.DrawCard()
	assert.ErrorIs(t, err, deck.ErrDeckExhausted)
}

func TestPlayerHitReturnsDrawnCard(t *testing.T) {
	r := New(stacked(t, "2♠ 3♠ 4♠ 5♠ 9♥"))
	require.NoError(t, r.DealInitialCards())

	card, err := r.PlayerHit()
	require.NoError(t, err)
	assert.Equal(t, hand("9♥")[0], card)
	assert.Equal(t, hand("2♠ 3♠ 9♥"), r.PlayerHand())
	assert.Equal(t, 14, r.PlayerTotal())
	assert.Equal(t, PhasePlayerTurn, r.Phase())
}

func TestPlayerBustEndsRound(t *testing.T) {
	r := New(stacked(t, "K♠ Q♠ 4♠ 5♠ 2♥"))
	require.NoError(t, r.DealInitialCards())

	_, err := r.PlayerHit()
	require.NoError(t, err)
	assert.Equal(t, 22, r.PlayerTotal())
	assert.Equal(t, PhasePlayerBust, r.Phase())
	assert.True(t, r.Phase().Done())

	r.RevealDealerCard()
	assert.Equal(t, PhaseResolved, r.Phase())
	assert.Equal(t, PlayerBusts, r.DecideWinner())
}

func TestRevealIsIrreversibleUntilNewRound(t *testing.T) {
	r := New(WithSeed(3))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()
	assert.True(t, r.DealerRevealed())
	assert.Equal(t, PhaseDealerTurn, r.Phase())

	r.RevealDealerCard()
	assert.True(t, r.DealerRevealed())

	r.NewRound()
	assert.False(t, r.DealerRevealed())
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	// dealer: 2♠ 3♠ = 5, then 4♥ 5♥ = 14, then 3♥ = 17
	r := New(stacked(t, "K♦ Q♦ 2♠ 3♠ 4♥ 5♥ 3♥ K♣"))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()

	final, err := r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, hand("2♠ 3♠ 4♥ 5♥ 3♥"), final)
	assert.Equal(t, 17, r.DealerTotal())
	assert.Equal(t, PhaseResolved, r.Phase())
	assert.Equal(t, PlayerWins, r.DecideWinner())
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	r := New(stacked(t, "K♦ 7♦ A♠ 6♠ 5♥"))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()

	final, err := r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, hand("A♠ 6♠"), final)
	assert.True(t, final.IsSoft())
	assert.Equal(t, 17, r.DealerTotal())
	assert.Equal(t, Push, r.DecideWinner())
}

func TestDealerBusts(t *testing.T) {
	r := New(stacked(t, "K♦ 8♦ K♠ 6♠ Q♥"))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()

	_, err := r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, 26, r.DealerTotal())
	assert.Equal(t, DealerBusts, r.DecideWinner())
}

func TestDealerAlreadyStanding(t *testing.T) {
	r := New(stacked(t, "9♦ 7♦ K♠ 7♠"))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()

	final, err := r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Len(t, final, 2)
	assert.Equal(t, DealerWins, r.DecideWinner())
}

func TestDealerPolicyAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 500; seed++ {
		r := New(WithSeed(seed))
		require.NoError(t, r.DealInitialCards())
		r.RevealDealerCard()
		final, err := r.PlayDealerTurn()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, HandTotal(final), DealerStandsOn, "seed %d", seed)
		if len(final) > 2 {
			// only the last draw may take the dealer to 17 or beyond
			assert.Less(t, HandTotal(final[:len(final)-1]), DealerStandsOn, "seed %d", seed)
		}
	}
}

func TestDecideWinnerIsIdempotent(t *testing.T) {
	r := New(WithSeed(11))
	require.NoError(t, r.DealInitialCards())
	r.RevealDealerCard()
	_, err := r.PlayDealerTurn()
	require.NoError(t, err)

	first := r.DecideWinner()
	assert.NotEqual(t, NoOutcome, first)
	assert.Equal(t, first, r.DecideWinner())
	assert.Equal(t, first, r.DecideWinner())
}

func TestHandAccessorsReturnCopies(t *testing.T) {
	r := New(stacked(t, "2♠ 3♠ 4♠ 5♠"))
	require.NoError(t, r.DealInitialCards())

	h := r.PlayerHand()
	h[0] = hand("A♥")[0]
	assert.Equal(t, hand("2♠ 3♠"), r.PlayerHand())
}

func TestSeededRoundsReplay(t *testing.T) {
	a := New(WithSeed(2024))
	b := New(WithSeed(2024))
	require.NoError(t, a.DealInitialCards())
	require.NoError(t, b.DealInitialCards())
	assert.Equal(t, a.PlayerHand(), b.PlayerHand())
	assert.Equal(t, a.DealerHand(), b.DealerHand())
}
