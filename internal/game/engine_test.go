package game

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/deck"
)

// eventRecorder captures published events
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// newTestEngine returns an engine whose every round deals cards in order
func newTestEngine(t *testing.T, cards string, opts ...EngineOption) (*Engine, *eventRecorder) {
	t.Helper()
	top := deck.MustParseCards(cards)
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	opts = append([]EngineOption{
		WithSeed(42),
		WithEventBus(bus),
		WithRoundOptions(blackjack.WithDeckFactory(func(*rand.Rand) *deck.Deck {
			d, err := deck.NewStackedDeck(top...)
			require.NoError(t, err)
			return d
		})),
	}, opts...)
	return NewEngine(opts...), rec
}

func TestEngineStartRound(t *testing.T) {
	e, rec := newTestEngine(t, "10♠ 6♥ K♦ 7♣")

	view, err := e.StartRound()
	require.NoError(t, err)

	assert.Equal(t, 1, view.RoundNumber)
	assert.NotEmpty(t, view.RoundID)
	assert.Equal(t, blackjack.PhasePlayerTurn, view.Phase)
	assert.Equal(t, deck.MustParseCards("10♠ 6♥"), view.PlayerCards)
	assert.Equal(t, 16, view.PlayerTotal)
	assert.True(t, view.CanAct())
	assert.False(t, view.CanDeal())

	require.Len(t, view.DealerCards, 2)
	assert.True(t, view.DealerCards[0].Hidden)
	assert.Equal(t, "??", view.DealerCards[0].String())
	assert.False(t, view.DealerCards[1].Hidden)
	assert.Equal(t, 7, view.DealerTotal, "only the up-card counts while hidden")

	assert.Equal(t, []EventType{
		EventTypeRoundStart,
		EventTypeCardDealt, EventTypeCardDealt,
		EventTypeCardDealt, EventTypeCardDealt,
	}, rec.types())
	hole := rec.events[3].(CardDealtEvent)
	assert.Equal(t, Dealer, hole.Seat)
	assert.True(t, hole.Hidden)
	assert.Equal(t, 0, hole.Total)
}

func TestEngineRejectsOutOfSequence(t *testing.T) {
	e, _ := newTestEngine(t, "10♠ 6♥ K♦ 7♣")

	_, _, err := e.Hit()
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = e.Stand()
	assert.ErrorIs(t, err, ErrInvalidPhase)

	_, err = e.StartRound()
	require.NoError(t, err)
	_, err = e.StartRound()
	assert.ErrorIs(t, err, ErrInvalidPhase, "cannot redeal mid-round")

	_, err = e.Stand()
	require.NoError(t, err)
	_, err = e.Stand()
	assert.ErrorIs(t, err, ErrInvalidPhase, "cannot stand twice")
	_, _, err = e.Hit()
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestEngineHitBustResolvesImmediately(t *testing.T) {
	e, rec := newTestEngine(t, "10♠ 6♥ K♦ 5♣ 9♥")
	_, err := e.StartRound()
	require.NoError(t, err)

	card, view, err := e.Hit()
	require.NoError(t, err)
	assert.Equal(t, deck.MustParseCards("9♥")[0], card)
	assert.Equal(t, 25, view.PlayerTotal)
	assert.Equal(t, blackjack.PlayerBusts, view.Outcome)
	assert.True(t, view.DealerRevealed)
	assert.False(t, view.DealerCards[0].Hidden)
	assert.Len(t, view.DealerCards, 2, "dealer does not draw after a player bust")
	assert.Equal(t, 15, view.DealerTotal)
	assert.True(t, view.CanDeal())

	assert.Equal(t, EventTypeRoundEnd, rec.events[len(rec.events)-1].EventType())
	stats := e.Stats()
	assert.Equal(t, 1, stats.Count(blackjack.PlayerBusts))
}

func TestEngineStand(t *testing.T) {
	// player 18, dealer 5♠ 6♣ then draws K♥ = 21
	e, rec := newTestEngine(t, "10♠ 8♥ 5♠ 6♣ K♥")
	_, err := e.StartRound()
	require.NoError(t, err)

	view, err := e.Stand()
	require.NoError(t, err)
	assert.Equal(t, blackjack.PhaseResolved, view.Phase)
	assert.Equal(t, blackjack.DealerWins, view.Outcome)
	assert.Equal(t, 21, view.DealerTotal)
	assert.Len(t, view.DealerCards, 3)

	var reveal DealerRevealEvent
	var drawn []CardDealtEvent
	for _, ev := range rec.events {
		switch ev := ev.(type) {
		case DealerRevealEvent:
			reveal = ev
		case CardDealtEvent:
			if ev.Seat == Dealer && !ev.Hidden && ev.Card.Rank == deck.King {
				drawn = append(drawn, ev)
			}
		}
	}
	assert.Equal(t, deck.NewCard(deck.Five, deck.Spades), reveal.HoleCard)
	assert.Equal(t, 11, reveal.Total)
	require.Len(t, drawn, 1)
	assert.Equal(t, 21, drawn[0].Total)
}

func TestEngineMultipleRounds(t *testing.T) {
	e, _ := newTestEngine(t, "10♠ 9♥ 10♦ 7♣")
	for i := 1; i <= 3; i++ {
		view, err := e.StartRound()
		require.NoError(t, err)
		assert.Equal(t, i, view.RoundNumber)

		view, err = e.Stand()
		require.NoError(t, err)
		assert.Equal(t, blackjack.PlayerWins, view.Outcome)
	}
	stats := e.Stats()
	assert.Equal(t, 3, stats.Rounds)
	assert.Equal(t, 3, stats.Wins())
	require.NoError(t, stats.Validate())
}

func TestEngineRoundDuration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	e, rec := newTestEngine(t, "10♠ 9♥ 10♦ 7♣", WithClock(clock))

	_, err := e.StartRound()
	require.NoError(t, err)
	clock.Advance(3 * time.Second).MustWait(ctx)
	_, err = e.Stand()
	require.NoError(t, err)

	end, ok := rec.events[len(rec.events)-1].(RoundEndEvent)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, end.Duration)
	assert.Equal(t, clock.Now(), end.Timestamp())
}

func TestEngineSeededShufflesReplay(t *testing.T) {
	a := NewEngine(WithSeed(7))
	b := NewEngine(WithSeed(7))
	for i := 0; i < 5; i++ {
		va, err := a.StartRound()
		require.NoError(t, err)
		vb, err := b.StartRound()
		require.NoError(t, err)
		assert.Equal(t, va.PlayerCards, vb.PlayerCards)

		_, err = a.Stand()
		require.NoError(t, err)
		_, err = b.Stand()
		require.NoError(t, err)
	}
	assert.Equal(t, int64(7), a.Seed())
}

func TestEngineConcurrentCommands(t *testing.T) {
	e := NewEngine(WithSeed(3))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = e.View()
			_ = e.Stats()
		}
	}()
	for i := 0; i < 50; i++ {
		_, err := e.StartRound()
		require.NoError(t, err)
		_, err = e.Stand()
		require.NoError(t, err)
	}
	<-done
	stats := e.Stats()
	assert.Equal(t, 50, stats.Rounds)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	a, b := &eventRecorder{}, &eventRecorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Publish(RoundStartEvent{RoundID: "x"})
	bus.Unsubscribe(a)
	bus.Publish(RoundStartEvent{RoundID: "y"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}
