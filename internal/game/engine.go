package game

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/roundid"
	"github.com/lox/twentyone/internal/statistics"
)

// ErrInvalidPhase is returned when a command is not allowed in the current
// phase of the round, e.g. hitting before the deal.
var ErrInvalidPhase = errors.New("invalid phase")

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithSeed makes every shuffle reproducible. Zero means process entropy.
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) { e.seed = seed }
}

// WithClock sets the clock used for event timestamps and round durations
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithEventBus publishes events on bus instead of a private one
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.eventBus = bus }
}

// WithIDGenerator sets the round ID generator
func WithIDGenerator(ids *roundid.Generator) EngineOption {
	return func(e *Engine) { e.ids = ids }
}

// WithRoundOptions passes extra options to the underlying blackjack.Round
func WithRoundOptions(opts ...blackjack.Option) EngineOption {
	return func(e *Engine) { e.roundOpts = append(e.roundOpts, opts...) }
}

// Engine drives rounds on behalf of a presentation layer. It enforces the
// order new round, hit*, stand that the Round itself leaves to its caller,
// and is the single writer of the Round: every command holds the engine
// lock for its whole duration. Events are published after the lock is
// released, so subscribers may call back into the engine.
type Engine struct {
	mu sync.Mutex

	round     *blackjack.Round
	roundID   string
	number    int
	started   time.Time
	outcome   blackjack.Outcome
	stats     statistics.Statistics
	seed      int64
	roundOpts []blackjack.Option

	clock    quartz.Clock
	logger   *log.Logger
	eventBus EventBus
	ids      *roundid.Generator
}

// NewEngine creates an engine with no round in progress
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.eventBus == nil {
		e.eventBus = NewEventBus()
	}
	if e.ids == nil {
		e.ids = roundid.NewGenerator(nil)
	}
	e.seed = randutil.Resolve(e.seed)
	e.logger = e.logger.WithPrefix("engine")

	roundOpts := append([]blackjack.Option{
		blackjack.WithRNG(randutil.New(e.seed)),
		blackjack.WithLogger(e.logger.WithPrefix("round")),
	}, e.roundOpts...)
	e.round = blackjack.New(roundOpts...)

	e.logger.Debug("Engine created", "seed", e.seed)
	return e
}

// EventBus returns the bus events are published on
func (e *Engine) EventBus() EventBus {
	return e.eventBus
}

// Seed returns the seed the engine shuffles from
func (e *Engine) Seed() int64 {
	return e.seed
}

// StartRound discards any finished round, shuffles a new deck and deals two
// cards each to the player and the dealer.
func (e *Engine) StartRound() (RoundView, error) {
	e.mu.Lock()
	view, events, err := e.startRound()
	e.mu.Unlock()

	e.publish(events)
	return view, err
}

func (e *Engine) startRound() (RoundView, []GameEvent, error) {
	if phase := e.round.Phase(); phase != blackjack.PhaseIdle && !phase.Done() {
		return e.view(), nil, fmt.Errorf("start round during %s: %w", phase, ErrInvalidPhase)
	}

	id, err := e.ids.Generate()
	if err != nil {
		return e.view(), nil, fmt.Errorf("start round: %w", err)
	}

	e.round.NewRound()
	e.roundID = id
	e.number++
	e.started = e.clock.Now()
	e.outcome = blackjack.NoOutcome

	events := []GameEvent{RoundStartEvent{RoundID: id, Number: e.number, timestamp: e.started}}

	if err := e.round.DealInitialCards(); err != nil {
		return e.view(), events, fmt.Errorf("start round: %w", err)
	}

	player := e.round.PlayerHand()
	dealer := e.round.DealerHand()
	now := e.clock.Now()
	// same order as the deal: player, player, dealer, dealer
	for i := range player {
		events = append(events, CardDealtEvent{
			RoundID:   id,
			Seat:      Player,
			Card:      player[i],
			Total:     blackjack.HandTotal(player[:i+1]),
			timestamp: now,
		})
	}
	for i := range dealer {
		events = append(events, CardDealtEvent{
			RoundID:   id,
			Seat:      Dealer,
			Card:      dealer[i],
			Hidden:    i == 0,
			Total:     blackjack.HandTotal(dealer[1 : i+1]),
			timestamp: now,
		})
	}

	e.logger.Debug("Round dealt", "round", id, "number", e.number, "player", player, "upcard", dealer[1])
	return e.view(), events, nil
}

// Hit draws a card for the player. A hit that takes the player over 21
// resolves the round at once: the dealer reveals and does not draw.
func (e *Engine) Hit() (deck.Card, RoundView, error) {
	e.mu.Lock()
	card, view, events, err := e.hit()
	e.mu.Unlock()

	e.publish(events)
	return card, view, err
}

func (e *Engine) hit() (deck.Card, RoundView, []GameEvent, error) {
	if phase := e.round.Phase(); phase != blackjack.PhasePlayerTurn {
		return deck.Card{}, e.view(), nil, fmt.Errorf("hit during %s: %w", phase, ErrInvalidPhase)
	}

	card, err := e.round.PlayerHit()
	if err != nil {
		return deck.Card{}, e.view(), nil, fmt.Errorf("hit: %w", err)
	}

	total := e.round.PlayerTotal()
	events := []GameEvent{CardDealtEvent{
		RoundID:   e.roundID,
		Seat:      Player,
		Card:      card,
		Total:     total,
		timestamp: e.clock.Now(),
	}}

	if total > blackjack.Target {
		e.logger.Debug("Player busts", "round", e.roundID, "total", total)
		e.round.RevealDealerCard()
		events = append(events, e.revealEvent())
		events = append(events, e.finish())
	}

	return card, e.view(), events, nil
}

// Stand ends the player's turn: the dealer reveals the hole card, draws to
// 17 and the round is resolved.
func (e *Engine) Stand() (RoundView, error) {
	e.mu.Lock()
	view, events, err := e.stand()
	e.mu.Unlock()

	e.publish(events)
	return view, err
}

func (e *Engine) stand() (RoundView, []GameEvent, error) {
	if phase := e.round.Phase(); phase != blackjack.PhasePlayerTurn {
		return e.view(), nil, fmt.Errorf("stand during %s: %w", phase, ErrInvalidPhase)
	}

	e.round.RevealDealerCard()
	events := []GameEvent{e.revealEvent()}

	before := len(e.round.DealerHand())
	final, err := e.round.PlayDealerTurn()
	if err != nil {
		return e.view(), events, fmt.Errorf("stand: %w", err)
	}

	now := e.clock.Now()
	for i := before; i < len(final); i++ {
		events = append(events, CardDealtEvent{
			RoundID:   e.roundID,
			Seat:      Dealer,
			Card:      final[i],
			Total:     blackjack.HandTotal(final[:i+1]),
			timestamp: now,
		})
	}

	events = append(events, e.finish())
	return e.view(), events, nil
}

// View returns a snapshot of the current round
func (e *Engine) View() RoundView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

// Stats returns a copy of the results of every round resolved so far
func (e *Engine) Stats() statistics.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) view() RoundView {
	v := newRoundView(e.round)
	v.RoundID = e.roundID
	v.RoundNumber = e.number
	v.Outcome = e.outcome
	return v
}

func (e *Engine) revealEvent() DealerRevealEvent {
	dealer := e.round.DealerHand()
	return DealerRevealEvent{
		RoundID:   e.roundID,
		HoleCard:  dealer[0],
		Total:     dealer.Total(),
		timestamp: e.clock.Now(),
	}
}

func (e *Engine) finish() RoundEndEvent {
	e.outcome = e.round.DecideWinner()
	player := e.round.PlayerHand()
	dealer := e.round.DealerHand()
	now := e.clock.Now()

	e.stats.Add(statistics.RoundResult{
		Outcome:         e.outcome,
		PlayerTotal:     player.Total(),
		DealerTotal:     dealer.Total(),
		PlayerCards:     len(player),
		DealerCards:     len(dealer),
		PlayerBlackjack: player.IsBlackjack(),
		Seed:            e.seed,
	})

	return RoundEndEvent{
		RoundID:     e.roundID,
		Number:      e.number,
		Outcome:     e.outcome,
		PlayerTotal: player.Total(),
		DealerTotal: dealer.Total(),
		Duration:    now.Sub(e.started),
		timestamp:   now,
	}
}

func (e *Engine) publish(events []GameEvent) {
	for _, event := range events {
		e.eventBus.Publish(event)
	}
}
