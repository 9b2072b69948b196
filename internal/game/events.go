package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round lifecycle events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypeDealerReveal EventType = "dealer_reveal"
	EventTypeRoundEnd     EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Seat identifies who receives a card
type Seat int

const (
	Player Seat = iota
	Dealer
)

func (s Seat) String() string {
	if s == Dealer {
		return "dealer"
	}
	return "player"
}

// RoundStartEvent is published when a new round begins
type RoundStartEvent struct {
	RoundID   string
	Number    int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for every card that leaves the deck. Hidden is
// set for the dealer's hole card; subscribers rendering for the player must
// not show it.
type CardDealtEvent struct {
	RoundID   string
	Seat      Seat
	Card      deck.Card
	Hidden    bool
	Total     int // Seat total as visible after this card
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// DealerRevealEvent is published when the dealer's hole card is turned up
type DealerRevealEvent struct {
	RoundID   string
	HoleCard  deck.Card
	Total     int
	timestamp time.Time
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }
func (e DealerRevealEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published when a round is resolved
type RoundEndEvent struct {
	RoundID     string
	Number      int
	Outcome     blackjack.Outcome
	PlayerTotal int
	DealerTotal int
	Duration    time.Duration
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// LogSubscriber writes every event to a logger
type LogSubscriber struct {
	logger *log.Logger
}

// NewLogSubscriber creates a subscriber logging to logger
func NewLogSubscriber(logger *log.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger.WithPrefix("events")}
}

// OnEvent implements EventSubscriber
func (s *LogSubscriber) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case RoundStartEvent:
		s.logger.Info("Round started", "round", e.RoundID, "number", e.Number)
	case CardDealtEvent:
		card := e.Card.String()
		if e.Hidden {
			card = "hidden"
		}
		s.logger.Debug("Card dealt", "round", e.RoundID, "seat", e.Seat, "card", card, "total", e.Total)
	case DealerRevealEvent:
		s.logger.Debug("Dealer revealed", "round", e.RoundID, "hole", e.HoleCard, "total", e.Total)
	case RoundEndEvent:
		s.logger.Info("Round finished",
			"round", e.RoundID,
			"outcome", e.Outcome,
			"player", e.PlayerTotal,
			"dealer", e.DealerTotal,
			"duration", e.Duration)
	}
}
