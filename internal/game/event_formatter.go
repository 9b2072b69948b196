package game

import (
	"fmt"
	"time"

	"github.com/lox/twentyone/internal/blackjack"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowRoundIDs  bool // Prefix lines with the round ID (for logs)
	ShowDurations bool // Include round duration in the summary
}

// EventFormatter turns game events into one-line, human-readable text
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the line for event, or "" for events with no text
func (ef *EventFormatter) Format(event GameEvent) string {
	var line, id string
	switch e := event.(type) {
	case RoundStartEvent:
		id = e.RoundID
		line = fmt.Sprintf("*** ROUND %d ***", e.Number)
	case CardDealtEvent:
		id = e.RoundID
		line = ef.FormatCardDealt(e)
	case DealerRevealEvent:
		id = e.RoundID
		line = fmt.Sprintf("Dealer turns over %s (%d)", e.HoleCard, e.Total)
	case RoundEndEvent:
		id = e.RoundID
		line = ef.FormatRoundEnd(e)
	default:
		return ""
	}

	if ef.opts.ShowRoundIDs && id != "" {
		return id + " " + line
	}
	return line
}

// FormatCardDealt formats a card landing in a hand
func (ef *EventFormatter) FormatCardDealt(e CardDealtEvent) string {
	if e.Hidden {
		return "Dealer: dealt a card face down"
	}
	return fmt.Sprintf("%s: dealt %s (%d)", seatName(e.Seat), e.Card, e.Total)
}

// FormatRoundEnd formats the round summary
func (ef *EventFormatter) FormatRoundEnd(e RoundEndEvent) string {
	var line string
	switch e.Outcome {
	case blackjack.PlayerBusts:
		line = fmt.Sprintf("Player busts with %d", e.PlayerTotal)
	case blackjack.DealerBusts:
		line = fmt.Sprintf("Dealer busts with %d, player wins with %d", e.DealerTotal, e.PlayerTotal)
	case blackjack.PlayerWins:
		line = fmt.Sprintf("Player wins %d to %d", e.PlayerTotal, e.DealerTotal)
	case blackjack.DealerWins:
		line = fmt.Sprintf("Dealer wins %d to %d", e.DealerTotal, e.PlayerTotal)
	case blackjack.Push:
		line = fmt.Sprintf("Push at %d", e.PlayerTotal)
	default:
		line = "Round abandoned"
	}

	if ef.opts.ShowDurations && e.Duration > 0 {
		line += fmt.Sprintf(" (%s)", e.Duration.Round(time.Millisecond))
	}
	return line
}

func seatName(s Seat) string {
	if s == Dealer {
		return "Dealer"
	}
	return "Player"
}
