package blackjack

// Outcome is the result of a resolved round
type Outcome int

const (
	// NoOutcome is the zero value, used before a round is resolved
	NoOutcome Outcome = iota
	PlayerBusts
	DealerBusts
	PlayerWins
	DealerWins
	Push
)

// String returns a stable machine-readable token for the outcome
func (o Outcome) String() string {
	switch o {
	case PlayerBusts:
		return "player_bust"
	case DealerBusts:
		return "dealer_bust"
	case PlayerWins:
		return "player_win"
	case DealerWins:
		return "dealer_win"
	case Push:
		return "push"
	default:
		return "none"
	}
}

// PlayerWon reports whether the outcome goes to the player
func (o Outcome) PlayerWon() bool {
	return o == PlayerWins || o == DealerBusts
}

// DealerWon reports whether the outcome goes to the dealer
func (o Outcome) DealerWon() bool {
	return o == DealerWins || o == PlayerBusts
}

// Units scores the outcome from the player's side: +1 win, -1 loss, 0 push.
func (o Outcome) Units() int {
	switch {
	case o.PlayerWon():
		return 1
	case o.DealerWon():
		return -1
	default:
		return 0
	}
}

// Decide applies the fixed precedence to a pair of totals. A player bust is
// checked first, so it loses even when the dealer would also have busted.
func Decide(playerTotal, dealerTotal int) Outcome {
	switch {
	case playerTotal > Target:
		return PlayerBusts
	case dealerTotal > Target:
		return DealerBusts
	case playerTotal > dealerTotal:
		return PlayerWins
	case dealerTotal > playerTotal:
		return DealerWins
	default:
		return Push
	}
}
