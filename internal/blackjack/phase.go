package blackjack

// Phase is the position of a round in its lifecycle:
//
//	Idle -> Dealing -> PlayerTurn -> {PlayerBust | DealerTurn} -> Resolved
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDealing
	PhasePlayerTurn
	PhasePlayerBust
	PhaseDealerTurn
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurn:
		return "player_turn"
	case PhasePlayerBust:
		return "player_bust"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Done reports whether no further play is possible in the round
func (p Phase) Done() bool {
	return p == PhasePlayerBust || p == PhaseResolved
}
