package statistics

import (
	"fmt"
	"math"

	"github.com/lox/twentyone/internal/blackjack"
)

// maxTotal bounds the dealer total histogram; the worst dealer bust is 16+10.
const maxTotal = 26

// RoundResult represents the outcome of a single round
type RoundResult struct {
	Outcome         blackjack.Outcome
	PlayerTotal     int
	DealerTotal     int
	PlayerCards     int   // Cards in the player's final hand
	DealerCards     int   // Cards in the dealer's final hand
	PlayerBlackjack bool  // Two-card 21 on the deal
	Seed            int64 // RNG seed for this round (for replay)
}

// Statistics accumulates round results. The zero value is ready to use.
type Statistics struct {
	Rounds   int
	SumUnits float64
	SumSq    float64 // Sum of squares for variance calculation

	Outcomes         [blackjack.Push + 1]int // Indexed by blackjack.Outcome
	PlayerBlackjacks int

	// Dealer final totals, index = total. Only filled when the dealer played.
	DealerTotals [maxTotal + 1]int
	DealerPlayed int

	MaxPlayerCards int
	MaxDealerCards int
}

// Add incorporates a new round result
func (s *Statistics) Add(result RoundResult) {
	units := float64(result.Outcome.Units())
	s.Rounds++
	s.SumUnits += units
	s.SumSq += units * units

	if result.Outcome > blackjack.NoOutcome && result.Outcome <= blackjack.Push {
		s.Outcomes[result.Outcome]++
	}
	if result.PlayerBlackjack {
		s.PlayerBlackjacks++
	}

	// A player bust ends the round before the dealer draws
	if result.Outcome != blackjack.PlayerBusts && result.DealerTotal >= 0 && result.DealerTotal <= maxTotal {
		s.DealerTotals[result.DealerTotal]++
		s.DealerPlayed++
	}

	s.MaxPlayerCards = max(s.MaxPlayerCards, result.PlayerCards)
	s.MaxDealerCards = max(s.MaxDealerCards, result.DealerCards)
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumSq += other.SumSq
	for i := range s.Outcomes {
		s.Outcomes[i] += other.Outcomes[i]
	}
	s.PlayerBlackjacks += other.PlayerBlackjacks
	for i := range s.DealerTotals {
		s.DealerTotals[i] += other.DealerTotals[i]
	}
	s.DealerPlayed += other.DealerPlayed
	s.MaxPlayerCards = max(s.MaxPlayerCards, other.MaxPlayerCards)
	s.MaxDealerCards = max(s.MaxDealerCards, other.MaxDealerCards)
}

// Count returns how many rounds ended with o
func (s *Statistics) Count(o blackjack.Outcome) int {
	if o <= blackjack.NoOutcome || o > blackjack.Push {
		return 0
	}
	return s.Outcomes[o]
}

// Wins returns rounds won by the player, dealer busts included
func (s *Statistics) Wins() int {
	return s.Count(blackjack.PlayerWins) + s.Count(blackjack.DealerBusts)
}

// Losses returns rounds lost by the player, player busts included
func (s *Statistics) Losses() int {
	return s.Count(blackjack.DealerWins) + s.Count(blackjack.PlayerBusts)
}

// Pushes returns tied rounds
func (s *Statistics) Pushes() int {
	return s.Count(blackjack.Push)
}

// Rate returns n as a fraction of all rounds
func (s *Statistics) Rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// DealerBustRate returns the share of dealer turns that ended over 21
func (s *Statistics) DealerBustRate() float64 {
	if s.DealerPlayed == 0 {
		return 0
	}
	busts := 0
	for total := blackjack.Target + 1; total <= maxTotal; total++ {
		busts += s.DealerTotals[total]
	}
	return float64(busts) / float64(s.DealerPlayed)
}

// Mean returns the average units won per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of units per round
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome counts (%d) do not match rounds (%d)", total, s.Rounds)
	}

	if units := float64(s.Wins() - s.Losses()); math.Abs(units-s.SumUnits) > 1e-6 {
		return fmt.Errorf("ledger mismatch: units=%.0f, wins-losses=%.0f", s.SumUnits, units)
	}

	if want := s.Rounds - s.Count(blackjack.PlayerBusts); s.DealerPlayed != want {
		return fmt.Errorf("dealer played %d rounds, expected %d", s.DealerPlayed, want)
	}

	for total := 0; total < blackjack.DealerStandsOn; total++ {
		if s.DealerTotals[total] > 0 {
			return fmt.Errorf("dealer stood on %d in %d rounds", total, s.DealerTotals[total])
		}
	}

	return nil
}
