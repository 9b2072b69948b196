// Package simulator plays many independent rounds with a fixed-threshold
// player and aggregates the outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/statistics"
)

// ErrInvariant is returned when a simulated round breaks a game rule
var ErrInvariant = errors.New("round invariant violated")

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Seed    int64 // Round i is shuffled from Seed+i
	StandOn int   // Player hits while below this total; 17 mirrors the dealer
	Logger  *log.Logger

	// Progress, when set, is called from worker goroutines every
	// ProgressEvery completed rounds with the running total.
	Progress      func(completed int64)
	ProgressEvery int
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.StandOn == 0 {
		config.StandOn = blackjack.DealerStandsOn
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.ProgressEvery < 1 {
		config.ProgressEvery = 1000
	}
	return &Simulator{config: config}
}

// Run plays every round and returns the merged statistics. Results depend
// only on Seed and Rounds, not on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}

	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation",
		"rounds", s.config.Rounds,
		"workers", s.config.Workers,
		"seed", s.config.Seed,
		"standOn", s.config.StandOn)

	perWorker := make([]statistics.Statistics, s.config.Workers)
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < s.config.Workers; w++ {
		g.Go(func() error {
			stats := &perWorker[w]
			for i := w; i < s.config.Rounds; i += s.config.Workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				seed := s.config.Seed + int64(i)
				result, err := PlayRound(seed, s.config.StandOn)
				if err != nil {
					return fmt.Errorf("round %d (seed %d): %w", i+1, seed, err)
				}
				stats.Add(result)

				if n := completed.Add(1); s.config.Progress != nil && n%int64(s.config.ProgressEvery) == 0 {
					s.config.Progress(n)
				}
			}
			logger.Debug("Worker finished", "worker", w, "rounds", stats.Rounds)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for i := range perWorker {
		total.Merge(&perWorker[i])
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Simulation complete", "rounds", total.Rounds, "mean", total.Mean())
	return total, nil
}

// PlayRound plays a single round shuffled from seed. The player hits while
// under standOn, then stands.
func PlayRound(seed int64, standOn int) (statistics.RoundResult, error) {
	r := blackjack.New(blackjack.WithSeed(seed))
	if err := r.DealInitialCards(); err != nil {
		return statistics.RoundResult{}, err
	}

	for r.PlayerTotal() < standOn {
		if _, err := r.PlayerHit(); err != nil {
			return statistics.RoundResult{}, err
		}
	}

	r.RevealDealerCard()
	if r.PlayerTotal() <= blackjack.Target {
		if _, err := r.PlayDealerTurn(); err != nil {
			return statistics.RoundResult{}, err
		}
	}

	player := r.PlayerHand()
	dealer := r.DealerHand()
	result := statistics.RoundResult{
		Outcome:         r.DecideWinner(),
		PlayerTotal:     player.Total(),
		DealerTotal:     dealer.Total(),
		PlayerCards:     len(player),
		DealerCards:     len(dealer),
		PlayerBlackjack: len(player) == 2 && player.IsBlackjack(),
		Seed:            seed,
	}

	if err := check(r, result); err != nil {
		return result, err
	}
	return result, nil
}

func check(r *blackjack.Round, result statistics.RoundResult) error {
	if !r.Phase().Done() {
		return fmt.Errorf("%w: round ended in phase %s", ErrInvariant, r.Phase())
	}
	if result.Outcome != blackjack.PlayerBusts && result.DealerTotal < blackjack.DealerStandsOn {
		return fmt.Errorf("%w: dealer stood on %d", ErrInvariant, result.DealerTotal)
	}
	if again := r.DecideWinner(); again != result.Outcome {
		return fmt.Errorf("%w: outcome changed from %s to %s", ErrInvariant, result.Outcome, again)
	}
	return nil
}
