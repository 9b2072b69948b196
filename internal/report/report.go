// Package report turns simulation statistics into a TOML document and a
// styled terminal summary.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/fileutil"
	"github.com/lox/twentyone/internal/statistics"
)

// Params describes how a simulation was run
type Params struct {
	Seed     int64
	Rounds   int
	Workers  int
	StandOn  int
	Duration time.Duration
}

// Report is the persisted form of a simulation run
type Report struct {
	GeneratedAt time.Time `toml:"generated_at"`
	Seed        int64     `toml:"seed"`
	Rounds      int       `toml:"rounds"`
	Workers     int       `toml:"workers"`
	StandOn     int       `toml:"stand_on"`
	Duration    string    `toml:"duration"`

	Summary      Summary        `toml:"summary"`
	Outcomes     map[string]int `toml:"outcomes"`
	DealerTotals map[string]int `toml:"dealer_totals"`
}

// Summary holds the derived figures, expressed per round in units
type Summary struct {
	Mean             float64 `toml:"mean"`
	StdDev           float64 `toml:"std_dev"`
	StdError         float64 `toml:"std_error"`
	CILow            float64 `toml:"ci95_low"`
	CIHigh           float64 `toml:"ci95_high"`
	WinRate          float64 `toml:"win_rate"`
	LossRate         float64 `toml:"loss_rate"`
	PushRate         float64 `toml:"push_rate"`
	DealerBustRate   float64 `toml:"dealer_bust_rate"`
	PlayerBlackjacks int     `toml:"player_blackjacks"`
	MaxPlayerCards   int     `toml:"max_player_cards"`
	MaxDealerCards   int     `toml:"max_dealer_cards"`
}

// Outcomes lists the outcomes in report order
var Outcomes = []blackjack.Outcome{
	blackjack.PlayerWins,
	blackjack.DealerBusts,
	blackjack.Push,
	blackjack.DealerWins,
	blackjack.PlayerBusts,
}

// New builds a report from merged statistics
func New(stats *statistics.Statistics, params Params, now time.Time) Report {
	low, high := stats.ConfidenceInterval95()
	r := Report{
		GeneratedAt: now.UTC().Truncate(time.Second),
		Seed:        params.Seed,
		Rounds:      stats.Rounds,
		Workers:     params.Workers,
		StandOn:     params.StandOn,
		Duration:    params.Duration.Round(time.Millisecond).String(),
		Summary: Summary{
			Mean:             stats.Mean(),
			StdDev:           stats.StdDev(),
			StdError:         stats.StdError(),
			CILow:            low,
			CIHigh:           high,
			WinRate:          stats.Rate(stats.Wins()),
			LossRate:         stats.Rate(stats.Losses()),
			PushRate:         stats.Rate(stats.Pushes()),
			DealerBustRate:   stats.DealerBustRate(),
			PlayerBlackjacks: stats.PlayerBlackjacks,
			MaxPlayerCards:   stats.MaxPlayerCards,
			MaxDealerCards:   stats.MaxDealerCards,
		},
		Outcomes:     make(map[string]int, len(Outcomes)),
		DealerTotals: make(map[string]int),
	}
	for _, o := range Outcomes {
		r.Outcomes[o.String()] = stats.Count(o)
	}
	for total, n := range stats.DealerTotals {
		if n > 0 {
			r.DealerTotals[strconv.Itoa(total)] = n
		}
	}
	return r
}

// Encode writes the report as TOML
func (r Report) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(r)
}

// WriteFile writes the report to filename atomically
func (r Report) WriteFile(filename string) error {
	if err := fileutil.WriteAtomic(filename, 0o644, r.Encode); err != nil {
		return fmt.Errorf("writing report %s: %w", filename, err)
	}
	return nil
}

// ReadFile loads a report previously written by WriteFile
func ReadFile(filename string) (Report, error) {
	var r Report
	md, err := toml.DecodeFile(filename, &r)
	if err != nil {
		if os.IsNotExist(err) {
			return r, err
		}
		return r, fmt.Errorf("parsing report %s: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return r, fmt.Errorf("parsing report %s: unknown keys %v", filename, undecoded)
	}
	return r, nil
}
