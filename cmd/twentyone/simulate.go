package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/twentyone/internal/config"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/report"
	"github.com/lox/twentyone/internal/simulator"
)

type SimulateCmd struct {
	Rounds  int    `help:"Number of rounds to play (defaults to simulate.rounds)"`
	Workers int    `help:"Worker goroutines (defaults to simulate.workers)"`
	Seed    int64  `help:"Base seed; round i uses seed+i (0 for random)"`
	StandOn int    `help:"Player hits below this total (defaults to simulate.stand_on)"`
	Output  string `short:"o" type:"path" help:"Write the report to this TOML file"`
	JSON    bool   `help:"Emit JSON logs instead of console output"`
	Quiet   bool   `short:"q" help:"Skip the printed summary"`
}

func (c *SimulateCmd) Run(cfg *config.Config) error {
	if c.Rounds != 0 {
		cfg.Simulate.Rounds = c.Rounds
	}
	if c.Workers != 0 {
		cfg.Simulate.Workers = c.Workers
	}
	if c.StandOn != 0 {
		cfg.Simulate.StandOn = c.StandOn
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(os.Stderr, cfg.LogLevel, c.JSON)
	ctx, cancel := signalContext(logger)
	defer cancel()

	seed := randutil.Resolve(cfg.Seed)
	every := max(cfg.Simulate.Rounds/10, 1)

	// round-level debug output from the simulator itself
	var simLogger *log.Logger
	if logger.GetLevel() <= zerolog.DebugLevel {
		simLogger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	} else {
		simLogger = log.New(io.Discard)
	}

	sim := simulator.New(simulator.Config{
		Rounds:        cfg.Simulate.Rounds,
		Workers:       cfg.Simulate.Workers,
		Seed:          seed,
		StandOn:       cfg.Simulate.StandOn,
		Logger:        simLogger,
		ProgressEvery: every,
		Progress: func(completed int64) {
			logger.Info().
				Int64("completed", completed).
				Int("rounds", cfg.Simulate.Rounds).
				Msg("Progress")
		},
	})

	logger.Info().
		Int("rounds", cfg.Simulate.Rounds).
		Int("workers", cfg.Simulate.Workers).
		Int("stand_on", cfg.Simulate.StandOn).
		Int64("seed", seed).
		Msg("Starting simulation")

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Simulation failed")
		return err
	}
	duration := time.Since(start)

	rep := report.New(stats, report.Params{
		Seed:     seed,
		Rounds:   cfg.Simulate.Rounds,
		Workers:  cfg.Simulate.Workers,
		StandOn:  cfg.Simulate.StandOn,
		Duration: duration,
	}, time.Now())

	logger.Info().
		Float64("mean", rep.Summary.Mean).
		Float64("std_error", rep.Summary.StdError).
		Dur("duration", duration).
		Msg("Simulation complete")

	if c.Output != "" {
		if err := rep.WriteFile(c.Output); err != nil {
			return err
		}
		logger.Info().Str("path", c.Output).Msg("Report written")
	}

	if !c.Quiet && !c.JSON {
		fmt.Println(rep.Render())
	}
	return nil
}
