package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/config"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/tui"
)

type PlayCmd struct {
	Seed        int64  `help:"Shuffle seed for a reproducible session (0 for random)"`
	CardBack    string `help:"Colour of face-down cards (red, blue, green, black)"`
	DealerDelay string `help:"Pause between dealer cards after you stand, e.g. 250ms"`
	LogFile     string `type:"path" help:"Debug log file (defaults to log_file from config)"`
}

func (c *PlayCmd) Run(cfg *config.Config) error {
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.CardBack != "" {
		cfg.Table.CardBack = c.CardBack
	}
	if c.DealerDelay != "" {
		cfg.Table.DealerDelay = c.DealerDelay
	}
	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the table owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.Level(),
		Prefix:          "MAIN",
	})

	engine := game.NewEngine(
		game.WithSeed(cfg.Seed),
		game.WithLogger(logger),
	)
	engine.EventBus().Subscribe(game.NewLogSubscriber(logger))
	logger.Info("Starting table", "seed", engine.Seed(), "cardBack", cfg.Table.CardBack)

	model := tui.NewModel(engine, logger,
		tui.WithCardBack(cfg.Table.CardBack),
		tui.WithDealerDelay(cfg.DealerDelay()),
	)
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("table exited: %w", err)
	}

	stats := engine.Stats()
	logger.Info("Table closed", "rounds", stats.Rounds, "wins", stats.Wins(), "losses", stats.Losses(), "pushes", stats.Pushes())
	if stats.Rounds > 0 {
		fmt.Printf("%d rounds: won %d, lost %d, pushed %d (seed %d)\n",
			stats.Rounds, stats.Wins(), stats.Losses(), stats.Pushes(), engine.Seed())
	}
	return nil
}
