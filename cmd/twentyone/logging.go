package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger configures zerolog for the console, or JSON when structured
// output is requested
func setupLogger(w io.Writer, level string, structured bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// signalContext returns a context cancelled on interrupt signals
func signalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("Received signal, stopping simulation")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
