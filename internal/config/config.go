// Package config loads twentyone settings from an HCL file, with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Environment variable names that override file settings
const (
	// EnvSeed fixes the shuffle seed for reproducible sessions
	EnvSeed = "TWENTYONE_SEED"

	// EnvLogLevel overrides log_level
	EnvLogLevel = "TWENTYONE_LOG_LEVEL"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "twentyone.hcl"

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid config")

// CardBacks lists the supported face-down card colours
var CardBacks = []string{"red", "blue", "green", "black"}

// Config represents the complete configuration
type Config struct {
	LogLevel string          `hcl:"log_level,optional"`
	LogFile  string          `hcl:"log_file,optional"`
	Seed     int64           `hcl:"seed,optional"`
	Table    *TableConfig    `hcl:"table,block"`
	Simulate *SimulateConfig `hcl:"simulate,block"`
}

// TableConfig holds interactive table settings
type TableConfig struct {
	CardBack    string `hcl:"card_back,optional"`
	DealerDelay string `hcl:"dealer_delay,optional"`
}

// SimulateConfig holds simulation defaults
type SimulateConfig struct {
	Rounds  int `hcl:"rounds,optional"`
	Workers int `hcl:"workers,optional"`
	StandOn int `hcl:"stand_on,optional"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(filename string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		diags = gohcl.DecodeBody(file.Body, nil, config)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = "twentyone.log"
	}
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Table.CardBack == "" {
		c.Table.CardBack = "red"
	}
	if c.Table.DealerDelay == "" {
		c.Table.DealerDelay = "400ms"
	}
	if c.Simulate == nil {
		c.Simulate = &SimulateConfig{}
	}
	if c.Simulate.Rounds == 0 {
		c.Simulate.Rounds = 10000
	}
	if c.Simulate.Workers == 0 {
		c.Simulate.Workers = 4
	}
	if c.Simulate.StandOn == 0 {
		c.Simulate.StandOn = 17
	}
}

func (c *Config) applyEnv() error {
	if seedStr := os.Getenv(EnvSeed); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}

	if !validCardBack(c.Table.CardBack) {
		return fmt.Errorf("%w: table.card_back must be one of %s, got %q",
			ErrInvalid, strings.Join(CardBacks, ", "), c.Table.CardBack)
	}
	delay, err := time.ParseDuration(c.Table.DealerDelay)
	if err != nil || delay < 0 {
		return fmt.Errorf("%w: table.dealer_delay %q", ErrInvalid, c.Table.DealerDelay)
	}

	if c.Simulate.Rounds < 1 {
		return fmt.Errorf("%w: simulate.rounds must be positive", ErrInvalid)
	}
	if c.Simulate.Workers < 1 || c.Simulate.Workers > 256 {
		return fmt.Errorf("%w: simulate.workers must be between 1 and 256", ErrInvalid)
	}
	if c.Simulate.StandOn < 2 || c.Simulate.StandOn > 21 {
		return fmt.Errorf("%w: simulate.stand_on must be between 2 and 21", ErrInvalid)
	}

	return nil
}

// Level returns the parsed log level, defaulting to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DealerDelay returns table.dealer_delay as a duration
func (c *Config) DealerDelay() time.Duration {
	d, err := time.ParseDuration(c.Table.DealerDelay)
	if err != nil {
		return 0
	}
	return d
}

func validCardBack(s string) bool {
	for _, b := range CardBacks {
		if b == s {
			return true
		}
	}
	return false
}
