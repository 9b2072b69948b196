package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/twentyone/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" type:"path" default:"${config_file}" help:"HCL config file (missing file uses defaults)"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at the terminal table"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a fixed strategy and report the results"`
	Rules    RulesCmd         `cmd:"" help:"Print the house rules"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("twentyone"),
		kong.Description("Single-player blackjack against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)

	cfg, err := config.Load(cli.Config)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
