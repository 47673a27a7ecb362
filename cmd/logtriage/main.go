package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/logtriage/internal/cli"
	"github.com/vburojevic/logtriage/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config values become flag defaults; explicit flags override them
	vars := kong.Vars{
		"config_format":           cfg.Format,
		"config_input":            cfg.Run.Input,
		"config_output":           cfg.Run.Output,
		"config_input_format":     cfg.Run.InputFormat,
		"config_severity":         cfg.Run.Severity,
		"config_workers":          strconv.Itoa(cfg.Run.Workers),
		"config_delay":            cfg.Run.Delay.String(),
		"config_shutdown_timeout": cfg.Run.ShutdownTimeout.String(),
	}

	ctx := kong.Parse(&c,
		kong.Name("logtriage"),
		kong.Description("Parse a timestamp;severity;message log, process records of one severity on a worker pool, and write a one-line report.\n\nRun with no arguments to analyze ./servidor.log into ./relatorio.txt."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	if err == nil {
		globals.ConfigFile = config.ConfigFile()
	}
	defer func() { _ = globals.Logger.Sync() }()

	if err := ctx.Run(globals); err != nil {
		_ = globals.Logger.Sync()
		os.Exit(1)
	}
}
