package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/logtriage/internal/config"
	"github.com/vburojevic/logtriage/internal/output"
)

// CLI is the root command structure for logtriage
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Console output format"`
	Quiet   bool   `short:"q" help:"Suppress the summary and hints (corrupted-line warnings and errors are still printed)"`
	Verbose bool   `short:"v" help:"Show debug output (filtering, worker activity, interrupted units)"`

	// Commands
	Run     RunCmd     `cmd:"" default:"withargs" help:"Analyze a log file and write the report (default)"`
	Config  ConfigCmd  `cmd:"" help:"Show or manage configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger

	// ConfigFile is the file the config was loaded from, if any
	ConfigFile string
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	g.Logger = NewLogger(g.Stderr, g.Format, g.Verbose)
	output.DisableStylesUnlessTTY(g.Stdout)
	return g
}

// logger returns the configured logger or a no-op one
func (g *Globals) logger() *zap.Logger {
	if g == nil || g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteVersion(Version, Commit)
	}
	_, err := fmt.Fprintf(globals.Stdout, "logtriage version %s (%s)\n", Version, Commit)
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
