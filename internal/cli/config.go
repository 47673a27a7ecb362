package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/vburojevic/logtriage/internal/config"
	"github.com/vburojevic/logtriage/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		out := map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"format":        cfg.Format,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"run": map[string]interface{}{
				"input":            cfg.Run.Input,
				"output":           cfg.Run.Output,
				"input_format":     cfg.Run.InputFormat,
				"severity":         cfg.Run.Severity,
				"workers":          cfg.Run.Workers,
				"delay":            cfg.Run.Delay.String(),
				"shutdown_timeout": cfg.Run.ShutdownTimeout.String(),
				"pattern":          cfg.Run.Pattern,
				"exclude":          cfg.Run.Exclude,
			},
		}
		if globals.ConfigFile != "" {
			out["config_file"] = globals.ConfigFile
		}
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(out)
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(w, "  quiet:   %v\n", cfg.Quiet)
	fmt.Fprintf(w, "  verbose: %v\n", cfg.Verbose)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run:")
	fmt.Fprintf(w, "  input:            %s\n", cfg.Run.Input)
	fmt.Fprintf(w, "  output:           %s\n", cfg.Run.Output)
	fmt.Fprintf(w, "  input_format:     %s\n", cfg.Run.InputFormat)
	fmt.Fprintf(w, "  severity:         %s\n", cfg.Run.Severity)
	fmt.Fprintf(w, "  workers:          %d\n", cfg.Run.Workers)
	fmt.Fprintf(w, "  delay:            %s\n", cfg.Run.Delay)
	fmt.Fprintf(w, "  shutdown_timeout: %s\n", cfg.Run.ShutdownTimeout)
	if cfg.Run.Pattern != "" {
		fmt.Fprintf(w, "  pattern:          %s\n", cfg.Run.Pattern)
	}
	if len(cfg.Run.Exclude) > 0 {
		fmt.Fprintf(w, "  exclude:          %s\n", strings.Join(cfg.Run.Exclude, ", "))
	}

	if globals.ConfigFile != "" {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Loaded from: %s\n", globals.ConfigFile)
	}

	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.logtriage.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.logtriage.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/logtriage/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout"`
	Force  bool   `help:"Overwrite an existing file"`
}

const sampleConfig = `# logtriage configuration file
# Place this file at ./.logtriage.yaml, ~/.logtriage.yaml,
# or ~/.config/logtriage/config.yaml

# Console output format: "text" (default) or "ndjson"
format: text

# Hide the summary (corrupted-line warnings are still printed)
quiet: false

# Enable debug output
verbose: false

run:
  # Log file to analyze (one "timestamp;severity;message" record per line)
  input: servidor.log

  # Report file, overwritten on every run
  output: relatorio.txt

  # Input line format: delimited or ndjson
  input_format: delimited

  # Severity to process: INFO, WARNING or ERROR (case-sensitive)
  severity: ERROR

  # Number of concurrent workers
  workers: 5

  # Simulated analysis time per record
  delay: 100ms

  # Maximum time to wait for workers to exit
  shutdown_timeout: 10m

  # Optional message filters
  # pattern: "^disk"
  # exclude:
  #   - retrying
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	if c.Output == "" {
		_, err := fmt.Fprint(globals.Stdout, sampleConfig)
		return err
	}

	if !c.Force {
		if _, err := os.Stat(c.Output); err == nil {
			return outputErrorCommon(globals, "FILE_EXISTS", fmt.Sprintf("%s already exists (use --force to overwrite)", c.Output))
		}
	}
	if err := os.WriteFile(c.Output, []byte(sampleConfig), 0o644); err != nil {
		return outputErrorCommon(globals, CodeWriteError, err.Error())
	}
	if !globals.Quiet && globals.Format != "ndjson" {
		fmt.Fprintf(globals.Stdout, "Wrote %s\n", c.Output)
	}
	return nil
}
