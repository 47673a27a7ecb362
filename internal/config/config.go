package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (LOGTRIAGE_RUN_WORKERS, ...)
const EnvPrefix = "LOGTRIAGE"

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	Run RunConfig `mapstructure:"run"`
}

// RunConfig holds the analysis run settings
type RunConfig struct {
	Input           string        `mapstructure:"input"`
	Output          string        `mapstructure:"output"`
	InputFormat     string        `mapstructure:"input_format"`
	Severity        string        `mapstructure:"severity"`
	Workers         int           `mapstructure:"workers"`
	Delay           time.Duration `mapstructure:"delay"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Optional message filters applied after the severity filter
	Pattern string   `mapstructure:"pattern"`
	Exclude []string `mapstructure:"exclude"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Run: RunConfig{
			Input:           "servidor.log",
			Output:          "relatorio.txt",
			InputFormat:     "delimited",
			Severity:        "ERROR",
			Workers:         5,
			Delay:           100 * time.Millisecond,
			ShutdownTimeout: 10 * time.Minute,
		},
	}
}

// shortcuts are accepted in addition to the LOGTRIAGE_RUN_* names
var shortcuts = map[string]string{
	"run.input":    "LOGTRIAGE_INPUT",
	"run.output":   "LOGTRIAGE_OUTPUT",
	"run.workers":  "LOGTRIAGE_WORKERS",
	"run.severity": "LOGTRIAGE_SEVERITY",
	"run.delay":    "LOGTRIAGE_DELAY",
}

// newViper returns a viper instance seeded with defaults and env bindings
func newViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("format", d.Format)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("run.input", d.Run.Input)
	v.SetDefault("run.output", d.Run.Output)
	v.SetDefault("run.input_format", d.Run.InputFormat)
	v.SetDefault("run.severity", d.Run.Severity)
	v.SetDefault("run.workers", d.Run.Workers)
	v.SetDefault("run.delay", d.Run.Delay)
	v.SetDefault("run.shutdown_timeout", d.Run.ShutdownTimeout)
	v.SetDefault("run.pattern", d.Run.Pattern)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("run.exclude")

	for key, env := range shortcuts {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	return v
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.logtriage.yaml or ./.logtriage.yml (also without the dot)
// 2. ~/.logtriage.yaml or ~/.logtriage.yml
// 3. $XDG_CONFIG_HOME/logtriage/config.yaml (or ~/.config/logtriage/config.yaml)
// 4. /etc/logtriage/config.yaml
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(configFile string) (*Config, error) {
	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	// Config file names to search for (in order)
	names := []string{".logtriage.yaml", ".logtriage.yml", "logtriage.yaml", "logtriage.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	// 1. Current directory
	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	// 3. Config directory (e.g., ~/.config/logtriage/config.yaml)
	// 4. System config
	var appDirs []string
	if configDirErr == nil {
		appDirs = append(appDirs, filepath.Join(configDir, "logtriage"))
	}
	appDirs = append(appDirs, "/etc/logtriage")

	for _, dir := range appDirs {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
