package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty temp dir and points HOME/XDG there so no
// real config file is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	return tmpDir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "servidor.log", cfg.Run.Input)
	assert.Equal(t, "relatorio.txt", cfg.Run.Output)
	assert.Equal(t, "delimited", cfg.Run.InputFormat)
	assert.Equal(t, "ERROR", cfg.Run.Severity)
	assert.Equal(t, 5, cfg.Run.Workers)
	assert.Equal(t, 100*time.Millisecond, cfg.Run.Delay)
	assert.Equal(t, 10*time.Minute, cfg.Run.ShutdownTimeout)
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, Default().Run.Input, cfg.Run.Input)
		assert.Equal(t, Default().Run.Workers, cfg.Run.Workers)
		assert.Equal(t, Default().Run.Delay, cfg.Run.Delay)
		assert.Empty(t, cfg.Run.Exclude)
	})

	t.Run("loads config from current directory", func(t *testing.T) {
		dir := chdirTemp(t)
		content := `
run:
  workers: 12
  severity: WARNING
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".logtriage.yaml"), []byte(content), 0o644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Run.Workers)
		assert.Equal(t, "WARNING", cfg.Run.Severity)
		// untouched keys keep their defaults
		assert.Equal(t, "servidor.log", cfg.Run.Input)
		assert.Equal(t, 100*time.Millisecond, cfg.Run.Delay)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configContent := `
format: ndjson
quiet: true
verbose: true
run:
  input: /var/log/app.log
  output: /tmp/report.txt
  input_format: ndjson
  severity: WARNING
  workers: 8
  delay: 250ms
  shutdown_timeout: 2m
  pattern: "^disk"
  exclude:
    - retrying
    - transient
`
		configPath := filepath.Join(tmpDir, "logtriage.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.True(t, cfg.Quiet)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "/var/log/app.log", cfg.Run.Input)
		assert.Equal(t, "/tmp/report.txt", cfg.Run.Output)
		assert.Equal(t, "ndjson", cfg.Run.InputFormat)
		assert.Equal(t, "WARNING", cfg.Run.Severity)
		assert.Equal(t, 8, cfg.Run.Workers)
		assert.Equal(t, 250*time.Millisecond, cfg.Run.Delay)
		assert.Equal(t, 2*time.Minute, cfg.Run.ShutdownTimeout)
		assert.Equal(t, "^disk", cfg.Run.Pattern)
		assert.Equal(t, []string{"retrying", "transient"}, cfg.Run.Exclude)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("finds .logtriage.yaml in current directory", func(t *testing.T) {
		tmpDir := chdirTemp(t)

		configPath := filepath.Join(tmpDir, ".logtriage.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("format: text"), 0o644))

		found := findConfigFile()
		// Resolve symlinks for comparison (macOS /var -> /private/var)
		expectedPath, err := filepath.EvalSymlinks(configPath)
		require.NoError(t, err)
		foundPath, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("prefers .logtriage.yaml over .logtriage.yml", func(t *testing.T) {
		tmpDir := chdirTemp(t)

		yamlPath := filepath.Join(tmpDir, ".logtriage.yaml")
		ymlPath := filepath.Join(tmpDir, ".logtriage.yml")
		require.NoError(t, os.WriteFile(yamlPath, []byte("format: yaml"), 0o644))
		require.NoError(t, os.WriteFile(ymlPath, []byte("format: yml"), 0o644))

		found := findConfigFile()
		expectedPath, err := filepath.EvalSymlinks(yamlPath)
		require.NoError(t, err)
		foundPath, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("finds config.yaml in the XDG directory", func(t *testing.T) {
		tmpDir := chdirTemp(t)

		appDir := filepath.Join(tmpDir, ".config", "logtriage")
		require.NoError(t, os.MkdirAll(appDir, 0o755))
		configPath := filepath.Join(appDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("format: text"), 0o644))

		assert.Equal(t, configPath, findConfigFile())
	})

	t.Run("returns empty string when no config found", func(t *testing.T) {
		chdirTemp(t)
		assert.Empty(t, findConfigFile())
	})
}

func TestEnvOverridesViaViper(t *testing.T) {
	t.Run("format overrides from env", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("LOGTRIAGE_FORMAT", "ndjson")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ndjson", cfg.Format)
	})

	t.Run("quiet overrides from env", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("LOGTRIAGE_QUIET", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Quiet)
	})

	t.Run("nested key via env replacer", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("LOGTRIAGE_RUN_SHUTDOWN_TIMEOUT", "30s")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Run.ShutdownTimeout)
	})

	t.Run("shortcut names", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("LOGTRIAGE_WORKERS", "42")
		t.Setenv("LOGTRIAGE_SEVERITY", "INFO")
		t.Setenv("LOGTRIAGE_DELAY", "5ms")
		t.Setenv("LOGTRIAGE_INPUT", "in.log")
		t.Setenv("LOGTRIAGE_OUTPUT", "out.txt")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 42, cfg.Run.Workers)
		assert.Equal(t, "INFO", cfg.Run.Severity)
		assert.Equal(t, 5*time.Millisecond, cfg.Run.Delay)
		assert.Equal(t, "in.log", cfg.Run.Input)
		assert.Equal(t, "out.txt", cfg.Run.Output)
	})

	t.Run("env beats config file", func(t *testing.T) {
		dir := chdirTemp(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "logtriage.yaml"), []byte("run:\n  workers: 3\n"), 0o644))
		t.Setenv("LOGTRIAGE_RUN_WORKERS", "9")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Run.Workers)
	})
}
