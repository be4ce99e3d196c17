package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/store"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8556, cfg.Port)
	assert.Equal(t, "127.0.0.1:8556", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "qrcode", cfg.Filename)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout.Duration)
	assert.Equal(t, store.DefaultConfiguration(), cfg.Defaults)
	assert.Equal(t, store.DefaultSizeBounds(), cfg.SizeBounds)
	assert.Equal(t, 30*time.Second, cfg.Notifications.TTL.Duration)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeFile(t, dir, "config.yaml", `
port: 9000
log_level: debug
filename: ticket
shutdown_timeout: 3s
defaults:
  content: hello
  foreground: "#112233"
  size: 300
  error_correction: high
  style: dots
size_bounds:
  min: 100
  max: 800
  step: 100
notifications:
  capacity: 5
  ttl: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ticket", cfg.Filename)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout.Duration)
	assert.Equal(t, "hello", cfg.Defaults.Content)
	assert.Equal(t, "#112233", cfg.Defaults.Foreground)
	assert.Equal(t, "#ffffff", cfg.Defaults.Background, "unset fields keep defaults")
	assert.Equal(t, store.LevelHigh, cfg.Defaults.ErrorCorrection)
	assert.Equal(t, store.StyleDots, cfg.Defaults.Style)
	assert.Equal(t, store.SizeBounds{Min: 100, Max: 800, Step: 100}, cfg.SizeBounds)
	assert.Equal(t, 5, cfg.Notifications.Capacity)
	assert.Equal(t, time.Minute, cfg.Notifications.TTL.Duration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QRS_PORT", "7000")
	t.Setenv("QRS_BIND", "0.0.0.0")
	t.Setenv("QRS_LOG_LEVEL", "warn")
	t.Setenv("QRS_OUTPUT_DIR", "/tmp/qr")
	t.Setenv("QRS_NOTIFY_TTL", "5s")
	t.Setenv("QRS_WEBHOOK_URL", "http://127.0.0.1:9000/hook")
	t.Setenv("QRS_DEFAULT_CONTENT", "")
	t.Setenv("QRS_DEFAULT_STYLE", "dots")
	t.Setenv("QRS_DEFAULT_LEVEL", "Q")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Addr())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/qr", cfg.OutputDir)
	assert.Equal(t, 5*time.Second, cfg.Notifications.TTL.Duration)
	assert.Equal(t, "http://127.0.0.1:9000/hook", cfg.WebhookURL)
	assert.Empty(t, cfg.Defaults.Content)
	assert.Equal(t, store.StyleDots, cfg.Defaults.Style)
	assert.Equal(t, store.LevelQuartile, cfg.Defaults.ErrorCorrection)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "QRS_FILENAME=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("QRS_FILENAME") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Filename)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "port: [")
		_, err := Load(path)
		assert.ErrorContains(t, err, "parsing config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeFile(t, dir, "dur.yaml", "shutdown_timeout: soon\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid duration")
	})

	t.Run("bad bounds", func(t *testing.T) {
		path := writeFile(t, dir, "bounds.yaml", "size_bounds: {min: 500, max: 100, step: 50}\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("bad default style", func(t *testing.T) {
		path := writeFile(t, dir, "style.yaml", "defaults: {style: hex}\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, store.ErrUnknownStyle)
	})

	t.Run("bad env level", func(t *testing.T) {
		t.Setenv("QRS_DEFAULT_LEVEL", "Z")
		_, err := Load("")
		assert.ErrorIs(t, err, store.ErrUnknownLevel)
	})
}

func TestDuration_MarshalYAML(t *testing.T) {
	t.Parallel()

	v, err := Duration{90 * time.Second}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", v)
}
