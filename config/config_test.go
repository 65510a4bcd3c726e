package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/formatter"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "logging.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, core.ProductionLevels, cfg.Level())
	assert.True(t, cfg.Console.Enabled)
	assert.Equal(t, formatter.DefaultMessageFormat, cfg.Console.MessageFormat)
	assert.False(t, cfg.File.Enabled)
	assert.True(t, cfg.File.WriteTimestamp)
	assert.Equal(t, 16, cfg.File.TagWidth)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
threshold: info|severe
console:
  tag_padding: 8
  auto_print_backlog: true
  backlog_limit: 100
  overflow_policy: drop_oldest
  color: never
file:
  enabled: true
  path: app.log
  write_timestamp: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, core.InfoLevel|core.SevereLevel, cfg.Level())
	assert.True(t, cfg.Console.Enabled, "unset keys keep their defaults")
	assert.Equal(t, 8, cfg.Console.TagPadding)
	assert.True(t, cfg.Console.AutoPrintBacklog)
	assert.Equal(t, 100, cfg.Console.BacklogLimit)
	assert.Equal(t, "drop_oldest", cfg.Console.OverflowPolicy)
	assert.Equal(t, "never", cfg.Console.Color)
	assert.True(t, cfg.File.Enabled)
	assert.False(t, cfg.File.WriteTimestamp)
	assert.Equal(t, formatter.DefaultTimestampFormat, cfg.File.TimestampFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "threshold: production\n")
	t.Setenv("LOGCHAN_THRESHOLD", "all")
	t.Setenv("LOGCHAN_FILE_PATH", "/tmp/override.log")
	t.Setenv("LOGCHAN_FILE_ENABLED", "true")
	t.Setenv("LOGCHAN_CONSOLE_COLOR", "always")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, core.AllLevels, cfg.Level())
	assert.Equal(t, "/tmp/override.log", cfg.File.Path)
	assert.True(t, cfg.File.Enabled)
	assert.Equal(t, "always", cfg.Console.Color)
}

func TestLoad_InvalidEnvBool(t *testing.T) {
	t.Setenv("LOGCHAN_FILE_ENABLED", "maybe")
	_, err := Parse([]byte("{}"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Threshold = "loud"
	cfg.Console.TagPadding = -1
	cfg.Console.MessageFormat = "{tag} {bogus}"
	cfg.Console.OverflowPolicy = "block"
	cfg.Console.Color = "rainbow"
	cfg.File.Enabled = true
	cfg.File.Path = ""

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{
		"threshold",
		"console.tag_padding",
		"console.message_format",
		"console.overflow_policy",
		"console.color",
		"file.path",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("threshold: [unclosed"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Threshold = "all"
	cfg.Console.Enabled = false
	cfg.File.Enabled = true
	cfg.File.Path = filepath.Join(dir, "logs", "app.log")
	cfg.File.WriteTimestamp = false

	setup, err := cfg.Build("app")
	require.NoError(t, err)
	assert.Nil(t, setup.Console)
	require.NotNil(t, setup.File)
	assert.True(t, setup.File.IsOpen(), "Build resumes the file sink")
	assert.Equal(t, "app", setup.Channel.Name())
	assert.Equal(t, core.AllLevels, setup.Channel.Threshold())

	setup.Channel.Fine("Boot", "starting {0}", "v1")
	require.NoError(t, setup.Close())
	assert.False(t, setup.File.IsOpen())

	data, err := os.ReadFile(cfg.File.Path)
	require.NoError(t, err)
	assert.Equal(t, "[            Boot] starting v1\n", string(data))
}

func TestBuild_Console(t *testing.T) {
	cfg := Default()
	cfg.Console.TagPadding = 10
	cfg.Console.Color = "never"

	setup, err := cfg.Build("app")
	require.NoError(t, err)
	defer setup.Close()

	require.NotNil(t, setup.Console)
	assert.Nil(t, setup.File)
	assert.Equal(t, 10, setup.Console.TagPadding())
	assert.False(t, setup.Console.ColorEnabled())
	assert.Len(t, setup.Channel.Sinks(), 1)
}

func TestBuild_FileOpenError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := Default()
	cfg.Console.Enabled = false
	cfg.File.Enabled = true
	cfg.File.Path = filepath.Join(blocker, "app.log")

	_, err := cfg.Build("app")
	assert.Error(t, err)
}

func TestSetup_Apply(t *testing.T) {
	cfg := Default()
	cfg.Console.Color = "never"
	setup, err := cfg.Build("app")
	require.NoError(t, err)
	defer setup.Close()

	next := Default()
	next.Threshold = "debugging"
	next.Console.TagPadding = 4
	next.Console.MessageFormat = "{tag}: {message}"
	next.Console.AutoPrintBacklog = true
	require.NoError(t, setup.Apply(next))

	assert.Equal(t, core.DebuggingLevels, setup.Channel.Threshold())
	assert.Equal(t, 4, setup.Console.TagPadding())
	assert.Equal(t, "{tag}: {message}", setup.Console.MessageFormat())
	assert.True(t, setup.Console.AutoPrintBacklog())

	bad := Default()
	bad.Threshold = "nope"
	assert.ErrorIs(t, setup.Apply(bad), ErrInvalid)
	assert.Equal(t, core.DebuggingLevels, setup.Channel.Threshold(), "invalid config must not be applied")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "threshold: production\nconsole:\n  enabled: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	setup, err := cfg.Build("app")
	require.NoError(t, err)
	defer setup.Close()

	obsCore, logs := observer.New(zap.InfoLevel)
	w, err := Watch(context.Background(), path, setup, zap.New(obsCore))
	require.NoError(t, err)
	defer w.Close()

	writeConfig(t, dir, "threshold: all\nconsole:\n  enabled: false\n")
	require.Eventually(t, func() bool {
		return setup.Channel.Threshold() == core.AllLevels
	}, 5*time.Second, 20*time.Millisecond)

	// a broken file is reported and leaves the running setup alone
	writeConfig(t, dir, "threshold: [broken\n")
	require.Eventually(t, func() bool {
		return logs.FilterMessage("config reload failed").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, core.AllLevels, setup.Channel.Threshold())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "console:\n  enabled: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	setup, err := cfg.Build("app")
	require.NoError(t, err)
	defer setup.Close()

	ctx, cancel := context.WithCancel(context.Background())
	w, err := Watch(ctx, path, setup, zap.NewNop())
	require.NoError(t, err)

	cancel()
	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after context cancel")
	}
	assert.NoError(t, w.Close())
}
