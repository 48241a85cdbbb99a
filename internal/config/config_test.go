package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears HOMEPLAN_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{EnvDB, EnvConfig, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".homeplan", "homeplan.db"), cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, FormatText, cfg.LogFormat)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cfg.Weekend)
	assert.Empty(t, cfg.Holidays)
}

func TestLoad_DefaultFileIsRead(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".homeplan", "config.yaml"), `
db: /srv/homeplan.db
log:
  level: debug
  format: JSON
calendar:
  weekend: [Sunday]
  holidays: ["2025-07-04", "2025-12-25"]
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/homeplan.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.LogFormat)
	assert.Equal(t, []time.Weekday{time.Sunday}, cfg.Weekend)
	require.Len(t, cfg.Holidays, 2)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), cfg.Holidays[0])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "db: /from/file.db\nlog:\n  level: debug\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDB, "/from/env.db")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"weekday": "calendar:\n  weekend: [caturday]\n",
		"holiday": "calendar:\n  holidays: [\"25/12/2025\"]\n",
		"level":   "log:\n  level: loud\n",
		"format":  "log:\n  format: xml\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, path, content)
			t.Setenv(EnvConfig, path)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseWeekday_Abbreviations(t *testing.T) {
	d, err := parseWeekday("Fri")
	require.NoError(t, err)
	assert.Equal(t, time.Friday, d)
}

func TestConfig_Calendar(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Holidays = []time.Time{time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)}

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	assert.False(t, cal.IsWorkingDay(time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsWorkingDay(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)), "Saturday")
	assert.True(t, cal.IsWorkingDay(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default(t.TempDir())
	cfg.LogFormat = FormatJSON
	cfg.Logger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.LogFormat = FormatText
	cfg.LogLevel = slog.LevelWarn
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
