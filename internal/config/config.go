// Package config resolves runtime settings from defaults, an optional YAML
// file and HOMEPLAN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/homeplan/internal/scheduler"
	"gopkg.in/yaml.v3"
)

const (
	EnvDB        = "HOMEPLAN_DB"
	EnvConfig    = "HOMEPLAN_CONFIG"
	EnvLogLevel  = "HOMEPLAN_LOG_LEVEL"
	EnvLogFormat = "HOMEPLAN_LOG_FORMAT"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all runtime configuration.
type Config struct {
	DBPath    string
	LogLevel  slog.Level
	LogFormat string
	Weekend   []time.Weekday
	Holidays  []time.Time
}

// fileConfig mirrors the YAML file layout.
type fileConfig struct {
	DB  string `yaml:"db"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Calendar struct {
		Weekend  []string `yaml:"weekend"`
		Holidays []string `yaml:"holidays"`
	} `yaml:"calendar"`
}

// Default returns a Config with the built-in defaults rooted at homeDir.
func Default(homeDir string) Config {
	return Config{
		DBPath:    filepath.Join(homeDir, ".homeplan", "homeplan.db"),
		LogLevel:  slog.LevelInfo,
		LogFormat: FormatText,
		Weekend:   []time.Weekday{time.Saturday, time.Sunday},
	}
}

// Load reads configuration. The YAML file is taken from HOMEPLAN_CONFIG or
// ~/.homeplan/config.yaml; a missing default file is not an error.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Default(home)

	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".homeplan", "config.yaml")
	}
	if err := cfg.applyFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if cfg.LogFormat != FormatText && cfg.LogFormat != FormatJSON {
		return Config{}, fmt.Errorf("log format must be %q or %q, got %q", FormatText, FormatJSON, cfg.LogFormat)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.DB != "" {
		c.DBPath = fc.DB
	}
	if fc.Log.Level != "" {
		if err := c.LogLevel.UnmarshalText([]byte(fc.Log.Level)); err != nil {
			return fmt.Errorf("config log.level: %w", err)
		}
	}
	if fc.Log.Format != "" {
		c.LogFormat = strings.ToLower(fc.Log.Format)
	}
	if fc.Calendar.Weekend != nil {
		c.Weekend = c.Weekend[:0:0]
		for _, name := range fc.Calendar.Weekend {
			d, err := parseWeekday(name)
			if err != nil {
				return fmt.Errorf("config calendar.weekend: %w", err)
			}
			c.Weekend = append(c.Weekend, d)
		}
	}
	for _, s := range fc.Calendar.Holidays {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return fmt.Errorf("config calendar.holidays: invalid date %q (expected YYYY-MM-DD)", s)
		}
		c.Holidays = append(c.Holidays, d)
	}
	return nil
}

func parseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Calendar builds the working-day calendar.
func (c Config) Calendar() (scheduler.Calendar, error) {
	return scheduler.NewCalendar(c.Weekend, c.Holidays)
}

// Logger builds a slog logger writing to w in the configured format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
