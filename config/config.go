package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/formatter"
	"github.com/philipp01105/logchan/sink"
	"github.com/philipp01105/logchan/sink/consolesink"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid logging configuration")

// Config is the root configuration structure.
// It is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Threshold string        `yaml:"threshold"`
	Console   ConsoleConfig `yaml:"console"`
	File      FileConfig    `yaml:"file"`
}

// ConsoleConfig configures the console sink.
type ConsoleConfig struct {
	Enabled          bool   `yaml:"enabled"`
	TagPadding       int    `yaml:"tag_padding"`
	MessageFormat    string `yaml:"message_format"`
	AutoPrintBacklog bool   `yaml:"auto_print_backlog"`
	GroupSimilar     bool   `yaml:"group_similar"`
	BacklogLimit     int    `yaml:"backlog_limit"`
	OverflowPolicy   string `yaml:"overflow_policy"`
	Color            string `yaml:"color"`
}

// FileConfig configures the file sink.
type FileConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Path            string `yaml:"path"`
	WriteTimestamp  bool   `yaml:"write_timestamp"`
	TimestampFormat string `yaml:"timestamp_format"`
	TagWidth        int    `yaml:"tag_width"`
}

// Default returns a Config with the defaults of every component: the
// Production threshold and an enabled console sink.
func Default() *Config {
	return &Config{
		Threshold: "production",
		Console: ConsoleConfig{
			Enabled:        true,
			MessageFormat:  formatter.DefaultMessageFormat,
			OverflowPolicy: "drop_newest",
			Color:          "auto",
		},
		File: FileConfig{
			Path:            "logchan.log",
			WriteTimestamp:  true,
			TimestampFormat: formatter.DefaultTimestampFormat,
			TagWidth:        formatter.DefaultTagWidth,
		},
	}
}

// Load reads configuration from a YAML file.
// Values not present in the file keep their defaults. Environment
// variables override file values:
//
//	LOGCHAN_THRESHOLD       threshold
//	LOGCHAN_FILE_PATH       file.path
//	LOGCHAN_FILE_ENABLED    file.enabled
//	LOGCHAN_CONSOLE_COLOR   console.color
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for configuration already in memory.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOGCHAN_THRESHOLD"); v != "" {
		cfg.Threshold = v
	}
	if v := os.Getenv("LOGCHAN_FILE_PATH"); v != "" {
		cfg.File.Path = v
	}
	if v := os.Getenv("LOGCHAN_FILE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LOGCHAN_FILE_ENABLED=%q is not a boolean", ErrInvalid, v)
		}
		cfg.File.Enabled = enabled
	}
	if v := os.Getenv("LOGCHAN_CONSOLE_COLOR"); v != "" {
		cfg.Console.Color = v
	}
	return nil
}

// Validate checks the configuration for errors. All problems are reported
// in one error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []string

	if _, err := core.ParseLevel(c.Threshold); err != nil {
		errs = append(errs, fmt.Sprintf("threshold: %v", err))
	}

	if c.Console.TagPadding < 0 {
		errs = append(errs, "console.tag_padding must not be negative")
	}
	if _, err := formatter.ParseMessageFormat(c.Console.MessageFormat); err != nil {
		errs = append(errs, fmt.Sprintf("console.message_format: %v", err))
	}
	if c.Console.BacklogLimit < 0 {
		errs = append(errs, "console.backlog_limit must not be negative")
	}
	if _, err := sink.ParseOverflowPolicy(c.Console.OverflowPolicy); err != nil {
		errs = append(errs, fmt.Sprintf("console.overflow_policy: %v", err))
	}
	if _, err := parseColorMode(c.Console.Color); err != nil {
		errs = append(errs, fmt.Sprintf("console.color: %v", err))
	}

	if c.File.Enabled && c.File.Path == "" {
		errs = append(errs, "file.path is required when the file sink is enabled")
	}
	if c.File.TagWidth < 0 {
		errs = append(errs, "file.tag_width must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// Level returns the parsed threshold. It falls back to ProductionLevels
// for a configuration that did not pass Validate.
func (c *Config) Level() core.Level {
	l, err := core.ParseLevel(c.Threshold)
	if err != nil {
		return core.ProductionLevels
	}
	return l
}

func parseColorMode(s string) (consolesink.ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return consolesink.ColorAuto, nil
	case "always", "on", "true":
		return consolesink.ColorAlways, nil
	case "never", "off", "false":
		return consolesink.ColorNever, nil
	default:
		return consolesink.ColorAuto, fmt.Errorf("unknown color mode %q", s)
	}
}
