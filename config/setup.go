package config

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logchan/logger"
	"github.com/philipp01105/logchan/sink"
	"github.com/philipp01105/logchan/sink/consolesink"
	"github.com/philipp01105/logchan/sink/filesink"
)

// Setup is a channel wired with the sinks a Config enables.
type Setup struct {
	Channel *logger.Channel
	// Console is nil when the console sink is disabled
	Console *consolesink.ConsoleSink
	// File is nil when the file sink is disabled
	File *filesink.FileSink

	mu sync.Mutex // serializes Apply
}

// Build creates a channel named name with the configured sinks attached.
// The file sink is resumed, so a file that cannot be opened fails Build.
func (c *Config) Build(name string) (*Setup, error) {
	return c.BuildWith(name, nil)
}

// BuildWith is Build with an explicit diagnostics logger for the channel
// and its sinks.
func (c *Config) BuildWith(name string, diag *zap.Logger) (*Setup, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ch := logger.New(name, logger.Config{Diagnostics: diag})
	ch.SetThreshold(c.Level())
	s := &Setup{Channel: ch}

	if c.Console.Enabled {
		policy, _ := sink.ParseOverflowPolicy(c.Console.OverflowPolicy)
		color, _ := parseColorMode(c.Console.Color)
		s.Console = consolesink.New(consolesink.ConsoleConfig{
			TagPadding:       c.Console.TagPadding,
			MessageFormat:    c.Console.MessageFormat,
			AutoPrintBacklog: c.Console.AutoPrintBacklog,
			GroupSimilar:     c.Console.GroupSimilar,
			BacklogLimit:     c.Console.BacklogLimit,
			OverflowPolicy:   policy,
			Color:            color,
			Diagnostics:      diag,
		})
		ch.Attach(s.Console)
	}

	if c.File.Enabled {
		file, err := filesink.New(filesink.FileConfig{
			Filename:         c.File.Path,
			DisableTimestamp: !c.File.WriteTimestamp,
			TimestampFormat:  c.File.TimestampFormat,
			TagWidth:         c.File.TagWidth,
		})
		if err == nil {
			err = file.SetPaused(false)
		}
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("building file sink: %w", err), ch.Close())
		}
		s.File = file
		ch.Attach(file)
	}

	return s, nil
}

// Apply re-applies the runtime-adjustable settings of cfg: the threshold,
// console formatting and backlog behavior, and the file timestamp flag.
// Enabling or disabling a sink requires a new Build.
func (s *Setup) Apply(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Channel.SetThreshold(cfg.Level())
	if s.Console != nil {
		s.Console.SetTagPadding(cfg.Console.TagPadding)
		s.Console.SetAutoPrintBacklog(cfg.Console.AutoPrintBacklog)
		s.Console.SetGroupSimilar(cfg.Console.GroupSimilar)
		if err := s.Console.SetMessageFormat(cfg.Console.MessageFormat); err != nil {
			return err
		}
	}
	if s.File != nil {
		s.File.SetWriteTimestamp(cfg.File.WriteTimestamp)
	}
	return nil
}

// Close detaches and closes every sink of the setup.
func (s *Setup) Close() error {
	return s.Channel.Close()
}
