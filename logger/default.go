package logger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/sink"
	"github.com/philipp01105/logchan/sink/consolesink"
)

// GlobalName is the name of the default channel.
const GlobalName = "global"

var (
	defaultChannel = New(GlobalName, Config{})
	defaultMu      sync.RWMutex
)

// Default returns the default channel. It starts with the Production
// threshold and no sinks.
func Default() *Channel {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultChannel
}

// SetDefault sets the default channel. A nil channel is ignored.
func SetDefault(c *Channel) {
	if c == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultChannel = c
}

// QuickSetup sets the default channel's threshold to the union of levels
// (AllLevels when none are given), attaches a console sink with default
// settings and returns it.
func QuickSetup(levels ...core.Level) *consolesink.ConsoleSink {
	threshold := core.AllLevels
	if len(levels) > 0 {
		threshold = core.NoLevels
		for _, l := range levels {
			threshold |= l
		}
	}

	console := consolesink.New(consolesink.ConsoleConfig{})
	c := Default()
	c.SetThreshold(threshold)
	c.Attach(console)
	return console
}

// Package-level convenience functions using the default channel

// Threshold returns the default channel's threshold
func Threshold() core.Level {
	return Default().Threshold()
}

// SetThreshold sets the default channel's threshold
func SetThreshold(l core.Level) {
	Default().SetThreshold(l)
}

// Attach attaches a sink to the default channel
func Attach(s sink.Sink) {
	Default().Attach(s)
}

// Detach detaches a sink from the default channel
func Detach(s sink.Sink) {
	Default().Detach(s)
}

// DetachAll detaches every sink from the default channel
func DetachAll() {
	Default().DetachAll()
}

// Observe registers an observer on the default channel
func Observe(fn Observer) uuid.UUID {
	return Default().Observe(fn)
}

// Unobserve removes an observer from the default channel
func Unobserve(id uuid.UUID) bool {
	return Default().Unobserve(id)
}

// Emit emits an entry on the default channel
func Emit(level core.Level, tag, template string, args ...any) {
	Default().Emit(level, tag, template, args...)
}

// Fine emits a FineLevel entry on the default channel
func Fine(tag, template string, args ...any) {
	Default().Fine(tag, template, args...)
}

// Debug emits a DebugLevel entry on the default channel
func Debug(tag, template string, args ...any) {
	Default().Debug(tag, template, args...)
}

// Info emits an InfoLevel entry on the default channel
func Info(tag, template string, args ...any) {
	Default().Info(tag, template, args...)
}

// Warn emits a WarningLevel entry on the default channel
func Warn(tag, template string, args ...any) {
	Default().Warn(tag, template, args...)
}

// Severe emits a SevereLevel entry on the default channel
func Severe(tag, template string, args ...any) {
	Default().Severe(tag, template, args...)
}

// LogStackTrace logs err with its stack trace on the default channel
func LogStackTrace(err error) {
	Default().LogStackTrace(err)
}

// LogFullStackTrace logs the whole error chain on the default channel
func LogFullStackTrace(err error) {
	Default().LogFullStackTrace(err)
}
