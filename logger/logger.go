package logger

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/sink"
)

// Observer is a plain callback that sees every entry passing the channel
// threshold, before any sink does. The template is not formatted.
type Observer func(level core.Level, tag, template string, args []any)

// Config holds configuration for a Channel. The zero value is valid.
type Config struct {
	// Threshold is the initial level mask (default: ProductionLevels).
	// Use SetThreshold(NoLevels) to silence a channel.
	Threshold core.Level
	// Diagnostics receives sink failures (default: sink.Diagnostics)
	Diagnostics *zap.Logger
	// Clock stamps entries (default: core.SystemClock)
	Clock core.Clock
}

// ChannelStats counts what a channel did with the entries it was given.
type ChannelStats struct {
	// Emitted entries passed the threshold
	Emitted uint64
	// Filtered entries were rejected by the threshold
	Filtered uint64
	// SinkErrors counts failed or panicking Handle calls
	SinkErrors uint64
}

// Channel is a dispatch point: it filters entries against a level mask
// and fans them out to its observers and attached sinks, in that order.
type Channel struct {
	name      string
	threshold atomic.Uint32
	clock     core.Clock
	diag      *zap.Logger

	mu    sync.RWMutex
	sinks []sink.Sink // copy-on-write, replaced under mu

	observers core.Subscribers[Observer]

	emitted    atomic.Uint64
	filtered   atomic.Uint64
	sinkErrors atomic.Uint64
}

// New creates a channel with no sinks attached.
func New(name string, cfg Config) *Channel {
	if cfg.Threshold == core.NoLevels {
		cfg.Threshold = core.ProductionLevels
	}
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock
	}

	c := &Channel{
		name:  name,
		clock: cfg.Clock,
		diag:  cfg.Diagnostics,
	}
	c.threshold.Store(uint32(cfg.Threshold))
	return c
}

// Name returns the channel name. It makes a Channel a core.Source.
func (c *Channel) Name() string {
	return c.name
}

// Threshold returns the current level mask.
func (c *Channel) Threshold() core.Level {
	return core.Level(c.threshold.Load())
}

// SetThreshold replaces the level mask. Any combination is accepted.
func (c *Channel) SetThreshold(l core.Level) {
	c.threshold.Store(uint32(l))
}

// Enabled reports whether entries of the given level pass the threshold.
func (c *Channel) Enabled(level core.Level) bool {
	return core.Passes(level, c.Threshold())
}

// Attach adds s to the sink set. Attaching a sink that is already present
// or a nil sink does nothing.
func (c *Channel) Attach(s sink.Sink) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.sinks {
		if existing == s {
			return
		}
	}

	next := make([]sink.Sink, len(c.sinks), len(c.sinks)+1)
	copy(next, c.sinks)
	c.sinks = append(next, s)
}

// Detach removes s from the sink set. Detaching an absent sink does
// nothing. Emit calls that started before Detach returned may still
// deliver to s, so Close a detached sink only once those calls are done.
func (c *Channel) Detach(s sink.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.sinks {
		if existing == s {
			next := make([]sink.Sink, 0, len(c.sinks)-1)
			next = append(next, c.sinks[:i]...)
			c.sinks = append(next, c.sinks[i+1:]...)
			return
		}
	}
}

// DetachAll clears the sink set. In-flight Emit calls behave as for Detach.
func (c *Channel) DetachAll() {
	c.mu.Lock()
	c.sinks = nil
	c.mu.Unlock()
}

// Sinks returns the attached sinks in attachment order.
func (c *Channel) Sinks() []sink.Sink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]sink.Sink, len(c.sinks))
	copy(out, c.sinks)
	return out
}

// Close detaches every sink and closes it. A sink shared with another
// channel is closed there too.
func (c *Channel) Close() error {
	c.mu.Lock()
	sinks := c.sinks
	c.sinks = nil
	c.mu.Unlock()

	var err error
	for _, s := range sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// Observe registers fn and returns its handle.
func (c *Channel) Observe(fn Observer) uuid.UUID {
	return c.observers.Subscribe(fn)
}

// Unobserve removes the observer registered under id.
func (c *Channel) Unobserve(id uuid.UUID) bool {
	return c.observers.Unsubscribe(id)
}

// Stats returns the channel counters.
func (c *Channel) Stats() ChannelStats {
	return ChannelStats{
		Emitted:    c.emitted.Load(),
		Filtered:   c.filtered.Load(),
		SinkErrors: c.sinkErrors.Load(),
	}
}

// Emit dispatches one entry. If level does not pass the threshold nothing
// else happens. Otherwise every observer is called in registration order,
// then every sink in attachment order. A failing or panicking sink is
// reported to diagnostics and does not stop the others.
func (c *Channel) Emit(level core.Level, tag, template string, args ...any) {
	// Level check first, before the entry or the sink snapshot is built
	if !core.Passes(level, c.Threshold()) {
		c.filtered.Add(1)
		return
	}
	c.emitted.Add(1)

	entry := core.Entry{
		Time:     c.clock(),
		Level:    level,
		Tag:      tag,
		Template: template,
		Args:     args,
		Source:   c,
	}

	for _, fn := range c.observers.Snapshot() {
		c.notify(fn, &entry)
	}

	c.mu.RLock()
	sinks := c.sinks
	c.mu.RUnlock()
	for _, s := range sinks {
		c.dispatch(s, entry)
	}
}

// Fine emits a FineLevel entry
func (c *Channel) Fine(tag, template string, args ...any) {
	c.Emit(core.FineLevel, tag, template, args...)
}

// Debug emits a DebugLevel entry
func (c *Channel) Debug(tag, template string, args ...any) {
	c.Emit(core.DebugLevel, tag, template, args...)
}

// Info emits an InfoLevel entry
func (c *Channel) Info(tag, template string, args ...any) {
	c.Emit(core.InfoLevel, tag, template, args...)
}

// Warn emits a WarningLevel entry
func (c *Channel) Warn(tag, template string, args ...any) {
	c.Emit(core.WarningLevel, tag, template, args...)
}

// Severe emits a SevereLevel entry
func (c *Channel) Severe(tag, template string, args ...any) {
	c.Emit(core.SevereLevel, tag, template, args...)
}

func (c *Channel) dispatch(s sink.Sink, entry core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			c.sinkErrors.Add(1)
			c.report("sink panicked", fmt.Sprintf("%T", s), &entry, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.Handle(entry); err != nil {
		c.sinkErrors.Add(1)
		c.report("sink failed", fmt.Sprintf("%T", s), &entry, err)
	}
}

func (c *Channel) notify(fn Observer, entry *core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			c.report("observer panicked", "observer", entry, fmt.Errorf("panic: %v", r))
		}
	}()
	fn(entry.Level, entry.Tag, entry.Template, entry.Args)
}

func (c *Channel) report(msg, target string, entry *core.Entry, err error) {
	sink.DiagnosticsOr(c.diag).Warn(msg,
		zap.String("channel", c.name),
		zap.String("sink", target),
		zap.String("tag", entry.Tag),
		zap.Stringer("level", entry.Level),
		zap.Error(err),
	)
}
