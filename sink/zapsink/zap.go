// Package zapsink provides a Sink that forwards entries into a zap logger,
// so a channel can feed an existing zap pipeline.
package zapsink

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/formatter"
	"github.com/philipp01105/logchan/sink"
)

// Sink writes each entry as one zap log record with "tag" and "channel"
// fields. It starts unpaused; entries arriving while paused are dropped.
type Sink struct {
	sink.PauseListeners

	logger *zap.Logger
	stats  *sink.Stats

	mu     sync.Mutex
	paused bool
	closed bool
}

var _ sink.Sink = (*Sink)(nil)
var _ sink.StatsProvider = (*Sink)(nil)

// New creates a sink writing to l. A nil logger yields a no-op sink.
func New(l *zap.Logger) *Sink {
	if l == nil {
		l = zap.NewNop()
	}
	return &Sink{logger: l, stats: sink.NewStats()}
}

// Level maps a severity onto a zap level.
func Level(l core.Level) zapcore.Level {
	switch l {
	case core.FineLevel, core.DebugLevel:
		return zapcore.DebugLevel
	case core.WarningLevel:
		return zapcore.WarnLevel
	case core.SevereLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Handle implements sink.Sink. The entry's own timestamp is kept.
func (s *Sink) Handle(entry core.Entry) error {
	s.mu.Lock()
	drop := s.paused || s.closed
	s.mu.Unlock()
	if drop {
		s.stats.IncrementDropped(entry.Level)
		return nil
	}

	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)

	var msg string
	out, renderErr := entry.AppendMessage(buf.AvailableBuffer())
	if renderErr != nil {
		msg = entry.RawMessage()
	} else {
		msg = string(out)
	}

	if ce := s.logger.Check(Level(entry.Level), msg); ce != nil {
		ce.Time = entry.Time
		if name := entry.SourceName(); name != "" {
			ce.Write(zap.String("tag", entry.Tag), zap.String("channel", name))
		} else {
			ce.Write(zap.String("tag", entry.Tag))
		}
	}

	if renderErr != nil {
		s.stats.IncrementFailed()
		return fmt.Errorf("zapsink: render %q: %w", entry.Tag, renderErr)
	}
	s.stats.IncrementProcessed()
	return nil
}

// Paused reports whether the sink is paused.
func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused pauses or resumes forwarding.
func (s *Sink) SetPaused(paused bool) error {
	err := s.Transition(paused, func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed && !paused {
			return false, sink.ErrClosed
		}
		s.paused = paused
		return true, nil
	})
	if err != nil || !paused {
		return err
	}
	return s.logger.Sync()
}

// Stats returns a snapshot of the current statistics
func (s *Sink) Stats() sink.Snapshot {
	return s.stats.GetSnapshot()
}

// Close syncs the logger and stops forwarding.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.logger.Sync()
}
