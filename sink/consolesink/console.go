package consolesink

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/formatter"
	"github.com/philipp01105/logchan/sink"
)

const (
	// BacklogBeginMarker is printed before a drained backlog
	BacklogBeginMarker = "### Printing logger backlog ###"
	// BacklogEndMarker is printed after a drained backlog
	BacklogEndMarker = "### End of logger backlog ###"
)

// ConsoleConfig holds configuration for the console sink. The zero value
// is a valid configuration.
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Palette holds the per-level colors (default: DefaultPalette)
	Palette Palette
	// TagPadding pads tags with spaces on the right to this width (default: 0)
	TagPadding int
	// MessageFormat is the line layout with {tag} and {message} slots
	// (default: formatter.DefaultMessageFormat)
	MessageFormat string
	// AutoPrintBacklog buffers entries while paused and prints them on
	// resume. When false, entries arriving while paused are dropped.
	AutoPrintBacklog bool
	// GroupSimilar blanks the tag of consecutive entries with the same tag
	// and separates tag groups with an empty line
	GroupSimilar bool
	// BacklogLimit bounds the backlog; 0 means unbounded
	BacklogLimit int
	// OverflowPolicy applies when the backlog is full (default: DropNewest)
	OverflowPolicy sink.OverflowPolicy
	// Color selects when ANSI colors are written (default: ColorAuto)
	Color ColorMode
	// Diagnostics receives configuration problems (default: sink.Diagnostics)
	Diagnostics *zap.Logger
}

// ConsoleSink writes colored lines to a terminal. It can be paused, in
// which case entries are either kept in a backlog or dropped.
type ConsoleSink struct {
	sink.PauseListeners

	mu           sync.Mutex // guards everything below
	writer       io.Writer
	useColor     bool
	palette      Palette
	colors       colorSet
	tagPadding   int
	format       *formatter.MessageTemplate
	formatSrc    string
	formatErr    error
	autoPrint    bool
	groupSimilar bool
	lastTag      string
	hasLastTag   bool
	backlog      backlog
	paused       bool
	closed       bool
	buf          bytes.Buffer
	stats        *sink.Stats
	diag         *zap.Logger
}

var _ sink.Sink = (*ConsoleSink)(nil)
var _ sink.StatsProvider = (*ConsoleSink)(nil)

// New creates a console sink. An invalid MessageFormat does not fail
// construction: it is reported to diagnostics and lines are rendered in
// the fallback form "[tag] message".
func New(cfg ConsoleConfig) *ConsoleSink {
	if cfg.Palette == (Palette{}) {
		cfg.Palette = DefaultPalette()
	}
	if cfg.MessageFormat == "" {
		cfg.MessageFormat = formatter.DefaultMessageFormat
	}

	w, useColor := resolveWriter(cfg.Writer, cfg.Color)
	s := &ConsoleSink{
		writer:       w,
		useColor:     useColor,
		palette:      cfg.Palette,
		colors:       newColorSet(cfg.Palette, useColor),
		tagPadding:   cfg.TagPadding,
		autoPrint:    cfg.AutoPrintBacklog,
		groupSimilar: cfg.GroupSimilar,
		backlog:      backlog{limit: cfg.BacklogLimit, policy: cfg.OverflowPolicy},
		stats:        sink.NewStats(),
		diag:         cfg.Diagnostics,
	}
	s.buf.Grow(256)

	if err := s.setFormat(cfg.MessageFormat); err != nil {
		sink.DiagnosticsOr(s.diag).Warn("console sink: invalid message format",
			zap.String("format", cfg.MessageFormat), zap.Error(err))
	}
	return s
}

// Handle renders entry, or queues it when the sink is paused.
func (s *ConsoleSink) Handle(entry core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.stats.IncrementDropped(entry.Level)
		return nil
	}
	if s.paused {
		if !s.autoPrint {
			s.stats.IncrementDropped(entry.Level)
			return nil
		}
		if dropped, overflow := s.backlog.push(sink.QueuedEntry{Entry: entry, QueuedAt: entry.Time}); overflow {
			s.stats.IncrementDropped(dropped.Entry.Level)
		}
		return nil
	}
	return s.render(&entry)
}

// Paused reports whether the sink is paused.
func (s *ConsoleSink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused pauses or resumes the sink. Resuming prints the backlog
// between marker lines when AutoPrintBacklog is set and discards it
// otherwise; the returned error combines the render errors of the drained
// entries. Pause listeners run after the state change and outside the
// sink lock, before SetPaused returns. Concurrent calls notify in the
// order their state changes happened.
func (s *ConsoleSink) SetPaused(paused bool) error {
	return s.Transition(paused, func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return false, sink.ErrClosed
		}

		s.paused = paused
		var err error
		switch {
		case paused:
			// the first entry after a pause shows its tag again
			s.hasLastTag = false
		case s.autoPrint:
			err = s.printBacklog()
		default:
			for _, q := range s.backlog.drain() {
				s.stats.IncrementDropped(q.Entry.Level)
			}
		}
		return true, err
	})
}

// Backlog returns the number of queued entries.
func (s *ConsoleSink) Backlog() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backlog.len()
}

// Stats returns a snapshot of the current statistics
func (s *ConsoleSink) Stats() sink.Snapshot {
	return s.stats.GetSnapshot()
}

// Close discards the backlog and stops output. It is idempotent.
func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, q := range s.backlog.drain() {
		s.stats.IncrementDropped(q.Entry.Level)
	}
	return nil
}

// Palette returns the current colors.
func (s *ConsoleSink) Palette() Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette
}

// SetPalette replaces the colors. A zero Palette restores the defaults.
func (s *ConsoleSink) SetPalette(p Palette) {
	if p == (Palette{}) {
		p = DefaultPalette()
	}
	s.mu.Lock()
	s.palette = p
	s.colors = newColorSet(p, s.useColor)
	s.mu.Unlock()
}

// ColorEnabled reports whether ANSI colors are written.
func (s *ConsoleSink) ColorEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useColor
}

// TagPadding returns the tag padding width.
func (s *ConsoleSink) TagPadding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tagPadding
}

// SetTagPadding sets the tag padding width.
func (s *ConsoleSink) SetTagPadding(n int) {
	s.mu.Lock()
	s.tagPadding = n
	s.mu.Unlock()
}

// MessageFormat returns the configured message format.
func (s *ConsoleSink) MessageFormat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatSrc
}

// SetMessageFormat replaces the message format. An invalid format is
// still applied, so lines fall back to "[tag] message", and its parse
// error is returned.
func (s *ConsoleSink) SetMessageFormat(format string) error {
	if format == "" {
		format = formatter.DefaultMessageFormat
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFormat(format)
}

// AutoPrintBacklog reports whether paused entries are kept for resume.
func (s *ConsoleSink) AutoPrintBacklog() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoPrint
}

// SetAutoPrintBacklog toggles backlog buffering.
func (s *ConsoleSink) SetAutoPrintBacklog(v bool) {
	s.mu.Lock()
	s.autoPrint = v
	s.mu.Unlock()
}

// GroupSimilar reports whether consecutive tags are grouped.
func (s *ConsoleSink) GroupSimilar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupSimilar
}

// SetGroupSimilar toggles tag grouping.
func (s *ConsoleSink) SetGroupSimilar(v bool) {
	s.mu.Lock()
	s.groupSimilar = v
	s.hasLastTag = false
	s.mu.Unlock()
}

// setFormat must be called with mu held.
func (s *ConsoleSink) setFormat(format string) error {
	t, err := formatter.ParseMessageFormat(format)
	s.formatSrc = format
	s.format = t
	s.formatErr = err
	return err
}

// printBacklog must be called with mu held. Nothing is printed for an
// empty backlog.
func (s *ConsoleSink) printBacklog() error {
	queued := s.backlog.drain()
	if len(queued) == 0 {
		return nil
	}

	s.hasLastTag = false
	err := s.writeMarker(BacklogBeginMarker)
	for i := range queued {
		err = multierr.Append(err, s.render(&queued[i].Entry))
	}
	s.hasLastTag = false
	return multierr.Append(err, s.writeMarker(BacklogEndMarker))
}

func (s *ConsoleSink) writeMarker(text string) error {
	s.buf.Reset()
	s.buf.WriteString(text)
	s.buf.WriteByte('\n')
	return s.writeLine(s.colors.backlog, s.buf.Bytes())
}

// render must be called with mu held. A template error still produces a
// line (with the raw message) and is returned afterwards.
func (s *ConsoleSink) render(entry *core.Entry) error {
	s.buf.Reset()
	tag := s.groupTag(entry.Tag)

	var renderErr error
	if s.format != nil {
		renderErr = s.format.Render(&s.buf, tag, entry)
	} else {
		s.buf.WriteByte('[')
		s.buf.WriteString(tag)
		s.buf.WriteString("] ")
		s.buf.WriteString(entry.RawMessage())
		renderErr = s.formatErr
	}
	s.buf.WriteByte('\n')

	writeErr := s.writeLine(s.colors.forLevel(entry.Level), s.buf.Bytes())
	if renderErr != nil || writeErr != nil {
		s.stats.IncrementFailed()
	} else {
		s.stats.IncrementProcessed()
	}

	if renderErr != nil {
		renderErr = fmt.Errorf("console sink: render %q: %w", entry.Tag, renderErr)
	}
	if writeErr != nil {
		writeErr = fmt.Errorf("console sink: write: %w", writeErr)
	}
	return multierr.Append(renderErr, writeErr)
}

// groupTag returns the tag as it appears in the line. With GroupSimilar a
// repeated tag is blanked, and a tag change starts with an empty line.
func (s *ConsoleSink) groupTag(tag string) string {
	if !s.groupSimilar {
		return core.PadRight(tag, s.tagPadding)
	}

	repeated := s.hasLastTag && tag == s.lastTag
	if s.hasLastTag && !repeated {
		s.buf.WriteByte('\n')
	}
	s.lastTag, s.hasLastTag = tag, true

	if repeated {
		return strings.Repeat(" ", max(s.tagPadding, utf8.RuneCountInString(tag)))
	}
	return core.PadRight(tag, s.tagPadding)
}

// writeLine writes one newline-terminated line while holding the terminal
// lock. The color reset is deferred inside Fprint, so it is written even
// when the text write fails.
func (s *ConsoleSink) writeLine(c *color.Color, line []byte) error {
	terminalMu.Lock()
	defer terminalMu.Unlock()

	if !s.useColor {
		_, err := s.writer.Write(line)
		return err
	}

	// color only the text so the reset lands before the newline
	_, err := c.Fprint(s.writer, string(line[:len(line)-1]))
	_, nlErr := io.WriteString(s.writer, "\n")
	return multierr.Append(err, nlErr)
}
