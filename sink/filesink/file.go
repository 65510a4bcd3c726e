package filesink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/formatter"
	"github.com/philipp01105/logchan/sink"
)

// ErrClosed is returned by SetPaused(false) after Close.
var ErrClosed = sink.ErrClosed

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Filename is the path to the log file, resolved to an absolute path
	Filename string
	// DisableTimestamp drops the "<timestamp> | " line prefix
	DisableTimestamp bool
	// TimestampFormat is a time layout (default: formatter.DefaultTimestampFormat)
	TimestampFormat string
	// TagWidth is the padded tag width (default: formatter.DefaultTagWidth)
	TagWidth int
	// LeftAlignTag pads tags on the right instead of the left
	LeftAlignTag bool
	// BufferSize is the size of the write buffer (default: 4096)
	BufferSize int
}

// FileSink appends flat text lines to a file. It starts paused and holds
// an open handle only while unpaused.
type FileSink struct {
	sink.PauseListeners

	mu        sync.Mutex // guards everything below
	filename  string
	file      *os.File
	bufWriter *bufio.Writer
	bufSize   int
	line      *formatter.LineFormatter
	paused    bool
	closed    bool
	stats     *sink.Stats
}

var _ sink.Sink = (*FileSink)(nil)
var _ sink.StatsProvider = (*FileSink)(nil)

// New creates a paused file sink for cfg.Filename. The file is neither
// created nor opened until the sink is resumed.
func New(cfg FileConfig) (*FileSink, error) {
	if cfg.Filename == "" {
		return nil, errors.New("filesink: filename is required")
	}
	abs, err := filepath.Abs(cfg.Filename)
	if err != nil {
		return nil, fmt.Errorf("filesink: resolve %q: %w", cfg.Filename, err)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}

	s := &FileSink{
		filename: abs,
		bufSize:  cfg.BufferSize,
		line: formatter.NewLineFormatter(formatter.LineConfig{
			DisableTimestamp: cfg.DisableTimestamp,
			TimestampFormat:  cfg.TimestampFormat,
			TagWidth:         cfg.TagWidth,
			LeftAlignTag:     cfg.LeftAlignTag,
		}),
		paused: true,
		stats:  sink.NewStats(),
	}
	return s, nil
}

// Handle appends one line, opening the file if needed. Entries are
// dropped while paused. Severe entries are flushed to the file at once.
func (s *FileSink) Handle(entry core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused || s.closed {
		s.stats.IncrementDropped(entry.Level)
		return nil
	}
	if err := s.openLocked(); err != nil {
		s.stats.IncrementFailed()
		return err
	}

	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)

	renderErr := s.line.FormatEntry(&entry, buf)
	if _, err := s.bufWriter.Write(buf.Bytes()); err != nil {
		s.stats.IncrementFailed()
		return fmt.Errorf("filesink: write %s: %w", s.filename, err)
	}
	if entry.Level == core.SevereLevel {
		if err := s.bufWriter.Flush(); err != nil {
			s.stats.IncrementFailed()
			return fmt.Errorf("filesink: flush %s: %w", s.filename, err)
		}
	}
	if renderErr != nil {
		s.stats.IncrementFailed()
		return fmt.Errorf("filesink: render %q: %w", entry.Tag, renderErr)
	}
	s.stats.IncrementProcessed()
	return nil
}

// Paused reports whether the sink is paused.
func (s *FileSink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused pauses or resumes the sink. Pausing flushes and closes the
// file. Resuming opens it right away; if that fails the sink stays paused,
// no listener is notified and the error is returned.
func (s *FileSink) SetPaused(paused bool) error {
	return s.Transition(paused, func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			if paused {
				return false, nil
			}
			return false, ErrClosed
		}

		if paused {
			err := s.closeFileLocked()
			s.paused = true
			return true, err
		}
		if err := s.openLocked(); err != nil {
			return false, err
		}
		s.paused = false
		return true, nil
	})
}

// Filename returns the absolute path of the target file.
func (s *FileSink) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// SetFilename flushes and closes the current file and retargets the sink.
// The new file is opened by the next Handle.
func (s *FileSink) SetFilename(name string) error {
	abs, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("filesink: resolve %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.closeFileLocked()
	s.filename = abs
	return err
}

// IsOpen reports whether the sink currently holds an open file handle.
func (s *FileSink) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// WriteTimestamp reports whether lines carry a timestamp.
func (s *FileSink) WriteTimestamp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.line.DisableTimestamp
}

// SetWriteTimestamp toggles the timestamp prefix.
func (s *FileSink) SetWriteTimestamp(v bool) {
	s.mu.Lock()
	s.line.DisableTimestamp = !v
	s.mu.Unlock()
}

// Flush writes buffered lines to the file.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.bufWriter.Flush(); err != nil {
		return fmt.Errorf("filesink: flush %s: %w", s.filename, err)
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (s *FileSink) Stats() sink.Snapshot {
	return s.stats.GetSnapshot()
}

// Close flushes, syncs and closes the file. The sink drops every later
// entry. Close is idempotent.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.paused = true
	return s.closeFileLocked()
}

// openLocked must be called with mu held.
func (s *FileSink) openLocked() error {
	if s.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.filename), 0755); err != nil {
		return fmt.Errorf("filesink: create directory for %s: %w", s.filename, err)
	}
	file, err := os.OpenFile(s.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("filesink: open %s: %w", s.filename, err)
	}

	if s.bufWriter == nil {
		s.bufWriter = bufio.NewWriterSize(file, s.bufSize)
	} else {
		s.bufWriter.Reset(file)
	}
	s.file = file
	return nil
}

// closeFileLocked flushes, syncs and closes the file. Every step runs even
// if an earlier one fails, and the handle is released either way.
func (s *FileSink) closeFileLocked() error {
	if s.file == nil {
		return nil
	}

	err := multierr.Combine(
		s.bufWriter.Flush(),
		s.file.Sync(),
		s.file.Close(),
	)
	s.file = nil
	if err != nil {
		return fmt.Errorf("filesink: close %s: %w", s.filename, err)
	}
	return nil
}
