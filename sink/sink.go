package sink

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/philipp01105/logchan/core"
)

// Sink is the capability a log destination implements. Channels depend
// only on this interface.
type Sink interface {
	// Handle accepts an entry that passed the channel's threshold. It must
	// be safe for concurrent use and must not block for unbounded time.
	Handle(entry core.Entry) error

	// Paused reports whether the sink is paused.
	Paused() bool

	// SetPaused pauses or resumes the sink. Pause listeners are notified
	// synchronously before it returns.
	SetPaused(paused bool) error

	// OnPause registers a pause-transition listener.
	OnPause(fn PauseFunc) uuid.UUID

	// RemovePauseListener unregisters a listener added with OnPause.
	RemovePauseListener(id uuid.UUID) bool

	// Close releases the sink's resources.
	Close() error
}

// StatsProvider is implemented by sinks that track delivery statistics.
type StatsProvider interface {
	Stats() Snapshot
}

// QueuedEntry is an entry held back while a sink is paused. The entry's
// Source still points at the originating channel.
type QueuedEntry struct {
	Entry    core.Entry
	QueuedAt time.Time
}

// ErrClosed is returned when a closed sink is resumed.
var ErrClosed = errors.New("sink: closed")
