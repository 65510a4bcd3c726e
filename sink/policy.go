package sink

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/philipp01105/logchan/core"
)

// OverflowPolicy defines what a bounded backlog does when it is full
type OverflowPolicy int

const (
	// DropNewest drops the incoming entry when the backlog is full
	DropNewest OverflowPolicy = iota
	// DropOldest evicts the oldest queued entry to make room
	DropOldest
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy parses "drop_newest" or "drop_oldest" (case and
// separator insensitive).
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "", "dropnewest":
		return DropNewest, nil
	case "dropoldest":
		return DropOldest, nil
	default:
		return DropNewest, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Stats tracks sink statistics
type Stats struct {
	// Separate atomic counters per level, indexed by Level.Index
	dropped [core.NumLevels]atomic.Uint64
	// processed counts entries written out
	processed atomic.Uint64
	// failed counts entries whose render or write failed
	failed atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level.
// Levels that are not a single severity are ignored.
func (s *Stats) IncrementDropped(level core.Level) {
	if i := level.Index(); i >= 0 {
		s.dropped[i].Add(1)
	}
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// IncrementFailed atomically increments the failed counter
func (s *Stats) IncrementFailed() {
	s.failed.Add(1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if i := level.Index(); i >= 0 {
		return s.dropped[i].Load()
	}
	return 0
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return s.processed.Load()
}

// GetFailed returns the failed count
func (s *Stats) GetFailed() uint64 {
	return s.failed.Load()
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.processed.Store(0)
	s.failed.Store(0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	ProcessedTotal uint64
	FailedTotal    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, core.NumLevels)
	for _, l := range core.Levels() {
		dropped[l] = s.GetDropped(l)
	}
	return Snapshot{
		DroppedTotal:   dropped,
		ProcessedTotal: s.GetProcessed(),
		FailedTotal:    s.GetFailed(),
	}
}
