package consolesink

import (
	"github.com/philipp01105/logchan/sink"
)

// backlog is the FIFO of entries held back while the sink is paused. A
// positive limit bounds it according to policy.
type backlog struct {
	entries []sink.QueuedEntry
	limit   int
	policy  sink.OverflowPolicy
}

// push appends q. When the backlog is full it returns the entry that was
// dropped instead (q itself under DropNewest, the head under DropOldest).
func (b *backlog) push(q sink.QueuedEntry) (dropped sink.QueuedEntry, overflow bool) {
	if b.limit <= 0 || len(b.entries) < b.limit {
		b.entries = append(b.entries, q)
		return sink.QueuedEntry{}, false
	}

	if b.policy == sink.DropOldest {
		dropped = b.entries[0]
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = q
		return dropped, true
	}
	return q, true
}

// drain empties the backlog and returns its entries in queue order.
func (b *backlog) drain() []sink.QueuedEntry {
	out := b.entries
	b.entries = nil
	return out
}

func (b *backlog) len() int {
	return len(b.entries)
}
