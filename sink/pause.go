package sink

import (
	"sync"

	"github.com/google/uuid"

	"github.com/philipp01105/logchan/core"
)

// PauseFunc receives the new pause state.
type PauseFunc func(paused bool)

// PauseListeners implements the listener half of the Sink contract. Sinks
// embed it and route every pause assignment through Transition, which
// runs the listeners outside of the sink's own lock.
type PauseListeners struct {
	subs core.Subscribers[PauseFunc]

	// transitionMu orders state change plus notification of concurrent
	// Transition calls
	transitionMu sync.Mutex
}

// OnPause registers fn and returns its handle.
func (p *PauseListeners) OnPause(fn PauseFunc) uuid.UUID {
	return p.subs.Subscribe(fn)
}

// RemovePauseListener unregisters the listener with the given handle.
func (p *PauseListeners) RemovePauseListener(id uuid.UUID) bool {
	return p.subs.Unsubscribe(id)
}

// NotifyPause calls every listener in subscription order.
func (p *PauseListeners) NotifyPause(paused bool) {
	for _, fn := range p.subs.Snapshot() {
		fn(paused)
	}
}

// Transition applies a pause assignment and then notifies the listeners,
// holding a lock across both steps. Concurrent transitions are therefore
// observed by listeners in the order their state changes took effect, and
// the last notification always matches the final state. Listeners are
// skipped when apply returns notify false. A listener must not call
// SetPaused on the same sink.
func (p *PauseListeners) Transition(paused bool, apply func() (notify bool, err error)) error {
	p.transitionMu.Lock()
	defer p.transitionMu.Unlock()

	notify, err := apply()
	if notify {
		p.NotifyPause(paused)
	}
	return err
}
