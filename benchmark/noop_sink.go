package benchmark

import (
	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/sink"
)

// noopSink formats nothing and writes nothing; it measures dispatch alone.
type noopSink struct {
	sink.PauseListeners
}

func newNoopSink() *noopSink {
	return &noopSink{}
}

func (s *noopSink) Handle(e core.Entry) error {
	_ = len(e.Template)
	return nil
}

func (s *noopSink) Paused() bool { return false }

func (s *noopSink) SetPaused(bool) error { return nil }

func (s *noopSink) Close() error { return nil }
