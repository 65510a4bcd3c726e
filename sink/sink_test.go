package sink

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/logchan/core"
)

func TestPauseListeners_Order(t *testing.T) {
	var p PauseListeners
	var got []string
	p.OnPause(func(paused bool) { got = append(got, "a") })
	id := p.OnPause(func(paused bool) { got = append(got, "b") })
	p.OnPause(func(paused bool) { got = append(got, "c") })

	p.NotifyPause(true)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("notification order = %v", got)
	}

	if !p.RemovePauseListener(id) {
		t.Fatal("RemovePauseListener() = false")
	}
	got = nil
	p.NotifyPause(false)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("after removal = %v", got)
	}
}

func TestPauseListeners_TransitionSkipsListeners(t *testing.T) {
	var p PauseListeners
	calls := 0
	p.OnPause(func(bool) { calls++ })

	err := p.Transition(false, func() (bool, error) { return false, ErrClosed })
	if err != ErrClosed {
		t.Errorf("Transition() error = %v, want ErrClosed", err)
	}
	if calls != 0 {
		t.Errorf("listener called %d times for a rejected transition", calls)
	}

	if err := p.Transition(true, func() (bool, error) { return true, nil }); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
}

func TestPauseListeners_ConcurrentTransitionsKeepOrder(t *testing.T) {
	var p PauseListeners
	var mu sync.Mutex
	var state bool
	var applied, notified []bool

	p.OnPause(func(paused bool) {
		mu.Lock()
		notified = append(notified, paused)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(paused bool) {
			defer wg.Done()
			p.Transition(paused, func() (bool, error) {
				mu.Lock()
				state = paused
				applied = append(applied, paused)
				mu.Unlock()
				return true, nil
			})
		}(i%2 == 0)
	}
	wg.Wait()

	if len(notified) != len(applied) {
		t.Fatalf("notified %d times, applied %d", len(notified), len(applied))
	}
	for i := range applied {
		if notified[i] != applied[i] {
			t.Fatalf("notification %d = %v, state change was %v", i, notified[i], applied[i])
		}
	}
	if notified[len(notified)-1] != state {
		t.Errorf("last notification %v, final state %v", notified[len(notified)-1], state)
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementDropped(core.FineLevel)
	s.IncrementDropped(core.FineLevel)
	s.IncrementDropped(core.SevereLevel)
	s.IncrementDropped(core.ProductionLevels) // composite, ignored
	s.IncrementProcessed()
	s.IncrementFailed()

	if got := s.GetDropped(core.FineLevel); got != 2 {
		t.Errorf("GetDropped(Fine) = %d, want 2", got)
	}
	if got := s.GetTotalDropped(); got != 3 {
		t.Errorf("GetTotalDropped() = %d, want 3", got)
	}

	snap := s.GetSnapshot()
	if snap.DroppedTotal[core.SevereLevel] != 1 || snap.ProcessedTotal != 1 || snap.FailedTotal != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	s.Reset()
	if s.GetTotalDropped() != 0 || s.GetProcessed() != 0 || s.GetFailed() != 0 {
		t.Error("Reset() left non-zero counters")
	}
}

func TestStats_Concurrent(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.IncrementProcessed()
				s.IncrementDropped(core.InfoLevel)
			}
		}()
	}
	wg.Wait()
	if s.GetProcessed() != 8000 || s.GetDropped(core.InfoLevel) != 8000 {
		t.Errorf("lost updates: processed=%d dropped=%d", s.GetProcessed(), s.GetDropped(core.InfoLevel))
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want OverflowPolicy
	}{
		{"", DropNewest},
		{"drop_newest", DropNewest},
		{"DropOldest", DropOldest},
		{"drop-oldest", DropOldest},
	}
	for _, tt := range tests {
		got, err := ParseOverflowPolicy(tt.in)
		if err != nil {
			t.Fatalf("ParseOverflowPolicy(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseOverflowPolicy("block"); err == nil {
		t.Error("expected error for unsupported policy")
	}
}

func TestDiagnostics(t *testing.T) {
	if Diagnostics() == nil {
		t.Fatal("Diagnostics() returned nil")
	}

	obsCore, logs := observer.New(zap.WarnLevel)
	custom := zap.New(obsCore)
	SetDiagnostics(custom)
	defer SetDiagnostics(nil)

	DiagnosticsOr(nil).Warn("sink failed")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", logs.Len())
	}

	own, ownLogs := observer.New(zap.WarnLevel)
	DiagnosticsOr(zap.New(own)).Warn("routed")
	if ownLogs.Len() != 1 || logs.Len() != 1 {
		t.Error("DiagnosticsOr should prefer the explicit logger")
	}
}
