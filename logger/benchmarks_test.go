package logger

import (
	"io"
	"testing"

	"github.com/philipp01105/logchan/sink/consolesink"
)

func discardChannel() *Channel {
	c := New("bench", Config{Threshold: AllLevels})
	c.Attach(consolesink.New(consolesink.ConsoleConfig{Writer: io.Discard, Color: consolesink.ColorNever}))
	return c
}

// BenchmarkInfoNoArgs benchmarks Info() with a literal message using a discard writer.
func BenchmarkInfoNoArgs(b *testing.B) {
	c := discardChannel()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Info("Bench", "test message")
	}
}

// BenchmarkInfo2Args benchmarks Info() with two positional arguments.
func BenchmarkInfo2Args(b *testing.B) {
	c := discardChannel()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Info("Bench", "user {0} logged in from {1}", "alice", "10.0.0.1")
	}
}

// BenchmarkFiltered benchmarks the cost of an entry rejected by the threshold.
func BenchmarkFiltered(b *testing.B) {
	c := discardChannel()
	c.SetThreshold(ProductionLevels)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Fine("Bench", "test message {0}", i)
	}
}

// BenchmarkInfoParallel benchmarks concurrent Info() calls.
func BenchmarkInfoParallel(b *testing.B) {
	c := discardChannel()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Info("Bench", "parallel message {0}", 42)
		}
	})
}
