package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock returns the timestamp stamped on new entries.
type Clock func() time.Time

// SystemClock reads the wall clock on every call.
var SystemClock Clock = time.Now

var (
	coarseOnce sync.Once
	coarseNow  atomic.Pointer[time.Time]
)

// coarseResolution is how often the cached time is refreshed.
const coarseResolution = 500 * time.Microsecond

// CoarseClock returns a Clock that reads a cached time refreshed every
// 500µs by a background goroutine. The goroutine is started on first use
// and runs for the lifetime of the process.
func CoarseClock() Clock {
	coarseOnce.Do(func() {
		t := time.Now()
		coarseNow.Store(&t)
		go func() {
			ticker := time.NewTicker(coarseResolution)
			for range ticker.C {
				t := time.Now()
				coarseNow.Store(&t)
			}
		}()
	})
	return coarseTime
}

func coarseTime() time.Time {
	return *coarseNow.Load()
}
