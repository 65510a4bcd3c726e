package sink

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	diagMu   sync.RWMutex
	diagUser *zap.Logger

	fallbackOnce sync.Once
	fallback     *zap.Logger
)

// Diagnostics returns the logger that receives the logging subsystem's own
// failures: sink errors, recovered panics and render fallbacks. Unless
// replaced with SetDiagnostics it writes warnings to stderr.
func Diagnostics() *zap.Logger {
	diagMu.RLock()
	l := diagUser
	diagMu.RUnlock()
	if l != nil {
		return l
	}

	fallbackOnce.Do(func() {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		fallback = zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.WarnLevel)).Named("logchan")
	})
	return fallback
}

// SetDiagnostics replaces the process-wide diagnostics logger. Passing nil
// restores the stderr fallback.
func SetDiagnostics(l *zap.Logger) {
	diagMu.Lock()
	diagUser = l
	diagMu.Unlock()
}

// DiagnosticsOr returns l, or the process-wide diagnostics logger when l
// is nil.
func DiagnosticsOr(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return Diagnostics()
}
