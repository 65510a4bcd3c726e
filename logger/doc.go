// Package logger is the public API of logchan. Most users only need to
// import this package and one or more sinks.
//
// A Channel owns a level threshold and an ordered set of sinks. Emit
// checks the entry's level against the threshold once; entries that pass
// are handed, unformatted, first to every observer and then to every
// attached sink. Each sink renders the positional template ({0}, {1}, ...)
// on its own, so a console and a file sink may print the same entry
// differently.
//
//	ch := logger.New("net", logger.Config{Threshold: logger.AllLevels})
//	ch.Attach(consolesink.New(consolesink.ConsoleConfig{}))
//	ch.Info("Net", "connected to {0} in {1}ms", host, elapsed)
//
// Levels are bit flags. A threshold is any combination of them, e.g.
// InfoLevel|SevereLevel, and the named masks AllLevels, DebuggingLevels
// and ProductionLevels (the default) cover the common cases.
//
// Emit never fails. A sink that returns an error or panics is reported to
// the diagnostics zap logger and the remaining sinks still receive the
// entry.
//
// The package keeps one default channel, named "global". The
// package-level functions Info, Warn, Attach, etc. delegate to it, and
// QuickSetup attaches a console sink to it:
//
//	logger.QuickSetup()
//	logger.Info("App", "ready")
package logger
