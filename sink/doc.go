// Package sink defines the Sink capability and the pieces shared by its
// implementations.
//
// A Sink accepts entries dispatched by a channel (Handle), can be paused
// and resumed independently of any channel (Paused/SetPaused), notifies
// listeners about pause transitions (OnPause) and releases its resources
// deterministically (Close). Every sink guards its own state with its own
// lock because one sink may be attached to several channels.
//
// Built-in sinks live in subpackages:
//
//   - consolesink writes colored lines to a terminal and can buffer a
//     backlog while paused.
//   - filesink appends flat text lines to a file, opening the stream
//     lazily and closing it whenever the sink is paused.
//   - zapsink forwards entries into a *zap.Logger.
//
// Failures inside the subsystem are never returned to log producers. They
// go to the Diagnostics logger, a zap logger on stderr by default.
package sink
