// Package consolesink provides a Sink that writes colored lines to a
// terminal.
//
// Each line is rendered from a message format with {tag} and {message}
// slots (default "[{tag}] {message}") and written in the color of the
// entry's severity. The color-set/write/reset sequence runs under a lock
// shared by every console sink in the process, so lines from different
// goroutines never mix colors.
//
// # Pausing
//
// A paused console sink either drops incoming entries or, with
// AutoPrintBacklog, queues them. On resume the queue is printed in FIFO
// order between two marker lines:
//
//	### Printing logger backlog ###
//	...
//	### End of logger backlog ###
//
// BacklogLimit bounds the queue; OverflowPolicy decides whether the newest
// or the oldest entry is dropped when it is full.
//
// # Example
//
//	console := consolesink.New(consolesink.ConsoleConfig{TagPadding: 12})
//	ch.Attach(console)
package consolesink
