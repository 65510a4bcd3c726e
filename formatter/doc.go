// Package formatter renders log entries into text lines.
//
// Two layouts are provided. MessageTemplate is the console layout: a
// format string with a {tag} and a {message} slot, "[{tag}] {message}"
// by default. LineFormatter is the file layout,
// "<timestamp> | [<tag padded to 16>] <message>", one entry per line.
//
// Rendering goes into caller-owned or pooled bytes.Buffer values and uses
// Append-style functions (time.AppendFormat, core.AppendFormat) to avoid
// per-call string allocations. Buffers larger than 64 KiB are not returned
// to the pool so one huge line cannot inflate memory permanently.
//
// A malformed message template never aborts a render: the raw template
// and its arguments are written instead and the error is returned to the
// caller for reporting.
package formatter
