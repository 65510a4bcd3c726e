package logger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/philipp01105/logchan/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Channel, so code written against log/slog can feed channel sinks.
// Attributes are appended to the message as key=value pairs.
type SlogHandler struct {
	channel *Channel
	tag     string
	attrs   string // pre-rendered " key=value" pairs
	group   string
}

// NewSlogHandler creates a slog.Handler emitting into ch under tag.
func NewSlogHandler(ch *Channel, tag string) *SlogHandler {
	return &SlogHandler{channel: ch, tag: tag}
}

// Enabled reports whether the channel threshold passes the level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.channel.Enabled(slogLevelToCore(level))
}

// Handle formats the record and emits it on the channel.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(s.attrs)
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, s.group, a)
		return true
	})

	// the rendered text is passed as an argument so its braces stay literal
	s.channel.Emit(slogLevelToCore(record.Level), s.tag, "{0}", b.String())
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(s.attrs)
	for _, a := range attrs {
		appendAttr(&b, s.group, a)
	}
	return &SlogHandler{channel: s.channel, tag: s.tag, attrs: b.String(), group: s.group}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &SlogHandler{channel: s.channel, tag: s.tag, attrs: s.attrs, group: newGroup}
}

// slogLevelToCore converts a slog.Level to a single-bit core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.SevereLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.FineLevel
	}
}

// appendAttr writes " key=value", flattening groups into dotted keys.
func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, key, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
