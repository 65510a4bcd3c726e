package core

import (
	"fmt"
	"time"
)

// Source identifies where an entry was emitted from (a channel).
type Source interface {
	Name() string
}

// Entry is one log occurrence as it travels from a channel to its sinks.
// The template is not formatted yet; each sink renders it on its own.
type Entry struct {
	Time     time.Time
	Level    Level
	Tag      string
	Template string
	Args     []any
	Source   Source
}

// Message formats the template against the entry's arguments. The
// template is always parsed, with or without arguments: literal braces
// are written as {{ and }}, and a placeholder without a matching argument
// is a *TemplateError.
func (e *Entry) Message() (string, error) {
	return Format(e.Template, e.Args...)
}

// AppendMessage is like Message but appends to dst.
func (e *Entry) AppendMessage(dst []byte) ([]byte, error) {
	return AppendFormat(dst, e.Template, e.Args...)
}

// RawMessage renders the template unformatted with its arguments appended.
// Sinks fall back to it when the template is malformed.
func (e *Entry) RawMessage() string {
	if len(e.Args) == 0 {
		return e.Template
	}
	return fmt.Sprintf("%s %v", e.Template, e.Args)
}

// SourceName returns the name of the originating source, or "".
func (e *Entry) SourceName() string {
	if e.Source == nil {
		return ""
	}
	return e.Source.Name()
}
