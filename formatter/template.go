package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/philipp01105/logchan/core"
)

// DefaultMessageFormat is the console line layout.
const DefaultMessageFormat = "[{tag}] {message}"

type slot uint8

const (
	literal slot = iota
	tagSlot
	messageSlot
)

type part struct {
	kind slot
	text string
}

// MessageTemplate is a parsed message format with two named slots, {tag}
// and {message}. The positional forms {0} and {1} are accepted as aliases.
type MessageTemplate struct {
	format string
	parts  []part
}

// ParseMessageFormat compiles a message format.
func ParseMessageFormat(format string) (*MessageTemplate, error) {
	t := &MessageTemplate{format: format}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{kind: literal, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("message format %q: unclosed slot at offset %d", format, i)
			}
			name := strings.TrimSpace(format[i+1 : i+end])
			flush()
			switch name {
			case "tag", "0":
				t.parts = append(t.parts, part{kind: tagSlot})
			case "message", "1":
				t.parts = append(t.parts, part{kind: messageSlot})
			default:
				return nil, fmt.Errorf("message format %q: unknown slot {%s}", format, name)
			}
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("message format %q: unmatched '}' at offset %d", format, i)
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

// String returns the source format.
func (t *MessageTemplate) String() string {
	return t.format
}

// Render writes the line for tag into buf, formatting the entry's message
// into the {message} slot. The entry's template error, if any, is returned
// after the raw message has been written in its place.
func (t *MessageTemplate) Render(buf *bytes.Buffer, tag string, entry *core.Entry) error {
	var msgErr error
	for _, p := range t.parts {
		switch p.kind {
		case literal:
			buf.WriteString(p.text)
		case tagSlot:
			buf.WriteString(tag)
		case messageSlot:
			if err := appendMessage(entry, buf); err != nil {
				msgErr = err
			}
		}
	}
	return msgErr
}
