package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TemplateError reports a malformed positional template.
type TemplateError struct {
	Template string
	Pos      int
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s at offset %d", e.Template, e.Reason, e.Pos)
}

// Format renders a positional template against args.
//
// Placeholders have the form {index[,alignment][:verb]}: index selects an
// argument, a positive alignment right-aligns the value in that many
// columns and a negative one left-aligns it, and verb is a fmt verb
// without the leading '%' (e.g. {0:x}, {1:.2f}). Literal braces are
// written as {{ and }}.
func Format(template string, args ...any) (string, error) {
	buf := make([]byte, 0, len(template)+16*len(args))
	buf, err := AppendFormat(buf, template, args...)
	return string(buf), err
}

// AppendFormat is like Format but appends to dst. On error dst holds the
// output rendered up to the offending placeholder.
func AppendFormat(dst []byte, template string, args ...any) ([]byte, error) {
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				dst = append(dst, '{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return dst, &TemplateError{Template: template, Pos: i, Reason: "unclosed placeholder"}
			}
			var reason string
			dst, reason = appendPlaceholder(dst, template[i+1:i+1+end], args)
			if reason != "" {
				return dst, &TemplateError{Template: template, Pos: i, Reason: reason}
			}
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				dst = append(dst, '}')
				i += 2
				continue
			}
			return dst, &TemplateError{Template: template, Pos: i, Reason: "unmatched '}'"}
		default:
			j := strings.IndexAny(template[i:], "{}")
			if j < 0 {
				return append(dst, template[i:]...), nil
			}
			dst = append(dst, template[i:i+j]...)
			i += j
		}
	}
	return dst, nil
}

// appendPlaceholder renders one placeholder body. A non-empty reason
// means the body is malformed.
func appendPlaceholder(dst []byte, spec string, args []any) ([]byte, string) {
	head, verb, _ := strings.Cut(spec, ":")
	idxStr, alignStr, hasAlign := strings.Cut(head, ",")

	idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
	if err != nil || idx < 0 {
		return dst, fmt.Sprintf("invalid index %q", idxStr)
	}
	if idx >= len(args) {
		return dst, fmt.Sprintf("index %d out of range (%d args)", idx, len(args))
	}

	align := 0
	if hasAlign {
		align, err = strconv.Atoi(strings.TrimSpace(alignStr))
		if err != nil {
			return dst, fmt.Sprintf("invalid alignment %q", alignStr)
		}
	}

	start := len(dst)
	if verb == "" {
		dst = appendValue(dst, args[idx])
	} else {
		dst = fmt.Appendf(dst, "%"+verb, args[idx])
	}

	width := align
	if width < 0 {
		width = -width
	}
	pad := width - utf8.RuneCount(dst[start:])
	if pad <= 0 {
		return dst, ""
	}
	if align < 0 {
		return appendSpaces(dst, pad), ""
	}
	// right-align: shift the rendered value behind the padding
	value := append([]byte(nil), dst[start:]...)
	dst = appendSpaces(dst[:start], pad)
	return append(dst, value...), ""
}

// appendValue renders common types without going through fmt.
func appendValue(dst []byte, v any) []byte {
	switch x := v.(type) {
	case string:
		return append(dst, x...)
	case int:
		return strconv.AppendInt(dst, int64(x), 10)
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case uint64:
		return strconv.AppendUint(dst, x, 10)
	case bool:
		return strconv.AppendBool(dst, x)
	case float64:
		return strconv.AppendFloat(dst, x, 'g', -1, 64)
	case error:
		if x == nil {
			return append(dst, "<nil>"...)
		}
		return append(dst, x.Error()...)
	case nil:
		return append(dst, "<nil>"...)
	default:
		return fmt.Appendf(dst, "%v", v)
	}
}

func appendSpaces(dst []byte, n int) []byte {
	for ; n > 0; n-- {
		dst = append(dst, ' ')
	}
	return dst
}

// PadRight pads s with spaces on the right to width runes.
func PadRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// PadLeft pads s with spaces on the left to width runes.
func PadLeft(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
