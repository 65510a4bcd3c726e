package formatter

import (
	"bytes"

	"github.com/philipp01105/logchan/core"
)

// DefaultTimestampFormat is a fixed-width date and time layout.
const DefaultTimestampFormat = "2006-01-02 15:04:05"

// DefaultTagWidth is the column width tags are padded to in file lines.
const DefaultTagWidth = 16

// LineConfig configures a LineFormatter.
type LineConfig struct {
	// DisableTimestamp drops the "<timestamp> | " prefix
	DisableTimestamp bool
	// TimestampFormat is a time layout (default: DefaultTimestampFormat)
	TimestampFormat string
	// TagWidth is the padded tag width (default: DefaultTagWidth)
	TagWidth int
	// LeftAlignTag pads on the right instead of the left
	LeftAlignTag bool
}

// LineFormatter renders flat text lines of the form
// "<timestamp> | [<tag>] <message>\n".
type LineFormatter struct {
	LineConfig
}

// NewLineFormatter creates a new line formatter
func NewLineFormatter(cfg LineConfig) *LineFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DefaultTimestampFormat
	}
	if cfg.TagWidth <= 0 {
		cfg.TagWidth = DefaultTagWidth
	}
	return &LineFormatter{LineConfig: cfg}
}

// FormatEntry implements Formatter.
func (f *LineFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) error {
	if !f.DisableTimestamp {
		// AppendFormat avoids a string allocation for the timestamp
		buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
		buf.WriteString(" | ")
	}

	buf.WriteByte('[')
	if f.LeftAlignTag {
		buf.WriteString(core.PadRight(entry.Tag, f.TagWidth))
	} else {
		buf.WriteString(core.PadLeft(entry.Tag, f.TagWidth))
	}
	buf.WriteString("] ")

	err := appendMessage(entry, buf)
	buf.WriteByte('\n')
	return err
}
