package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/logchan/core"
)

// Formatter renders an entry into a caller-provided buffer.
//
// A malformed message template is not fatal: implementations write a
// fallback rendering into buf and return the template error so the
// caller can report it.
type Formatter interface {
	FormatEntry(entry *core.Entry, buf *bytes.Buffer) error
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

// GetBuffer returns an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Format renders entry with f and returns a copy of the bytes.
func Format(f Formatter, entry *core.Entry) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	err := f.FormatEntry(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, err
}

// appendMessage writes the entry's formatted message, falling back to the
// raw template when formatting fails.
func appendMessage(entry *core.Entry, buf *bytes.Buffer) error {
	msg, err := entry.AppendMessage(buf.AvailableBuffer())
	if err != nil {
		buf.WriteString(entry.RawMessage())
		return err
	}
	buf.Write(msg)
	return nil
}
