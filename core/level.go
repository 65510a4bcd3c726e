package core

import (
	"fmt"
	"math/bits"
	"strings"
)

// Level is a bitmask of log severities. A single entry always carries
// exactly one bit; a channel threshold may carry any combination.
type Level uint8

const (
	// FineLevel for loops and intricate micro-timed functions
	FineLevel Level = 1 << iota
	// DebugLevel for minor functions such as opening a dialog
	DebugLevel
	// InfoLevel for periodic reports and major state changes
	InfoLevel
	// WarningLevel for unexpected data the program can carry on from
	WarningLevel
	// SevereLevel for critical errors that stop a thread or the program
	SevereLevel
)

const (
	// NoLevels disables all logging
	NoLevels Level = 0
	// AllLevels enables every severity
	AllLevels = FineLevel | DebugLevel | InfoLevel | WarningLevel | SevereLevel
	// DebuggingLevels is everything but Fine
	DebuggingLevels = DebugLevel | InfoLevel | WarningLevel | SevereLevel
	// ProductionLevels is Info and above (the default channel threshold)
	ProductionLevels = InfoLevel | WarningLevel | SevereLevel
)

// NumLevels is the number of single-bit severities.
const NumLevels = 5

// singleLevels lists the severities in ascending order.
var singleLevels = [NumLevels]Level{FineLevel, DebugLevel, InfoLevel, WarningLevel, SevereLevel}

var levelNames = [NumLevels]string{"FINE", "DEBUG", "INFO", "WARNING", "SEVERE"}

// Passes reports whether an entry of the given level gets through threshold.
// The general bitwise form keeps multi-bit entry levels safe: every bit of
// entry must be present in threshold.
func Passes(entry, threshold Level) bool {
	return entry&threshold == entry
}

// Levels returns the single-bit severities in ascending order.
func Levels() []Level {
	out := make([]Level, NumLevels)
	copy(out, singleLevels[:])
	return out
}

// IsSingle reports whether l carries exactly one known severity bit.
func (l Level) IsSingle() bool {
	return l != 0 && l&AllLevels == l && bits.OnesCount8(uint8(l)) == 1
}

// Index returns the bit position of a single-bit level (Fine = 0), or -1.
func (l Level) Index() int {
	if !l.IsSingle() {
		return -1
	}
	return bits.TrailingZeros8(uint8(l))
}

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case NoLevels:
		return "NONE"
	case AllLevels:
		return "ALL"
	case DebuggingLevels:
		return "DEBUGGING"
	case ProductionLevels:
		return "PRODUCTION"
	}
	if i := l.Index(); i >= 0 {
		return levelNames[i]
	}

	var parts []string
	for i, s := range singleLevels {
		if l&s != 0 {
			parts = append(parts, levelNames[i])
		}
	}
	if rest := l &^ AllLevels; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseLevel converts a string to a Level. Names are case-insensitive and
// may be combined with '|', ',' or '+', e.g. "info|warning".
func ParseLevel(s string) (Level, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == '+'
	})
	if len(fields) == 0 {
		return NoLevels, fmt.Errorf("empty level %q", s)
	}

	var l Level
	for _, f := range fields {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "none", "off":
			// contributes nothing
		case "fine", "trace":
			l |= FineLevel
		case "debug":
			l |= DebugLevel
		case "info":
			l |= InfoLevel
		case "warn", "warning":
			l |= WarningLevel
		case "severe", "error":
			l |= SevereLevel
		case "all":
			l |= AllLevels
		case "debugging":
			l |= DebuggingLevels
		case "production":
			l |= ProductionLevels
		default:
			return NoLevels, fmt.Errorf("unknown level %q", f)
		}
	}
	return l, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
