package logger

import (
	"github.com/philipp01105/logchan/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	FineLevel    = core.FineLevel
	DebugLevel   = core.DebugLevel
	InfoLevel    = core.InfoLevel
	WarningLevel = core.WarningLevel
	SevereLevel  = core.SevereLevel

	NoLevels         = core.NoLevels
	AllLevels        = core.AllLevels
	DebuggingLevels  = core.DebuggingLevels
	ProductionLevels = core.ProductionLevels
)

// ParseLevel converts a string such as "info|warning" to a Level
func ParseLevel(s string) (Level, error) {
	return core.ParseLevel(s)
}
