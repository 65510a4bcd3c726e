package consolesink

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/philipp01105/logchan/core"
)

// terminalMu serializes the color-set/write/reset sequence across every
// console sink in the process.
var terminalMu sync.Mutex

// ColorMode selects when ANSI colors are written.
type ColorMode int

const (
	// ColorAuto colors output only when the writer is a terminal and
	// NO_COLOR is unset
	ColorAuto ColorMode = iota
	// ColorAlways colors output regardless of the writer
	ColorAlways
	// ColorNever writes plain text
	ColorNever
)

// String returns the string representation of the mode
func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// Palette holds the display color of each severity plus the color of the
// backlog marker lines. A zero Palette stands for DefaultPalette.
type Palette struct {
	Fine    color.Attribute
	Debug   color.Attribute
	Info    color.Attribute
	Warning color.Attribute
	Severe  color.Attribute
	Backlog color.Attribute
}

// DefaultPalette returns dark gray, gray, white, yellow and red for Fine
// through Severe, and cyan for backlog markers.
func DefaultPalette() Palette {
	return Palette{
		Fine:    color.FgHiBlack,
		Debug:   color.FgWhite,
		Info:    color.FgHiWhite,
		Warning: color.FgHiYellow,
		Severe:  color.FgHiRed,
		Backlog: color.FgHiCyan,
	}
}

// For returns the color for a single-bit level. Unknown levels use the
// Info color.
func (p Palette) For(level core.Level) color.Attribute {
	switch level {
	case core.FineLevel:
		return p.Fine
	case core.DebugLevel:
		return p.Debug
	case core.WarningLevel:
		return p.Warning
	case core.SevereLevel:
		return p.Severe
	default:
		return p.Info
	}
}

// colorSet caches one *color.Color per level.
type colorSet struct {
	levels  [core.NumLevels]*color.Color
	info    *color.Color
	backlog *color.Color
}

func newColorSet(p Palette, enabled bool) colorSet {
	mk := func(a color.Attribute) *color.Color {
		c := color.New(a)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	var cs colorSet
	for _, l := range core.Levels() {
		cs.levels[l.Index()] = mk(p.For(l))
	}
	cs.info = cs.levels[core.InfoLevel.Index()]
	cs.backlog = mk(p.Backlog)
	return cs
}

func (cs *colorSet) forLevel(l core.Level) *color.Color {
	if i := l.Index(); i >= 0 {
		return cs.levels[i]
	}
	return cs.info
}

// resolveWriter applies the writer default and decides whether colors are
// on. Terminal files are wrapped with go-colorable so ANSI sequences work
// on Windows consoles too.
func resolveWriter(w io.Writer, mode ColorMode) (io.Writer, bool) {
	if w == nil {
		w = os.Stdout
	}

	f, isFile := w.(*os.File)
	var enabled bool
	switch mode {
	case ColorAlways:
		enabled = true
	case ColorNever:
		enabled = false
	default:
		enabled = isFile && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}

	if enabled && isFile {
		return colorable.NewColorable(f), true
	}
	return w, enabled
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
