// Package format renders sizes, durations and tables for terminal output.
package format

import (
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
)

// FormatByteSize returns the short binary-unit form of size ("1.0 KiB")
// and the raw byte count padded with one space on each side (" 1024 ").
func FormatByteSize(size uint64) (short, raw string) {
	return humanize.IBytes(size), " " + strconv.FormatUint(size, 10) + " "
}

// Decorator colours byte counts by magnitude when enabled
type Decorator struct {
	Color bool
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewDecorator enables colour only when f is a terminal
func NewDecorator(f *os.File) Decorator {
	return Decorator{Color: IsTerminal(f)}
}

// Size returns the short and raw forms of size, coloured if enabled
func (d Decorator) Size(size uint64) (short, raw string) {
	short, raw = FormatByteSize(size)
	if !d.Color {
		return short, raw
	}
	c := magnitudeColor(size)
	return c + short + colorReset, c + raw + colorReset
}

func magnitudeColor(size uint64) string {
	switch {
	case size < humanize.KiByte:
		return colorRed
	case size < humanize.MiByte:
		return colorYellow
	case size < humanize.GiByte:
		return colorGreen
	case size < humanize.TiByte:
		return colorBlue
	default:
		return colorCyan
	}
}
