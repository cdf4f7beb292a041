package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Palette colors strings when enabled.
type Palette struct {
	Enabled bool
}

// PaletteFor enables colors when w is a terminal and NO_COLOR is unset.
func PaletteFor(w io.Writer) Palette {
	_, noColor := os.LookupEnv("NO_COLOR")
	return Palette{Enabled: !noColor && IsTerminal(w)}
}

func (p Palette) wrap(code, s string) string {
	if !p.Enabled || s == "" {
		return s
	}
	return code + s + colorReset
}

// Green returns s wrapped in green ANSI codes if colors are enabled.
func (p Palette) Green(s string) string { return p.wrap(colorGreen, s) }

// Red returns s wrapped in red ANSI codes if colors are enabled.
func (p Palette) Red(s string) string { return p.wrap(colorRed, s) }

// Yellow returns s wrapped in yellow ANSI codes if colors are enabled.
func (p Palette) Yellow(s string) string { return p.wrap(colorYellow, s) }

// Gray returns s wrapped in gray ANSI codes if colors are enabled.
func (p Palette) Gray(s string) string { return p.wrap(colorGray, s) }
