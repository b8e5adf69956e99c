// Package color decides whether hyperfind output is styled and holds the
// lipgloss styles used by catalog, download and doctor reports.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile reports whether the environment allows color at all.
// NO_COLOR (any value), CLICOLOR=0, TERM=dumb and --no-color each disable it.
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

// Forced reports whether CLICOLOR_FORCE asks for color on a non-terminal.
func Forced() bool {
	v, ok := os.LookupEnv("CLICOLOR_FORCE")

	return ok && v != "" && v != "0"
}

// IsTerminal returns true if the given file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Enabled reports whether output written to f should be styled.
func Enabled(f *os.File, noColorFlag bool) bool {
	if !Profile(noColorFlag) {
		return false
	}

	return Forced() || IsTerminal(f)
}

// Theme holds the report styles. The zero Theme renders plain text.
type Theme struct {
	OK      lipgloss.Style // copied groups, passed checks
	Failed  lipgloss.Style // failed groups, failed checks
	Warning lipgloss.Style
	Codec   lipgloss.Style // codec plugins
	Filter  lipgloss.Style // filter plugins
	Header  lipgloss.Style
	Name    lipgloss.Style
	Muted   lipgloss.Style // table borders, check details
}

// NewTheme creates a Theme. When color is false, all styles are empty.
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Codec:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Filter:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Name:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Outcome renders label with OK or Failed depending on ok.
func (t Theme) Outcome(ok bool, label string) string {
	if ok {
		return t.OK.Render(label)
	}

	return t.Failed.Render(label)
}
