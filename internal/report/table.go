package report

import (
	"bytes"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/smykla-skalski/hyperfind/internal/color"
)

// newTable creates a rounded table writing into buf.
func newTable(buf *bytes.Buffer) *tablewriter.Table {
	return tablewriter.NewTable(buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	)
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// padColumns pads every cell in a column to the widest visible cell.
func padColumns(rows [][]string) {
	widths := map[int]int{}

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(ansi.Strip(cell)))
		}
	}

	for _, row := range rows {
		for i, cell := range row {
			row[i] = padToWidth(cell, widths[i])
		}
	}
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// termWidth returns the terminal width or 0 if not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(
		int(os.Stdout.Fd()), //nolint:gosec // fd fits int
	); err == nil && w > 0 {
		return w
	}

	return 0
}

// truncate shortens s to the terminal width when stdout is a terminal.
func truncate(s string, w int) string {
	if w <= 0 {
		return s
	}

	return ansi.Truncate(s, w, "…")
}

// homeDir caches the user's home directory for path shortening.
var homeDir, _ = os.UserHomeDir()

// shortenPath replaces the user's home directory prefix with ~.
func shortenPath(s string) string {
	if homeDir == "" {
		return s
	}

	return strings.ReplaceAll(s, homeDir, "~")
}
