package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smykla-skalski/hyperfind/internal/color"
	"github.com/smykla-skalski/hyperfind/internal/doctor"
)

// CheckReporter writes doctor results as a table.
type CheckReporter struct {
	w     io.Writer
	theme color.Theme
}

// NewCheckReporter creates a CheckReporter writing to w.
func NewCheckReporter(w io.Writer, theme color.Theme) *CheckReporter {
	return &CheckReporter{w: w, theme: theme}
}

// Report implements doctor.Reporter.
func (r *CheckReporter) Report(results []doctor.CheckResult, verbose bool) {
	fmt.Fprintln(r.w, RenderChecks(results, verbose, r.theme))
}

// RenderChecks builds a table of check results followed by a summary line.
// Details are shown for failures, and for every result when verbose is set.
func RenderChecks(results []doctor.CheckResult, verbose bool, theme color.Theme) string {
	if len(results) == 0 {
		return "No checks selected."
	}

	rows := make([][]string, 0, len(results))

	for _, res := range results {
		detail := res.Message
		if verbose || res.Status == doctor.StatusFail {
			for _, d := range res.Details {
				detail += "\n" + theme.Muted.Render(d)
			}
		}

		if verbose && res.Elapsed > 0 {
			detail += "\n" + theme.Muted.Render("took "+res.Elapsed.Round(time.Millisecond).String())
		}

		rows = append(rows, []string{
			checkIcon(res, theme),
			string(res.Category),
			theme.Name.Render(res.Name),
			detail,
		})
	}

	var buf bytes.Buffer

	t := newTable(&buf)
	t.Header([]string{"", "Category", "Check", "Result"})

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	out := dimBorders(strings.TrimRight(buf.String(), "\n"), theme)

	return out + "\n" + doctor.Summarize(results).String()
}

func checkIcon(res doctor.CheckResult, theme color.Theme) string {
	switch {
	case res.IsPassed():
		return theme.OK.Render("✓")
	case res.IsError():
		return theme.Failed.Render("✗")
	case res.IsWarning():
		return theme.Warning.Render("!")
	default:
		return theme.Muted.Render("-")
	}
}
