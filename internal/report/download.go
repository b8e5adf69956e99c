package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/smykla-skalski/hyperfind/internal/color"
	"github.com/smykla-skalski/hyperfind/internal/export"
)

// durationDisplayUnits limits elapsed times to their two largest units.
const durationDisplayUnits = 2

// RenderDownload builds the per-group table and closing line of a grouped download.
func RenderDownload(r *export.GroupedReport, theme color.Theme) string {
	rows := make([][]string, 0, len(r.Groups))

	for _, g := range r.Groups {
		label := "ok"
		if g.Err != nil {
			label = "failed"
		}

		status := theme.Outcome(g.Err == nil, label)

		rows = append(rows, []string{
			status,
			theme.Name.Render(g.Label),
			strconv.Itoa(g.Copied),
			humanize.Bytes(uint64(max(g.Bytes, 0))),
			groupDetail(g),
		})
	}

	padColumns(rows)

	var buf bytes.Buffer

	t := newTable(&buf)
	t.Header([]string{"", "Label", "Files", "Size", "Detail"})

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	w := termWidth()
	for i, line := range lines {
		lines[i] = truncate(line, w)
	}

	out := dimBorders(strings.Join(lines, "\n"), theme)

	return out + "\n" + DownloadSummary(r)
}

// DownloadSummary returns the closing line of a grouped download.
func DownloadSummary(r *export.GroupedReport) string {
	line := fmt.Sprintf("Done. %d files are saved under %s (%s in %s)",
		r.Total,
		shortenPath(r.Destination),
		humanize.Bytes(uint64(max(r.Bytes, 0))),
		formatElapsed(r.Elapsed),
	)

	if failed := len(r.Failed()); failed > 0 {
		line += fmt.Sprintf("; %d group(s) failed", failed)
	}

	return line
}

func groupDetail(g export.GroupResult) string {
	if g.Err == nil {
		return shortenPath(g.Dir)
	}

	var failure *export.GroupedDownloadFailure
	if errors.As(g.Err, &failure) {
		return failure.Err.Error()
	}

	return g.Err.Error()
}

func formatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return "0ms"
	}

	return durafmt.Parse(d.Round(time.Millisecond)).LimitFirstN(durationDisplayUnits).String()
}
