// Package mdtable renders GitHub-flavored markdown tables.
package mdtable

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment is a column alignment.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// WidthMode selects how cell widths are measured when padding.
type WidthMode int

const (
	// WidthModeDisplay measures terminal display width, so wide runes line up.
	WidthModeDisplay WidthMode = iota

	// WidthModeByte measures bytes.
	WidthModeByte
)

// minSeparatorWidth keeps the separator row valid for one-character columns.
const minSeparatorWidth = 3

// Table builds a markdown table.
type Table struct {
	headers    []string
	rows       [][]string
	alignments []Alignment
	widthMode  WidthMode
}

// New creates a table with the given headers.
func New(headers ...string) *Table {
	return &Table{
		headers:    headers,
		alignments: make([]Alignment, len(headers)),
	}
}

// AddRow appends a row. Missing cells are left empty and extra cells dropped.
func (t *Table) AddRow(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)

	return t
}

// SetAlignment sets the alignment of column i. Out-of-range columns are ignored.
func (t *Table) SetAlignment(i int, a Alignment) *Table {
	if i >= 0 && i < len(t.alignments) {
		t.alignments[i] = a
	}

	return t
}

// SetAlignments sets column alignments left to right.
func (t *Table) SetAlignments(aligns ...Alignment) *Table {
	for i, a := range aligns {
		t.SetAlignment(i, a)
	}

	return t
}

// SetWidthMode sets how cell widths are measured.
func (t *Table) SetWidthMode(m WidthMode) *Table {
	t.widthMode = m

	return t
}

// String renders the table, one line per row, with a trailing newline.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}

	header := escapeRow(t.headers)
	rows := make([][]string, len(t.rows))

	for i, r := range t.rows {
		rows[i] = escapeRow(r)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(minSeparatorWidth, t.width(h))
	}

	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], t.width(c))
		}
	}

	var b strings.Builder

	t.writeRow(&b, header, widths)
	t.writeSeparator(&b, widths)

	for _, r := range rows {
		t.writeRow(&b, r, widths)
	}

	return b.String()
}

func (t *Table) width(s string) int {
	if t.widthMode == WidthModeByte {
		return len(s)
	}

	return runewidth.StringWidth(s)
}

func (t *Table) writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")

	for i, c := range cells {
		b.WriteString(" ")
		b.WriteString(t.pad(c, widths[i], t.alignments[i]))
		b.WriteString(" |")
	}

	b.WriteString("\n")
}

func (t *Table) writeSeparator(b *strings.Builder, widths []int) {
	b.WriteString("|")

	for i, w := range widths {
		dashes := strings.Repeat("-", w)

		switch t.alignments[i] {
		case AlignLeft:
			dashes = ":" + dashes[1:]
		case AlignCenter:
			dashes = ":" + dashes[1:w-1] + ":"
		case AlignRight:
			dashes = dashes[1:] + ":"
		case AlignDefault:
		}

		b.WriteString(" ")
		b.WriteString(dashes)
		b.WriteString(" |")
	}

	b.WriteString("\n")
}

func (t *Table) pad(s string, w int, a Alignment) string {
	gap := w - t.width(s)
	if gap <= 0 {
		return s
	}

	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2

		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func escapeRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellEscaper.Replace(c)
	}

	return out
}
