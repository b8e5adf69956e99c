package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/smykla-skalski/hyperfind/internal/catalog"
	"github.com/smykla-skalski/hyperfind/internal/color"
)

// RenderCatalog builds a table of plugins in catalog order.
func RenderCatalog(descriptors []catalog.Descriptor, theme color.Theme) string {
	if len(descriptors) == 0 {
		return "No plugins found."
	}

	rows := make([][]string, 0, len(descriptors))

	for _, d := range descriptors {
		patches := ""
		if d.NeedsPatches {
			patches = "yes"
		}

		rows = append(rows, []string{
			theme.Name.Render(d.DisplayName),
			d.InternalName,
			styledType(d.Type, theme),
			patches,
		})
	}

	padColumns(rows)

	var buf bytes.Buffer

	t := newTable(&buf)
	t.Header([]string{"Name", "Internal name", "Type", "Patches"})

	for _, row := range rows {
		_ = t.Append(row)
	}

	_ = t.Render()

	out := dimBorders(strings.TrimRight(buf.String(), "\n"), theme)

	return out + "\n" + catalogSummary(descriptors)
}

func styledType(t catalog.SearchType, theme color.Theme) string {
	switch t {
	case catalog.SearchTypeCodec:
		return theme.Codec.Render(t.String())
	case catalog.SearchTypeFilter:
		return theme.Filter.Render(t.String())
	default:
		return t.String()
	}
}

func catalogSummary(descriptors []catalog.Descriptor) string {
	return fmt.Sprintf("%d plugin(s): %d codec, %d filter",
		len(descriptors),
		len(catalog.Filter(descriptors, catalog.SearchTypeCodec)),
		len(catalog.Filter(descriptors, catalog.SearchTypeFilter)),
	)
}
