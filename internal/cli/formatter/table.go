package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = "  "

// Column describes one table column. Right-aligned columns suit durations.
type Column struct {
	Title string
	Right bool
}

// RenderTable renders left-aligned columns with a rule under the headers.
func RenderTable(headers []string, rows [][]string) string {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i] = Column{Title: h}
	}
	return RenderColumns(cols, rows, nil)
}

// RenderColumns renders rows under cols. A non-nil footer is printed below a
// second rule in bold. Widths are measured with lipgloss so styled cells line up.
func RenderColumns(cols []Column, rows [][]string, footer []string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	measure := func(cells []string) {
		for i := 0; i < len(cols) && i < len(cells); i++ {
			widths[i] = max(widths[i], lipgloss.Width(cells[i]))
		}
	}
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	measure(titles)
	for _, row := range rows {
		measure(row)
	}
	measure(footer)

	var b strings.Builder
	writeRow := func(cells []string, style lipgloss.Style, styled bool) {
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
			if styled && cell != "" {
				cell = style.Render(cell)
			}
			last := i == len(cols)-1
			switch {
			case c.Right:
				b.WriteString(pad + cell)
			case last:
				b.WriteString(cell)
			default:
				b.WriteString(cell + pad)
			}
			if !last {
				b.WriteString(colGap)
			}
		}
		b.WriteString("\n")
	}
	rule := func() {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = StyleDim.Render(strings.Repeat("─", w))
		}
		b.WriteString(strings.Join(parts, colGap) + "\n")
	}

	writeRow(titles, StyleHeader, true)
	rule()
	for _, row := range rows {
		writeRow(row, lipgloss.Style{}, false)
	}
	if footer != nil {
		rule()
		writeRow(footer, StyleBold, true)
	}
	return b.String()
}
