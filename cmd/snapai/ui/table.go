package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DataTable renders tabular data with a highlighted cursor row.
type DataTable struct {
	Headers []string
	Rows    [][]string
	Cursor  int // -1 for no selection
}

// NewDataTable creates an empty table with the given headers.
func NewDataTable(headers ...string) *DataTable {
	return &DataTable{Headers: headers, Cursor: -1}
}

// AddRow appends a row.
func (t *DataTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table.
func (t *DataTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return styles.Muted.Render("(empty)") + "\n"
	}

	var sb strings.Builder

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	selStyle := styles.Selected.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for r, row := range t.Rows {
		style := rowStyle
		if r == t.Cursor {
			style = selStyle
		}
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(style.Width(colWidths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
