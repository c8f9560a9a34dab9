package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func successText(s string) string { return successStyle.Render(s) }
func warnText(s string) string    { return warnStyle.Render(s) }
func errorText(s string) string   { return errorStyle.Render(s) }

// table renders aligned columns. Cells are measured with lipgloss so
// styled text lines up.
type table struct {
	headers []string
	rows    [][]string
	styles  []lipgloss.Style
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

// style sets the style for column i.
func (t *table) style(i int, s lipgloss.Style) *table {
	for len(t.styles) <= i {
		t.styles = append(t.styles, lipgloss.NewStyle())
	}
	t.styles[i] = s
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, styled func(i int, s string) string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			parts[i] = styled(i, cell) + pad
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(t.headers, func(_ int, s string) string { return headerStyle.Render(s) }))
	for _, row := range t.rows {
		fmt.Fprintln(w, line(row, func(i int, s string) string {
			if i < len(t.styles) && s != "" {
				return t.styles[i].Render(s)
			}
			return s
		}))
	}
}
