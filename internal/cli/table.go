package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/bookkeeper/internal/amount"
	"github.com/Veraticus/bookkeeper/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// RenderStatement draws the statement as an aligned table. Amount columns are right aligned
// and subtotal rows are bold.
func RenderStatement(w io.Writer, stmt *report.Statement) error {
	if stmt.Empty() {
		_, err := fmt.Fprintln(w, FormatInfo("No transactions in range"))
		return err
	}

	header := stmt.Header()
	records := stmt.Records(amount.Format)
	widths := columnWidths(header, records)

	var b strings.Builder
	b.WriteString(renderRow(header, widths, TableHeaderStyle))
	b.WriteByte('\n')
	b.WriteString(SubtleStyle.Render(strings.Repeat("─", totalWidth(widths))))
	b.WriteByte('\n')

	for i, record := range records {
		style := lipgloss.NewStyle()
		if stmt.Rows[i].Synthetic() {
			style = TotalRowStyle
		}
		b.WriteString(renderRow(record, widths, style))
		b.WriteByte('\n')
	}

	for _, label := range report.MarginLabels {
		margin, ok := stmt.Margin(label)
		value := "n/a"
		if ok {
			value = margin.StringFixed(1) + "%"
		}
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s margin: %s", label, value)))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func columnWidths(header []string, records [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, record := range records {
		for i, cell := range record {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func totalWidth(widths []int) int {
	total := len(columnGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return total
}

// renderRow pads each cell to its column width. The first two columns are text, the rest are
// amounts.
func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		align := lipgloss.Right
		if i < 2 {
			align = lipgloss.Left
		}
		rendered[i] = style.Width(widths[i]).Align(align).Render(cell)
	}
	return strings.Join(rendered, columnGap)
}
