// Package render turns ranking rows into a styled terminal table. It is a
// presentation wrapper only; the data contract lives in the rank package.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/specialistvlad/tunegridgo/internal/rank"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D9CF0"))
	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73F59F"))
	cellStyle = lipgloss.NewStyle()
)

var header = []string{"rank", "id", "preprocessor", "model", "config", "metric", "mean", "std_err", "n"}

// RankingTable renders the ranking rows as an aligned table. The top-ranked
// rows are highlighted.
func RankingTable(rows []rank.Row) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, row := range rows {
		cells = append(cells, []string{
			fmt.Sprintf("%d", row.Rank),
			row.ID,
			row.Preprocessor,
			row.Model,
			row.Config.Label,
			row.Metric,
			fmt.Sprintf("%.4f", row.Mean),
			fmt.Sprintf("%.4f", row.StdErr),
			fmt.Sprintf("%d", row.N),
		})
	}

	widths := make([]int, len(header))
	for _, row := range cells {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for r, row := range cells {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		line := strings.TrimRight(strings.Join(padded, "  "), " ")

		switch {
		case r == 0:
			line = headerStyle.Render(line)
		case rows[r-1].Rank == 1:
			line = bestStyle.Render(line)
		default:
			line = cellStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
