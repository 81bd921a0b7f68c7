// Package report formats plain-text CLI output.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatTable aligns rows under headers. Columns listed in rightAlignCols are
// right aligned. Widths are measured in terminal cells.
func FormatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			if w := displayWidth(cellAt(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

// Columns lays out cells in as many columns as fit into width, filling each
// column top to bottom.
func Columns(cells []string, width, gap int) []string {
	if len(cells) == 0 {
		return nil
	}
	cellWidth := 0
	for _, c := range cells {
		if w := displayWidth(c); w > cellWidth {
			cellWidth = w
		}
	}
	cols := (width + gap) / (cellWidth + gap)
	if cols < 1 {
		cols = 1
	}
	rowCount := (len(cells) + cols - 1) / cols
	lines := make([]string, 0, rowCount)
	for r := 0; r < rowCount; r++ {
		var b strings.Builder
		for c := 0; c < cols; c++ {
			idx := c*rowCount + r
			if idx >= len(cells) {
				break
			}
			if c > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			b.WriteString(padCell(cells[idx], cellWidth, false))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cellAt(row, i), widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
