// Package report renders model snapshots as terminal summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"passgram/internal/model"
)

const (
	fallbackWidth = 80
	minBarWidth   = 8
	maxBarWidth   = 40
)

// AutoWidth returns the terminal width, or a safe fallback when stdout is
// not a terminal.
func AutoWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// Render prints a snapshot summary with top-entry tables. top bounds the
// rows per table and width bounds the whole rendering.
func Render(w io.Writer, snap *model.Snapshot, top, width int) error {
	if _, err := fmt.Fprintln(w, "Model Snapshot"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Passwords observed: %d\n", snap.TotalTemplates); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Unique templates: %d\n", snap.UniqueTemplates); err != nil {
		return err
	}
	if snap.Filter != nil {
		if _, err := fmt.Fprintf(w, "Corpus min length: %d\n", snap.Filter.MinLen); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	barWidth := barWidthFor(width)
	sections := []struct {
		title string
		label string
		rows  []countedRow
	}{
		{"Top Templates", "Template", templateRows(snap.TopTemplates)},
		{"Top Words", "Token", tokenRows(snap.TopWords)},
		{"Top Digits", "Token", tokenRows(snap.TopDigits)},
	}
	for _, section := range sections {
		if err := renderSection(w, section.title, section.label, section.rows, top, barWidth); err != nil {
			return err
		}
	}
	return nil
}

type countedRow struct {
	key   string
	count int64
}

func templateRows(entries []model.TemplateEntry) []countedRow {
	rows := make([]countedRow, len(entries))
	for i, e := range entries {
		rows[i] = countedRow{key: e.Template, count: e.Count}
	}
	return rows
}

func tokenRows(entries []model.TokenEntry) []countedRow {
	rows := make([]countedRow, len(entries))
	for i, e := range entries {
		rows[i] = countedRow{key: e.Token, count: e.Count}
	}
	return rows
}

func renderSection(w io.Writer, title, label string, rows []countedRow, top, barWidth int) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(rows) == 0 {
		if _, err := fmt.Fprintln(w, "(none)"); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "")
		return err
	}
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	maxCount := rows[0].count
	for _, row := range rows[1:] {
		if row.count > maxCount {
			maxCount = row.count
		}
	}

	headers := []string{label, "Count", ""}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.key, fmt.Sprintf("%d", row.count), bar(row.count, maxCount, barWidth)}
	}
	for _, line := range formatTable(headers, cells, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// bar scales a count against the section maximum. Any non-zero count shows
// at least one mark.
func bar(count, max int64, width int) string {
	if max <= 0 || width <= 0 || count <= 0 {
		return ""
	}
	n := int(float64(width) * float64(count) / float64(max))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func barWidthFor(width int) int {
	if width <= 0 {
		width = fallbackWidth
	}
	barWidth := width / 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	return barWidth
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
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
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
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

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
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

// displayWidth measures terminal columns, not runes. Recovered corpus bytes
// can put wide characters into tokens.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
