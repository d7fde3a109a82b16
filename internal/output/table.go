package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// column is one table column. color, if set, wraps each cell.
type column struct {
	header string
	align  Alignment
	color  func(string) string
}

// table renders aligned text tables. Widths are computed from raw cell
// text so ANSI codes do not skew the padding.
type table struct {
	columns []column
	rows    [][]string
}

func newTable(columns ...column) *table {
	return &table{columns: columns}
}

func (t *table) addRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

func (t *table) render(w io.Writer) error {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = len(col.header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = bold.Sprint(pad(col.header, col.header, widths[i], col.align))
		rule[i] = strings.Repeat("-", widths[i])
	}
	lines := []string{strings.TrimRight(strings.Join(header, "  "), " "), strings.Join(rule, "  ")}

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			display := row[i]
			if col.color != nil {
				display = col.color(row[i])
			}
			cells[i] = pad(display, row[i], widths[i], col.align)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	return nil
}

func pad(display, raw string, width int, align Alignment) string {
	n := max(width-len(raw), 0)
	if align == AlignRight {
		return strings.Repeat(" ", n) + display
	}
	return display + strings.Repeat(" ", n)
}
