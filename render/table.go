// Package render prints decoded records as aligned text tables.
package render

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc colours or otherwise decorates a cell after its width is known.
type FormatFunc func(value string) string

// Column describes one table column.
type Column struct {
	Header   string
	Blank    string     // shown for empty cells, "-" by default
	Format   FormatFunc // optional
	MinWidth int
	Right    bool // right-align, for counters
}

// Table collects rows and writes them with every column padded to its widest
// cell.
type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
	header  FormatFunc
}

func NewTable(cols ...Column) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}
	for i, col := range cols {
		t.widths[i] = max(col.MinWidth, visibleLength(col.Header))
		if col.Blank == "" {
			t.columns[i].Blank = "-"
		}
	}
	return t
}

// WithHeaderFormat decorates the header line.
func (t *Table) WithHeaderFormat(f FormatFunc) *Table {
	t.header = f
	return t
}

// AddRow appends a row. Missing trailing cells are blank and extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		if v == "" {
			v = t.columns[i].Blank
		}
		row[i] = v
		t.widths[i] = max(t.widths[i], visibleLength(v))
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	rules := make([]string, len(t.columns))
	for i, col := range t.columns {
		h := pad(col.Header, t.widths[i], false)
		if t.header != nil {
			h = t.header(h)
		}
		headers[i] = h
		rules[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, " "), " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(rules, " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		out := make([]string, len(row))
		for i, v := range row {
			col := t.columns[i]
			v = pad(v, t.widths[i], col.Right)
			if col.Format != nil {
				v = col.Format(v)
			}
			out[i] = v
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(out, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, width int, right bool) string {
	n := visibleLength(s)
	if n >= width {
		return s
	}
	fill := strings.Repeat(" ", width-n)
	if right {
		return fill + s
	}
	return s + fill
}

// visibleLength counts runes outside ANSI SGR escape sequences.
func visibleLength(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}
