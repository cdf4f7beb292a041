package cli

import (
	"fmt"
	"io"
	"strings"
)

// DefaultMaxTitleWidth is the default maximum visible width for title columns.
const DefaultMaxTitleWidth = 48

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth sets the maximum visible width for a column.
// Longer content is truncated with "...".
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		if width > t.colWidths[i] {
			t.colWidths[i] = width
		}
	}
	t.rows = append(t.rows, cols)
}

// Render writes the table to w with columns separated by two spaces.
func (t *Table) Render(w io.Writer) error {
	for _, row := range t.rows {
		parts := make([]string, 0, len(row))
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i < len(row)-1 {
				col += strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
			}
			parts = append(parts, col)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// Truncate returns s cut to maxWidth visible characters with "..." appended
// within the limit. ANSI escapes are kept and a reset is appended when any
// were present.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	limit := maxWidth - len(ellipsis)
	if limit < 0 {
		limit = maxWidth
	}

	var (
		result   strings.Builder
		visible  int
		inEscape bool
		hasAnsi  bool
	)
	for _, r := range s {
		if r == '\033' {
			inEscape, hasAnsi = true, true
			result.WriteRune(r)
			continue
		}
		if inEscape {
			result.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if visible >= limit {
			break
		}
		result.WriteRune(r)
		visible++
	}
	if limit < maxWidth {
		result.WriteString(ellipsis)
	}
	if hasAnsi {
		result.WriteString(colorReset)
	}
	return result.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		width++
	}
	return width
}
