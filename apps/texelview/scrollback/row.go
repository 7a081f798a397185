// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/scrollback/row.go
// Summary: Row of cells plus text conversion helpers.

package scrollback

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tabWidth is the distance between tab stops when text is converted to cells.
const tabWidth = 8

// Row is one line of the grid. A nil Row was never written and renders blank.
// Rows handed out by the store are never modified afterwards.
type Row []Cell

// Empty reports whether no cell of the row was written.
func (r Row) Empty() bool {
	return len(r) == 0
}

// Cell returns the cell at col. Positions past the written cells are blank.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r) {
		return Blank
	}
	c := r[col]
	if c.Rune == 0 && !c.IsContinuation() {
		c.Rune = ' '
	}
	return c
}

// Text returns the characters of columns [start, end). Trailing halves of
// wide runes contribute nothing; unwritten cells read as spaces.
func (r Row) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	var sb strings.Builder
	for col := start; col < end; col++ {
		c := r.Cell(col)
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String returns the whole written row as text.
func (r Row) String() string {
	return r.Text(0, len(r))
}

// Clone returns a copy of the row that shares no memory with r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Truncate returns at most cols cells of r. A wide rune cut in half at the
// boundary is replaced by a blank so no orphaned half survives.
func (r Row) Truncate(cols int) Row {
	if cols <= 0 || len(r) == 0 {
		return nil
	}
	if len(r) <= cols {
		return r.Clone()
	}
	out := make(Row, cols)
	copy(out, r[:cols])
	if r[cols].IsContinuation() {
		out[cols-1] = Cell{Rune: ' ', Attr: out[cols-1].Attr}
	}
	return out
}

// CellsFromString converts plain text into a row using attr for every cell.
// Wide runes take two cells, tabs expand to the next tab stop, other control
// characters and zero-width runes are dropped.
func CellsFromString(s string, attr Attr) Row {
	if s == "" {
		return nil
	}
	return AppendString(make(Row, 0, len(s)), s, attr)
}

// AppendString appends the cells for s to row, as CellsFromString does. Tab
// stops count from the start of row.
func AppendString(row Row, s string, attr Attr) Row {
	for _, r := range s {
		switch {
		case r == '\t':
			pad := tabWidth - len(row)%tabWidth
			for i := 0; i < pad; i++ {
				row = append(row, Cell{Rune: ' ', Attr: attr})
			}
			continue
		case r < 0x20 || r == 0x7f:
			continue
		}
		switch runewidth.RuneWidth(r) {
		case 0:
			continue
		case 2:
			row = append(row, Cell{Rune: r, Attr: attr}, continuationOf(attr))
		default:
			row = append(row, Cell{Rune: r, Attr: attr})
		}
	}
	return row
}
