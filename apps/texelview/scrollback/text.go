// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/scrollback/text.go
// Summary: Text extraction over absolute line/column ranges.

package scrollback

import (
	"strings"
	"unicode"
)

// Pos addresses a cell by absolute line number and column.
type Pos struct {
	Line int64
	Col  int
}

// Before reports whether p comes before q in reading order.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Order returns a and b sorted in reading order.
func Order(a, b Pos) (start, end Pos) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Text returns the characters from start to end inclusive. The first line
// starts at start.Col, the last ends at end.Col, lines in between are whole.
// Each line loses its trailing whitespace and lines are joined with "\n".
// Lines no longer retained are skipped.
func (s *Store) Text(start, end Pos) string {
	start, end = Order(start, end)
	var lines []string
	for abs := start.Line; abs <= end.Line; abs++ {
		row, ok := s.Line(abs)
		if !ok {
			continue
		}
		from, to := 0, s.cols
		if abs == start.Line {
			from = start.Col
		}
		if abs == end.Line {
			to = end.Col + 1
		}
		if to > s.cols {
			to = s.cols
		}
		lines = append(lines, strings.TrimRightFunc(row.Text(from, to), unicode.IsSpace))
	}
	return strings.Join(lines, "\n")
}
