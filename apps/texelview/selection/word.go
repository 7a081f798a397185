// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/selection/word.go
// Summary: Word boundaries for double-click selection.

package selection

import "github.com/framegrace/texelview/apps/texelview/scrollback"

// isWordChar reports whether r belongs to a word. Paths and dotted names
// count as one word.
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.' || r == '/'
}

// wordBounds returns the inclusive column range of the word at col. Off a
// word, the single cell at col is returned.
func wordBounds(row scrollback.Row, col, cols int) (int, int) {
	if col >= len(row) || !isWordChar(row.Cell(col).Rune) {
		return col, col
	}
	start := col
	for start > 0 && isWordChar(row.Cell(start-1).Rune) {
		start--
	}
	end := col
	for end < len(row)-1 && end < cols-1 && isWordChar(row.Cell(end+1).Rune) {
		end++
	}
	return start, end
}
