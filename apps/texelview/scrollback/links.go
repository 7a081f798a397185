// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/scrollback/links.go
// Summary: Hyperlink targets attached to rows and URL detection in row text.

package scrollback

import (
	"regexp"
	"strings"
)

// Link is a hyperlink target covering columns [Start, End) of a row.
type Link struct {
	Start, End int
	URL        string
}

// urlPattern matches web URLs written as plain text.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `]+`)

// LinkAt returns the target of the link covering col.
func LinkAt(links []Link, col int) (string, bool) {
	for _, l := range links {
		if col >= l.Start && col < l.End {
			return l.URL, true
		}
	}
	return "", false
}

// URLAt returns the http or https URL written in row that covers col.
// Trailing punctuation is not part of the URL.
func URLAt(row Row, col int) (string, bool) {
	if col < 0 || col >= len(row) {
		return "", false
	}
	// colOf maps each byte of text to the column of its rune.
	var sb strings.Builder
	var colOf []int
	for c := range row {
		cell := row.Cell(c)
		if cell.IsContinuation() {
			continue
		}
		before := sb.Len()
		sb.WriteRune(cell.Rune)
		for i := before; i < sb.Len(); i++ {
			colOf = append(colOf, c)
		}
	}
	text := sb.String()
	for _, m := range urlPattern.FindAllStringIndex(text, -1) {
		url := strings.TrimRight(text[m[0]:m[1]], ".,;:!?)]}")
		end := m[0] + len(url)
		if end <= m[0] {
			continue
		}
		first, last := colOf[m[0]], colOf[end-1]
		if last+1 < len(row) && row[last+1].IsContinuation() {
			last++
		}
		if col >= first && col <= last {
			return url, true
		}
	}
	return "", false
}

// clipLinks drops the parts of links past cols.
func clipLinks(links []Link, cols int) []Link {
	var out []Link
	for _, l := range links {
		if l.Start >= cols {
			continue
		}
		if l.End > cols {
			l.End = cols
		}
		out = append(out, l)
	}
	return out
}
