// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/style.go
// Summary: Cell attributes to tcell styles.

package texelview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/apps/texelview/scrollback"
)

// styleFor maps a packed attribute onto the host terminal's palette.
func styleFor(a scrollback.Attr) tcell.Style {
	st := tcell.StyleDefault
	if i, ok := a.FG().Index(); ok {
		st = st.Foreground(tcell.PaletteColor(int(i)))
	}
	if i, ok := a.BG().Index(); ok {
		st = st.Background(tcell.PaletteColor(int(i)))
	}
	s := a.Style()
	return st.
		Bold(s&scrollback.StyleBold != 0).
		Dim(s&scrollback.StyleDim != 0).
		Italic(s&scrollback.StyleItalic != 0).
		Underline(s&scrollback.StyleUnderline != 0).
		Blink(s&scrollback.StyleBlink != 0).
		Reverse(s&scrollback.StyleReverse != 0).
		StrikeThrough(s&scrollback.StyleStrikethrough != 0)
}

// selectedStyle highlights a selected cell by inverting its colors.
func selectedStyle(a scrollback.Attr) tcell.Style {
	return styleFor(a).Reverse(a.Style()&scrollback.StyleReverse == 0)
}
