// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/decoder/sgr.go
// Summary: Select Graphic Rendition parameters to cell attributes.

package decoder

import (
	"strconv"
	"strings"

	"github.com/framegrace/texelview/apps/texelview/scrollback"
)

// applySGR returns attr updated by the parameters of one CSI ... m sequence.
// Truecolor requests are consumed and ignored.
func applySGR(attr scrollback.Attr, params string) scrollback.Attr {
	fg, bg, style := attr.FG(), attr.BG(), attr.Style()
	if params == "" {
		return 0
	}
	fields := strings.FieldsFunc(params, func(r rune) bool { return r == ';' || r == ':' })
	codes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		codes = append(codes, n)
	}
	if len(codes) == 0 {
		return 0
	}

	for i := 0; i < len(codes); i++ {
		c := codes[i]
		switch {
		case c == 0:
			fg, bg, style = scrollback.ColorDefault, scrollback.ColorDefault, 0
		case c == 1:
			style |= scrollback.StyleBold
		case c == 2:
			style |= scrollback.StyleDim
		case c == 3:
			style |= scrollback.StyleItalic
		case c == 4:
			style |= scrollback.StyleUnderline
		case c == 5:
			style |= scrollback.StyleBlink
		case c == 7:
			style |= scrollback.StyleReverse
		case c == 9:
			style |= scrollback.StyleStrikethrough
		case c == 22:
			style &^= scrollback.StyleBold | scrollback.StyleDim
		case c == 23:
			style &^= scrollback.StyleItalic
		case c == 24:
			style &^= scrollback.StyleUnderline
		case c == 25:
			style &^= scrollback.StyleBlink
		case c == 27:
			style &^= scrollback.StyleReverse
		case c == 29:
			style &^= scrollback.StyleStrikethrough
		case c >= 30 && c <= 37:
			fg = scrollback.PaletteColor(uint8(c - 30))
		case c == 39:
			fg = scrollback.ColorDefault
		case c >= 40 && c <= 47:
			bg = scrollback.PaletteColor(uint8(c - 40))
		case c == 49:
			bg = scrollback.ColorDefault
		case c >= 90 && c <= 97:
			fg = scrollback.PaletteColor(uint8(c - 90 + 8))
		case c >= 100 && c <= 107:
			bg = scrollback.PaletteColor(uint8(c - 100 + 8))
		case c == 38 || c == 48:
			color, skip, ok := extendedColor(codes[i+1:])
			i += skip
			if !ok {
				continue
			}
			if c == 38 {
				fg = color
			} else {
				bg = color
			}
		}
	}
	return scrollback.MakeAttr(fg, bg, style)
}

// extendedColor reads the arguments after 38 or 48. It returns the color,
// how many codes were consumed and whether the color is representable.
func extendedColor(args []int) (scrollback.Color, int, bool) {
	if len(args) == 0 {
		return 0, 0, false
	}
	switch args[0] {
	case 5:
		if len(args) < 2 || args[1] < 0 || args[1] > 255 {
			return 0, len(args), false
		}
		return scrollback.PaletteColor(uint8(args[1])), 2, true
	case 2:
		n := 4
		if n > len(args) {
			n = len(args)
		}
		return 0, n, false
	default:
		return 0, 1, false
	}
}
