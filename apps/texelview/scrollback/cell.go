// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/scrollback/cell.go
// Summary: Cell and packed attribute word stored in the scrollback grid.
// Notes: Attributes are packed into a single uint32 so a row stays compact.

package scrollback

import "strings"

// Color references the terminal palette. Zero is the terminal default,
// 1..256 select palette entries 0..255.
type Color uint16

// ColorDefault is the terminal's default foreground or background.
const ColorDefault Color = 0

// PaletteColor returns the Color for palette entry index.
func PaletteColor(index uint8) Color {
	return Color(index) + 1
}

// Index returns the palette index, or false for the default color.
func (c Color) Index() (uint8, bool) {
	if c == ColorDefault {
		return 0, false
	}
	return uint8(c - 1), true
}

// Style holds the text style flags of a cell.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleDim
	StyleItalic
	StyleUnderline
	StyleBlink
	StyleReverse
	StyleStrikethrough
)

// String returns a human-readable representation of the style flags.
func (s Style) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		flag Style
		name string
	}{
		{StyleBold, "bold"},
		{StyleDim, "dim"},
		{StyleItalic, "italic"},
		{StyleUnderline, "underline"},
		{StyleBlink, "blink"},
		{StyleReverse, "reverse"},
		{StyleStrikethrough, "strikethrough"},
	}
	var parts []string
	for _, n := range names {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Attr is the packed attribute word of a cell.
//
//	bits  0..8   foreground Color
//	bits  9..17  background Color
//	bits 18..25  Style
//	bit  31      continuation (trailing half of a wide rune)
type Attr uint32

const (
	colorBits  = 9
	colorMask  = 1<<colorBits - 1
	bgShift    = colorBits
	styleShift = 2 * colorBits
	styleMask  = 0xFF

	attrContinuation Attr = 1 << 31
)

// MakeAttr packs colors and style into an attribute word.
func MakeAttr(fg, bg Color, style Style) Attr {
	return Attr(uint32(fg)&colorMask) |
		Attr(uint32(bg)&colorMask)<<bgShift |
		Attr(uint32(style)&styleMask)<<styleShift
}

// FG returns the foreground color.
func (a Attr) FG() Color { return Color(uint32(a) & colorMask) }

// BG returns the background color.
func (a Attr) BG() Color { return Color(uint32(a) >> bgShift & colorMask) }

// Style returns the style flags.
func (a Attr) Style() Style { return Style(uint32(a) >> styleShift & styleMask) }

// Cell is one character cell of the grid.
type Cell struct {
	Rune rune
	Attr Attr
}

// Blank is the cell rendered for every position that was never written.
var Blank = Cell{Rune: ' '}

// IsContinuation reports whether the cell is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Attr&attrContinuation != 0
}

// continuationOf returns the trailing cell for a wide rune with attribute a.
func continuationOf(a Attr) Cell {
	return Cell{Attr: a | attrContinuation}
}
