// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/decoder/decoder.go
// Summary: Turns a raw output stream into committed rows.
//
// Architecture:
//
//	Decoder is the producer side of a session. It is an io.Writer fed by the
//	pty or stdin pump and commits a row whenever a line ends. SGR sequences
//	set colors and styles, other escape sequences are stripped, a carriage
//	return restarts the line so progress output overwrites itself, and lines
//	wider than the grid wrap onto the next row. Everything else of the
//	session.Buffer surface is forwarded.

package decoder

import (
	"bytes"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/framegrace/texelview/apps/texelview/scrollback"
	"github.com/framegrace/texelview/apps/texelview/session"
)

// maxPending bounds an unterminated line before it is committed anyway.
const maxPending = 64 * 1024

// widther is implemented by buffers that know their column count.
type widther interface {
	Cols() int
}

// linkAppender is implemented by buffers that keep hyperlink targets.
type linkAppender interface {
	AppendLinkedRow(cells scrollback.Row, links []scrollback.Link)
}

// Decoder commits rows into a Buffer from a byte stream.
type Decoder struct {
	session.Buffer

	mu      sync.Mutex
	pending []byte
	attr    scrollback.Attr
	// link is the OSC 8 target in effect, empty outside a hyperlink.
	link string
}

var _ session.Buffer = (*Decoder)(nil)

// line is a row under construction. links holds the hyperlink target of
// each cell and stays nil while the line has none.
type line struct {
	cells scrollback.Row
	links []string
}

// New returns a decoder appending to buf.
func New(buf session.Buffer) *Decoder {
	return &Decoder{Buffer: buf}
}

// Write consumes p. It never fails and never blocks on the viewer.
func (d *Decoder) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rest := p
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			d.pending = append(d.pending, rest...)
			if len(d.pending) >= maxPending {
				d.commit()
			}
			break
		}
		d.pending = append(d.pending, rest[:i]...)
		d.commit()
		rest = rest[i+1:]
	}
	return len(p), nil
}

// Flush commits an unterminated trailing line, if any.
func (d *Decoder) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) > 0 {
		d.commit()
	}
}

// pendingText returns the text of the line not yet committed.
func (d *Decoder) pendingText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ansi.Strip(string(d.pending))
}

func (d *Decoder) commit() {
	raw := d.pending
	d.pending = d.pending[:0]
	la, canLink := d.Buffer.(linkAppender)
	for _, l := range d.rows(raw) {
		if spans := l.spans(); canLink && len(spans) > 0 {
			la.AppendLinkedRow(l.cells, spans)
			continue
		}
		d.Buffer.AppendRow(l.cells)
	}
}

// rows converts one logical line into grid rows.
func (d *Decoder) rows(raw []byte) []line {
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	var l line
	for i, seg := range bytes.Split(raw, []byte{'\r'}) {
		top := d.cells(string(seg))
		if i == 0 {
			l = top
			continue
		}
		l = overlay(l, top)
	}
	return wrap(l, d.cols())
}

// cells converts one segment of a line. SGR sequences update the current
// attribute, OSC 8 opens or closes a hyperlink, every other escape sequence
// is dropped.
func (d *Decoder) cells(seg string) line {
	var l line
	for len(seg) > 0 {
		i := strings.IndexByte(seg, 0x1b)
		if i < 0 {
			d.add(&l, seg)
			break
		}
		d.add(&l, seg[:i])
		rest := seg[i:]
		switch {
		case strings.HasPrefix(rest, "\x1b["):
			j := 2
			for j < len(rest) && (rest[j] < 0x40 || rest[j] > 0x7e) {
				j++
			}
			if j >= len(rest) {
				return l
			}
			if rest[j] == 'm' {
				d.attr = applySGR(d.attr, rest[2:j])
			}
			seg = rest[j+1:]
		case strings.HasPrefix(rest, "\x1b]"):
			body, n := osc(rest)
			if n < 0 {
				return l
			}
			if target, ok := hyperlink(body); ok {
				d.link = target
			}
			seg = rest[n:]
		default:
			// Anything else runs up to the next CSI or OSC and is stripped.
			k := nextIntroducer(rest[1:])
			if k < 0 {
				d.add(&l, rest)
				return l
			}
			d.add(&l, rest[:k+1])
			seg = rest[k+1:]
		}
	}
	return l
}

// add appends text in the current attribute and hyperlink.
func (d *Decoder) add(l *line, text string) {
	text = ansi.Strip(text)
	if text == "" {
		return
	}
	n := len(l.cells)
	l.cells = scrollback.AppendString(l.cells, text, d.attr)
	if d.link == "" && l.links == nil {
		return
	}
	if l.links == nil {
		l.links = make([]string, n, len(l.cells))
	}
	for len(l.links) < len(l.cells) {
		l.links = append(l.links, d.link)
	}
}

func (d *Decoder) cols() int {
	if w, ok := d.Buffer.(widther); ok {
		return w.Cols()
	}
	return 0
}

// osc returns the body of the OSC sequence at the start of s and the length
// of the whole sequence, or -1 when it is not terminated.
func osc(s string) (string, int) {
	for i := 2; i < len(s); i++ {
		switch {
		case s[i] == 0x07:
			return s[2:i], i + 1
		case s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\':
			return s[2:i], i + 2
		}
	}
	return "", -1
}

// hyperlink parses an OSC 8 body ("8;params;uri"). An empty uri closes the
// link.
func hyperlink(body string) (string, bool) {
	parts := strings.SplitN(body, ";", 3)
	if len(parts) != 3 || parts[0] != "8" {
		return "", false
	}
	return parts[2], true
}

func nextIntroducer(s string) int {
	csi := strings.Index(s, "\x1b[")
	oscAt := strings.Index(s, "\x1b]")
	switch {
	case csi < 0:
		return oscAt
	case oscAt < 0 || csi < oscAt:
		return csi
	default:
		return oscAt
	}
}

// spans converts per-cell targets into links.
func (l line) spans() []scrollback.Link {
	var out []scrollback.Link
	for c := 0; c < len(l.links); {
		url := l.links[c]
		end := c + 1
		for end < len(l.links) && l.links[end] == url {
			end++
		}
		if url != "" {
			out = append(out, scrollback.Link{Start: c, End: end, URL: url})
		}
		c = end
	}
	return out
}

// overlay writes top over base starting at column 0.
func overlay(base, top line) line {
	if len(top.cells) >= len(base.cells) {
		return top
	}
	out := line{cells: base.cells.Clone()}
	copy(out.cells, top.cells)
	n := len(top.cells)
	if out.cells[n].IsContinuation() {
		out.cells[n] = scrollback.Cell{Rune: ' ', Attr: out.cells[n].Attr}
	}
	if base.links != nil || top.links != nil {
		out.links = make([]string, len(out.cells))
		copy(out.links, base.links)
		for i := 0; i < n; i++ {
			out.links[i] = ""
		}
		copy(out.links, top.links)
	}
	return out
}

// wrap splits l into rows of at most cols cells. A wide rune never
// straddles two rows; on a one column grid it becomes a blank. cols <= 0
// disables wrapping.
func wrap(l line, cols int) []line {
	if cols <= 0 || len(l.cells) <= cols {
		return []line{l}
	}
	var out []line
	for len(l.cells) > cols {
		cut := cols
		if l.cells[cut].IsContinuation() {
			if cut == 1 {
				blank := line{cells: scrollback.Row{{Rune: ' ', Attr: l.cells[0].Attr}}}
				if l.links != nil {
					blank.links = l.links[:1]
				}
				out = append(out, blank)
				l = l.slice(2)
				continue
			}
			cut--
		}
		out = append(out, l.head(cut))
		l = l.slice(cut)
	}
	return append(out, l)
}

func (l line) head(n int) line {
	h := line{cells: l.cells[:n]}
	if l.links != nil {
		h.links = l.links[:n]
	}
	return h
}

func (l line) slice(n int) line {
	t := line{cells: l.cells[n:]}
	if l.links != nil {
		t.links = l.links[n:]
	}
	return t
}
