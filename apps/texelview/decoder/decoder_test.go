// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package decoder

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelview/apps/texelview/scrollback"
	"github.com/framegrace/texelview/apps/texelview/session"
)

// recorder is a Buffer that keeps every appended row.
type recorder struct {
	rows       []string
	windowBase int
}

func (r *recorder) AppendRow(cells scrollback.Row) { r.rows = append(r.rows, cells.String()) }
func (r *recorder) SetWindowBase(target int)       { r.windowBase = target }
func (r *recorder) WindowBase() int                { return r.windowBase }
func (r *recorder) ScreenBase() int                { return 0 }
func (r *recorder) MaxBufferSize() int             { return 100 }

func TestDecoder_CommitsOnNewline(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	fmt.Fprint(d, "first\nsec")
	if len(rec.rows) != 1 || rec.rows[0] != "first" {
		t.Fatalf("rows = %q", rec.rows)
	}
	if got := d.pendingText(); got != "sec" {
		t.Errorf("pending = %q", got)
	}
	fmt.Fprint(d, "ond\r\n\n")
	want := []string{"first", "second", ""}
	if strings.Join(rec.rows, "|") != strings.Join(want, "|") {
		t.Errorf("rows = %q, want %q", rec.rows, want)
	}
}

func TestDecoder_StripsEscapes(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	fmt.Fprint(d, "\x1b[1;31merror\x1b[0m: disk \x1b]0;title\x07full\n")
	if len(rec.rows) != 1 || rec.rows[0] != "error: disk full" {
		t.Errorf("rows = %q", rec.rows)
	}
}

func TestDecoder_CarriageReturnOverwrites(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	fmt.Fprint(d, "progress 10%\rprogress 100%\n")
	fmt.Fprint(d, "abcdef\rXY\n")
	want := []string{"progress 100%", "XYcdef"}
	if strings.Join(rec.rows, "|") != strings.Join(want, "|") {
		t.Errorf("rows = %q, want %q", rec.rows, want)
	}
}

func TestDecoder_FlushCommitsPartialLine(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	fmt.Fprint(d, "no newline")
	d.Flush()
	d.Flush()
	if len(rec.rows) != 1 || rec.rows[0] != "no newline" {
		t.Errorf("rows = %q", rec.rows)
	}
}

func TestDecoder_LongUnterminatedLineIsBounded(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	fmt.Fprint(d, strings.Repeat("x", maxPending+10))
	if len(rec.rows) != 1 {
		t.Fatalf("expected forced commit, got %d rows", len(rec.rows))
	}
	if d.pendingText() != "" {
		t.Error("pending should be empty after forced commit")
	}
}

func TestDecoder_WrapsToTerminalWidth(t *testing.T) {
	term, err := session.New(session.Config{Cols: 4, Rows: 3, MaxRows: 10, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	d := New(term)
	fmt.Fprint(d, "abcdefghij\n日本語\n")

	want := []string{"abcd", "efgh", "ij", "日本", "語"}
	for i, w := range want {
		row, ok := term.RowAt(i)
		if !ok || row.String() != w {
			t.Errorf("row %d = %q, want %q", i, row.String(), w)
		}
	}
	if d.ScreenBase() != 2 || d.WindowBase() != 2 {
		t.Errorf("forwarded bases = %d/%d, want 2/2", d.WindowBase(), d.ScreenBase())
	}
	d.SetWindowBase(0)
	if term.WindowBase() != 0 {
		t.Error("SetWindowBase should reach the terminal")
	}
}

func TestWrap_WideRuneAtBoundary(t *testing.T) {
	parts := wrap(line{cells: scrollback.CellsFromString("a日b", 0)}, 2)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].cells.String() != "a" || parts[1].cells.String() != "日" || parts[2].cells.String() != "b" {
		t.Errorf("parts = %q %q %q", parts[0].cells.String(), parts[1].cells.String(), parts[2].cells.String())
	}
}

func TestWrap_WideRuneOnOneColumnGrid(t *testing.T) {
	parts := wrap(line{cells: scrollback.CellsFromString("a日b", 0)}, 1)
	var got []string
	for _, p := range parts {
		if len(p.cells) != 1 || p.cells[0].IsContinuation() {
			t.Fatalf("row %q is not one whole cell", p.cells.String())
		}
		got = append(got, p.cells.String())
	}
	if strings.Join(got, "|") != "a| |b" {
		t.Errorf("rows = %q", got)
	}
}

func TestDecoder_KeepsHyperlinkTargets(t *testing.T) {
	term, err := session.New(session.Config{Cols: 10, Rows: 3, MaxRows: 10, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	d := New(term)
	fmt.Fprint(d, "go \x1b]8;;https://go.dev\x1b\\docs here\x1b]8;;\x07 x\n")

	first, _ := term.RowAt(0)
	second, _ := term.RowAt(1)
	if first.String() != "go docs he" || second.String() != "re x" {
		t.Fatalf("rows = %q, %q", first.String(), second.String())
	}
	for _, pos := range []scrollback.Pos{{Line: 0, Col: 3}, {Line: 0, Col: 9}, {Line: 1, Col: 1}} {
		if got, ok := term.LinkAt(pos); !ok || got != "https://go.dev" {
			t.Errorf("LinkAt(%v) = %q, %v", pos, got, ok)
		}
	}
	for _, pos := range []scrollback.Pos{{Line: 0, Col: 0}, {Line: 1, Col: 3}} {
		if got, ok := term.LinkAt(pos); ok {
			t.Errorf("LinkAt(%v) = %q outside the hyperlink", pos, got)
		}
	}
}

func TestDecoder_CarriageReturnClearsOverwrittenLinks(t *testing.T) {
	term, err := session.New(session.Config{Cols: 20, Rows: 3, MaxRows: 10, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	d := New(term)
	fmt.Fprint(d, "\x1b]8;;https://a.io\x07linked\x1b]8;;\x07\rno\n")
	if _, ok := term.LinkAt(scrollback.Pos{Line: 0, Col: 0}); ok {
		t.Error("overwritten cell should lose its link")
	}
	if got, ok := term.LinkAt(scrollback.Pos{Line: 0, Col: 4}); !ok || got != "https://a.io" {
		t.Errorf("remaining cell = %q, %v", got, ok)
	}
}
