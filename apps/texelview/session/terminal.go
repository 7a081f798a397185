// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/session/terminal.go
// Summary: Terminal owns the scrollback and viewport behind one lock.
//
// Architecture:
//
//	The producer goroutine appends rows while the UI goroutine scrolls,
//	draws and selects. Every read and write of the store and the viewport
//	goes through Terminal, which holds a single mutex for both. No caller
//	ever sees a windowBase from one append and a row count from another.
//
//	Change notification runs after the lock is released so a handler may
//	call back into Terminal.

package session

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelview/apps/texelview/scrollback"
	"github.com/framegrace/texelview/apps/texelview/viewport"
)

// ErrInvalidSize is returned when a grid dimension is not positive.
var ErrInvalidSize = errors.New("session: grid size must be positive")

// Buffer is the capability surface a producer or decoder needs.
type Buffer interface {
	AppendRow(cells scrollback.Row)
	SetWindowBase(target int)
	WindowBase() int
	ScreenBase() int
	MaxBufferSize() int
}

// Config describes a new Terminal.
type Config struct {
	Cols    int
	Rows    int
	MaxRows int
	Logger  *log.Logger
}

// Frame is a consistent copy of the visible rows and the viewport state they
// were read under. Rows[i] is nil for unwritten screen rows.
type Frame struct {
	State viewport.State
	Rows  []scrollback.Row
}

// Terminal is the synchronized scrollback plus viewport.
type Terminal struct {
	mu     sync.Mutex
	store  *scrollback.Store
	view   *viewport.Controller
	closed bool

	onChange func()
	logger   *log.Logger
}

var _ Buffer = (*Terminal)(nil)

// New creates an empty Terminal following the live bottom.
func New(cfg Config) (*Terminal, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, ErrInvalidSize
	}
	store, err := scrollback.New(cfg.Cols, cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Terminal{
		store:  store,
		view:   viewport.NewController(cfg.Cols, cfg.Rows),
		logger: logger,
	}, nil
}

// SetChangeHandler registers fn to run after every change to content or
// placement. fn runs on the goroutine that made the change and must not
// block.
func (t *Terminal) SetChangeHandler(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// AppendRow commits one row and re-places the viewport. Rows appended after
// Close are dropped.
func (t *Terminal) AppendRow(cells scrollback.Row) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.store.Append(cells)
	t.view.Sync(t.store.Len(), t.store.Origin())
	t.unlockAndNotify()
}

// AppendLinkedRow is AppendRow for a row carrying hyperlink targets.
func (t *Terminal) AppendLinkedRow(cells scrollback.Row, links []scrollback.Link) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.store.AppendLinked(cells, links)
	t.view.Sync(t.store.Len(), t.store.Origin())
	t.unlockAndNotify()
}

// AppendText commits one row of plain text.
func (t *Terminal) AppendText(text string) {
	t.AppendRow(scrollback.CellsFromString(text, 0))
}

// SetWindowBase scrolls to target, clamped to [0, ScreenBase()].
func (t *Terminal) SetWindowBase(target int) {
	t.mu.Lock()
	t.view.SetWindowBase(target)
	t.unlockAndNotify()
}

// ScrollBy scrolls delta rows; negative values move towards older rows.
func (t *Terminal) ScrollBy(delta int) {
	t.mu.Lock()
	t.view.ScrollBy(delta)
	t.unlockAndNotify()
}

// ScrollToBottom returns to the live bottom and resumes tracking it.
func (t *Terminal) ScrollToBottom() {
	t.mu.Lock()
	t.view.SetWindowBase(t.view.ScreenBase())
	t.unlockAndNotify()
}

// WindowBase returns the top visible row index.
func (t *Terminal) WindowBase() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view.WindowBase()
}

// ScreenBase returns the top row index of the live bottom.
func (t *Terminal) ScreenBase() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view.ScreenBase()
}

// MaxBufferSize returns the scrollback capacity in rows.
func (t *Terminal) MaxBufferSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.MaxRows()
}

// Cols returns the current column count.
func (t *Terminal) Cols() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Cols()
}

// State returns the viewport state.
func (t *Terminal) State() viewport.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view.State()
}

// EnterFreeze pins the window at windowBase until ExitFreeze or an explicit
// scroll to the bottom.
func (t *Terminal) EnterFreeze(windowBase int) {
	t.mu.Lock()
	t.view.EnterFreeze(windowBase)
	t.logger.Debug("freeze", "windowBase", t.view.WindowBase())
	t.unlockAndNotify()
}

// ExitFreeze releases a freeze. It does nothing when not frozen.
func (t *Terminal) ExitFreeze(restoreToBottom bool) {
	t.mu.Lock()
	if t.view.Mode() != viewport.Frozen {
		t.mu.Unlock()
		return
	}
	t.view.ExitFreeze(restoreToBottom)
	t.logger.Debug("unfreeze", "restore", restoreToBottom, "windowBase", t.view.WindowBase())
	t.unlockAndNotify()
}

// RowAt returns the row at store index i.
func (t *Terminal) RowAt(i int) (scrollback.Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.RowAt(i)
}

// Line returns the row with absolute line number abs.
func (t *Terminal) Line(abs int64) (scrollback.Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Line(abs)
}

// LinkAt returns the link target at a position: an attached hyperlink if
// one covers it, else a URL written in the text.
func (t *Terminal) LinkAt(pos scrollback.Pos) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if url, ok := scrollback.LinkAt(t.store.Links(pos.Line), pos.Col); ok {
		return url, true
	}
	row, ok := t.store.Line(pos.Line)
	if !ok {
		return "", false
	}
	return scrollback.URLAt(row, pos.Col)
}

// Frame reads the visible rows and the state together.
func (t *Terminal) Frame() Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.view.State()
	rows := make([]scrollback.Row, st.Rows)
	for i := range rows {
		rows[i], _ = t.store.RowAt(st.WindowBase + i)
	}
	return Frame{State: st, Rows: rows}
}

// Text extracts the characters between two positions, see scrollback.Store.Text.
func (t *Terminal) Text(start, end scrollback.Pos) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Text(start, end)
}

// Resize changes the grid dimensions. A column change rebuilds the store;
// rows only affect the viewport.
func (t *Terminal) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return ErrInvalidSize
	}
	t.mu.Lock()
	if err := t.store.Resize(cols); err != nil {
		t.mu.Unlock()
		return err
	}
	t.view.Resize(cols, rows)
	t.view.Sync(t.store.Len(), t.store.Origin())
	t.logger.Debug("resize", "cols", cols, "rows", rows, "screenBase", t.view.ScreenBase())
	t.unlockAndNotify()
	return nil
}

// Close releases any freeze and stops accepting rows. The content stays
// readable.
func (t *Terminal) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.view.ExitFreeze(true)
	t.unlockAndNotify()
}

// Closed reports whether Close was called.
func (t *Terminal) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Terminal) unlockAndNotify() {
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}
