// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/selection/engine.go
// Summary: Selection state machine over the last drawn frame.
//
// Architecture:
//
//	Idle -> Pending (pointer down) -> Active (long press confirmed)
//	-> Idle (copy, cancel, or release before confirmation).
//
//	Pointer coordinates are resolved against the frame the user last saw
//	(viewport.Snapshot), never the live viewport, and stored as absolute
//	line numbers so appends and evictions cannot shift the selection.
//	When a selection starts while the view follows the live bottom, the
//	engine freezes the viewport and releases it when the selection ends.
//
//	Engine runs on the UI goroutine only. Every access to shared content goes
//	through the Terminal interface, which does its own locking.

package selection

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelview/apps/texelview/clipboard"
	"github.com/framegrace/texelview/apps/texelview/scrollback"
	"github.com/framegrace/texelview/apps/texelview/viewport"
)

// State is the selection lifecycle state.
type State int

const (
	// Idle means no selection is in progress.
	Idle State = iota
	// Pending means the pointer is down and the long press is not confirmed.
	Pending
	// Active means the selection is confirmed and follows the pointer.
	Active
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Terminal is the part of session.Terminal the engine needs.
type Terminal interface {
	State() viewport.State
	Line(abs int64) (scrollback.Row, bool)
	Text(start, end scrollback.Pos) string
	EnterFreeze(windowBase int)
	ExitFreeze(restoreToBottom bool)
}

// Metrics is the size of one cell in pointer units.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
}

// Options configures an Engine.
type Options struct {
	Metrics Metrics
	// DragConfirms makes moving the pointer while Pending confirm the
	// selection, as mouse hosts expect. Without it, moving to another cell
	// cancels the pending selection so the gesture can scroll instead.
	DragConfirms bool
	Clipboard    clipboard.Clipboard
	Logger       *log.Logger
}

// Range is a selection in absolute line/column space. Both ends are
// inclusive.
type Range struct {
	Anchor scrollback.Pos
	Extent scrollback.Pos
}

// Normalized returns the range ends in reading order.
func (r Range) Normalized() (start, end scrollback.Pos) {
	return scrollback.Order(r.Anchor, r.Extent)
}

// Contains reports whether the cell at (line, col) is inside the range.
func (r Range) Contains(line int64, col int) bool {
	start, end := r.Normalized()
	if line < start.Line || line > end.Line {
		return false
	}
	if line == start.Line && col < start.Col {
		return false
	}
	if line == end.Line && col > end.Col {
		return false
	}
	return true
}

// Engine tracks one selection over a terminal view.
type Engine struct {
	term   Terminal
	snap   *viewport.Snapshot
	opts   Options
	logger *log.Logger

	state State
	rng   Range
	// cols is the grid width when the selection started.
	cols int
	// froze is set when this selection froze a following viewport.
	froze bool
}

// New creates an idle engine. snap must be the snapshot the view records
// its draws into.
func New(term Terminal, snap *viewport.Snapshot, opts Options) *Engine {
	if opts.Metrics.CellWidth <= 0 {
		opts.Metrics.CellWidth = 1
	}
	if opts.Metrics.CellHeight <= 0 {
		opts.Metrics.CellHeight = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{term: term, snap: snap, opts: opts, logger: logger}
}

// SetOptions replaces the options. An in-progress selection is kept.
func (e *Engine) SetOptions(opts Options) {
	if opts.Metrics.CellWidth <= 0 {
		opts.Metrics.CellWidth = 1
	}
	if opts.Metrics.CellHeight <= 0 {
		opts.Metrics.CellHeight = 1
	}
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	e.opts = opts
	e.logger = opts.Logger
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Range returns the current selection. The bool is false while Idle.
func (e *Engine) Range() (Range, bool) {
	return e.rng, e.state != Idle
}

// Contains reports whether (line, col) should be highlighted.
func (e *Engine) Contains(line int64, col int) bool {
	return e.state != Idle && e.rng.Contains(line, col)
}

// HitTest maps a pointer position to a cell of the last drawn frame.
// Positions above or below the grid are rejected; columns are clamped.
func (e *Engine) HitTest(x, y float64) (scrollback.Pos, bool) {
	st := e.visible()
	row := int(math.Floor(y / e.opts.Metrics.CellHeight))
	if row < 0 || row >= st.Rows {
		return scrollback.Pos{}, false
	}
	col := int(math.Floor(x / e.opts.Metrics.CellWidth))
	if col < 0 {
		col = 0
	}
	if col > st.Cols-1 {
		col = st.Cols - 1
	}
	return scrollback.Pos{Line: st.TopLine() + int64(row), Col: col}, true
}

// OnPointerDown starts a pending selection. Any previous selection is
// cancelled first. Returns false when the position is off the grid.
func (e *Engine) OnPointerDown(x, y float64) bool {
	if e.state != Idle {
		e.Cancel()
	}
	pos, ok := e.HitTest(x, y)
	if !ok {
		return false
	}
	e.begin(pos, pos)
	e.state = Pending
	e.logger.Debug("selection pending", "line", pos.Line, "col", pos.Col, "froze", e.froze)
	return true
}

// OnLongPressConfirmed promotes a pending selection to Active.
func (e *Engine) OnLongPressConfirmed() bool {
	if e.state != Pending {
		return false
	}
	e.state = Active
	e.logger.Debug("selection active", "line", e.rng.Anchor.Line, "col", e.rng.Anchor.Col)
	return true
}

// OnPointerMove extends an active selection. Returns true if the selection
// changed state or extent.
func (e *Engine) OnPointerMove(x, y float64) bool {
	if e.state == Idle {
		return false
	}
	pos, ok := e.HitTest(x, y)
	if !ok {
		return false
	}
	if e.state == Pending {
		if pos == e.rng.Anchor {
			return false
		}
		if !e.opts.DragConfirms {
			e.Cancel()
			return true
		}
		e.state = Active
	}
	if pos == e.rng.Extent {
		return false
	}
	e.rng.Extent = pos
	return true
}

// OnPointerUp ends the gesture. A pending selection is cancelled; an active
// one keeps its range until Copy or Cancel.
func (e *Engine) OnPointerUp(x, y float64) {
	switch e.state {
	case Pending:
		e.Cancel()
	case Active:
		if pos, ok := e.HitTest(x, y); ok {
			e.rng.Extent = pos
		}
	}
}

// SelectWord selects the word under the pointer and makes it Active.
func (e *Engine) SelectWord(x, y float64) bool {
	return e.selectAt(x, y, wordBounds)
}

// SelectLine selects the whole line under the pointer and makes it Active.
func (e *Engine) SelectLine(x, y float64) bool {
	return e.selectAt(x, y, func(row scrollback.Row, col, cols int) (int, int) {
		return 0, cols - 1
	})
}

func (e *Engine) selectAt(x, y float64, bounds func(row scrollback.Row, col, cols int) (int, int)) bool {
	if e.state != Idle {
		e.Cancel()
	}
	pos, ok := e.HitTest(x, y)
	if !ok {
		return false
	}
	row, _ := e.term.Line(pos.Line)
	start, end := bounds(row, pos.Col, e.visible().Cols)
	e.begin(scrollback.Pos{Line: pos.Line, Col: start}, scrollback.Pos{Line: pos.Line, Col: end})
	e.state = Active
	return true
}

// Copy hands the selected text to the clipboard and ends the selection.
// Returns the text and whether a confirmed selection was copied. Lines
// evicted since the selection began are left out. Empty text never reaches
// the clipboard.
func (e *Engine) Copy() (string, bool) {
	if e.state != Active {
		return "", false
	}
	start, end := e.rng.Normalized()
	if st := e.term.State(); !st.HasLine(start.Line) {
		lost := st.Origin - start.Line
		if span := end.Line - start.Line + 1; lost > span {
			lost = span
		}
		e.logger.Debug("selection lost evicted lines", "lost", lost, "origin", st.Origin)
	}
	text := e.term.Text(start, end)
	e.finish(true)
	if text == "" {
		return "", false
	}
	if e.opts.Clipboard != nil {
		if err := e.opts.Clipboard.SetText(text); err != nil {
			e.logger.Warn("clipboard write failed", "err", err)
		}
	}
	e.logger.Debug("selection copied", "bytes", len(text))
	return text, true
}

// Cancel drops any selection and releases the freeze it took.
func (e *Engine) Cancel() {
	if e.state == Idle {
		return
	}
	e.finish(true)
	e.logger.Debug("selection cancelled")
}

// Teardown ends the selection when the session goes away.
func (e *Engine) Teardown() {
	e.Cancel()
}

// OnGridResize clears a selection that no longer fits the grid. Any column
// change clears it since rows are rebuilt; a rows-only change clears it when
// its lines are gone. The snapshot is reset because the last frame no longer
// matches the grid.
func (e *Engine) OnGridResize(cols, rows int) {
	e.snap.Reset()
	if e.state == Idle {
		return
	}
	st := e.term.State()
	start, end := e.rng.Normalized()
	if cols != e.cols || !st.HasLine(start.Line) || !st.HasLine(end.Line) {
		e.logger.Debug("selection cleared by resize", "cols", cols, "rows", rows)
		e.Cancel()
	}
}

func (e *Engine) begin(anchor, extent scrollback.Pos) {
	st := e.visible()
	e.rng = Range{Anchor: anchor, Extent: extent}
	e.cols = st.Cols
	e.froze = false
	if e.followingBottom() {
		e.term.EnterFreeze(st.WindowBase)
		e.froze = true
	}
}

func (e *Engine) finish(restoreToBottom bool) {
	e.state = Idle
	e.rng = Range{}
	if e.froze {
		e.froze = false
		e.term.ExitFreeze(restoreToBottom)
	}
}

// followingBottom reports whether the view auto-follows the live bottom.
// The last drawn frame decides; the live state is used only before the
// first draw.
func (e *Engine) followingBottom() bool {
	live := e.term.State()
	if live.Mode != viewport.Following {
		return false
	}
	if e.snap.Valid() {
		return e.snap.CurrentOrLive(live).AtBottom()
	}
	return live.Tracking
}

func (e *Engine) visible() viewport.State {
	return e.snap.CurrentOrLive(e.term.State())
}
