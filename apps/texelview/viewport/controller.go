// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/viewport/controller.go
// Summary: Window placement over the scrollback with follow and freeze modes.
//
// The controller owns windowBase (top visible row index) and derives
// screenBase (the top row when showing the live bottom) from the store size.
// A frozen window keeps its index: appends never change windowBase, it is
// only clamped to [0, screenBase]. A detached window in Following mode stays
// on the same content instead; its top is kept as an absolute line number
// and re-derived after every append.
//
// Controller has no lock. session.Terminal serializes access together with
// the store it describes.

package viewport

// Mode is the viewport placement mode.
type Mode int

const (
	// Following re-asserts the live bottom on every append while the window
	// is at the bottom.
	Following Mode = iota
	// Frozen pins the window regardless of appends.
	Frozen
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case Following:
		return "following"
	case Frozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// State is a consistent copy of the viewport values.
type State struct {
	WindowBase int
	ScreenBase int
	Rows       int
	Cols       int
	// Size is the number of rows retained by the store.
	Size int
	// Origin is the absolute line number of store index 0.
	Origin int64
	Mode   Mode
	// Tracking is true while appends keep the window at the live bottom.
	Tracking bool
}

// AtBottom reports whether the window shows the live bottom.
func (s State) AtBottom() bool {
	return s.WindowBase == s.ScreenBase
}

// HasLine reports whether absolute line abs is still retained.
func (s State) HasLine(abs int64) bool {
	return abs >= s.Origin && abs < s.Origin+int64(s.Size)
}

// TopLine returns the absolute line number shown in the first visible row.
func (s State) TopLine() int64 {
	return s.Origin + int64(s.WindowBase)
}

// Controller places the visible window over the scrollback.
type Controller struct {
	rows, cols int

	size   int
	origin int64

	windowBase int
	screenBase int

	mode     Mode
	tracking bool

	// top is the absolute line at the top of a detached window.
	top int64
	// frozenBase is the pinned windowBase while Frozen.
	frozenBase int
}

// NewController creates a controller for a cols x rows viewport, following
// the live bottom of an empty store.
func NewController(cols, rows int) *Controller {
	return &Controller{
		rows:     rows,
		cols:     cols,
		mode:     Following,
		tracking: true,
	}
}

// Sync updates the controller after the store changed. size is the number
// of retained rows and origin the absolute line of index 0.
func (c *Controller) Sync(size int, origin int64) {
	c.size = size
	c.origin = origin
	c.place()
}

// Resize changes the viewport dimensions. A tracking window stays at the
// bottom, any other window keeps its content and is clamped.
func (c *Controller) Resize(cols, rows int) {
	c.cols = cols
	c.rows = rows
	c.place()
}

// SetWindowBase scrolls explicitly. The target is clamped to
// [0, screenBase]. Landing on screenBase switches to Following and tracks
// the bottom again, also when Frozen. Anywhere else a frozen window moves
// its pin and a following one detaches.
func (c *Controller) SetWindowBase(target int) {
	target = clamp(target, 0, c.screenBase)
	c.windowBase = target
	c.top = c.origin + int64(target)
	switch {
	case target == c.screenBase:
		c.mode = Following
		c.tracking = true
	case c.mode == Frozen:
		c.frozenBase = target
	default:
		c.tracking = false
	}
}

// ScrollBy moves the window by delta rows (negative is towards older rows).
func (c *Controller) ScrollBy(delta int) {
	c.SetWindowBase(c.windowBase + delta)
}

// EnterFreeze pins windowBase, clamped to [0, screenBase].
func (c *Controller) EnterFreeze(windowBase int) {
	c.mode = Frozen
	c.frozenBase = clamp(windowBase, 0, c.screenBase)
	c.place()
}

// ExitFreeze returns to Following. With restoreToBottom the window snaps to
// the live bottom; otherwise it stays where it is and resumes tracking only
// if it already sits at the bottom.
func (c *Controller) ExitFreeze(restoreToBottom bool) {
	if c.mode != Frozen {
		return
	}
	c.mode = Following
	c.top = c.origin + int64(c.windowBase)
	if restoreToBottom {
		c.tracking = true
	} else {
		c.tracking = c.windowBase == c.screenBase
	}
	c.place()
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// WindowBase returns the top visible row index.
func (c *Controller) WindowBase() int { return c.windowBase }

// ScreenBase returns the top row index of the live bottom.
func (c *Controller) ScreenBase() int { return c.screenBase }

// State returns a copy of the viewport values.
func (c *Controller) State() State {
	return State{
		WindowBase: c.windowBase,
		ScreenBase: c.screenBase,
		Rows:       c.rows,
		Cols:       c.cols,
		Size:       c.size,
		Origin:     c.origin,
		Mode:       c.mode,
		Tracking:   c.mode == Following && c.tracking,
	}
}

// place re-establishes 0 <= windowBase <= screenBase for the current mode.
func (c *Controller) place() {
	c.screenBase = c.size - c.rows
	if c.screenBase < 0 {
		c.screenBase = 0
	}
	switch {
	case c.mode == Frozen:
		c.windowBase = clamp(c.frozenBase, 0, c.screenBase)
		return
	case c.tracking:
		c.windowBase = c.screenBase
		c.top = c.origin + int64(c.windowBase)
		return
	}
	rel := c.top - c.origin
	if rel < 0 {
		rel = 0
	}
	if rel > int64(c.screenBase) {
		rel = int64(c.screenBase)
	}
	c.windowBase = int(rel)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
