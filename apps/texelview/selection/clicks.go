// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/selection/clicks.go
// Summary: Multi-click detection and the long-press timer.

package selection

import (
	"sync"
	"time"
)

// ClickType represents the type of click detected.
type ClickType int

const (
	SingleClick ClickType = 1
	DoubleClick ClickType = 2
	TripleClick ClickType = 3
)

// DefaultMultiClickTimeout is the maximum time between clicks for multi-click detection.
const DefaultMultiClickTimeout = 500 * time.Millisecond

// DefaultLongPress is the hold time that confirms a pending selection.
const DefaultLongPress = 500 * time.Millisecond

// ClickDetector counts consecutive clicks on the same cell of content.
type ClickDetector struct {
	timeout time.Duration
	now     func() time.Time

	lastTime time.Time
	lastLine int64
	lastCol  int
	count    int
}

// NewClickDetector creates a detector with the given multi-click timeout.
func NewClickDetector(timeout time.Duration) *ClickDetector {
	return &ClickDetector{timeout: timeout, now: time.Now}
}

// Detect registers a click at an absolute line and column and returns its
// type. Clicks on the same screen cell over different content do not
// combine. The count cycles 1, 2, 3, 1.
func (c *ClickDetector) Detect(line int64, col int) ClickType {
	now := c.now()
	if line == c.lastLine && col == c.lastCol && c.count > 0 && now.Sub(c.lastTime) < c.timeout {
		c.count++
		if c.count > 3 {
			c.count = 1
		}
	} else {
		c.count = 1
	}
	c.lastTime = now
	c.lastLine = line
	c.lastCol = col
	return ClickType(c.count)
}

// Reset clears the click history.
func (c *ClickDetector) Reset() {
	c.count = 0
	c.lastTime = time.Time{}
}

// LongPress fires a callback once the pointer has been held long enough.
// Each Start supersedes the previous one; a callback from a superseded or
// stopped press is never delivered as current (see Current).
type LongPress struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	gen      uint64
}

// NewLongPress creates a timer with the given hold duration.
func NewLongPress(d time.Duration) *LongPress {
	if d <= 0 {
		d = DefaultLongPress
	}
	return &LongPress{duration: d}
}

// SetDuration changes the hold time for later presses.
func (l *LongPress) SetDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	l.duration = d
	l.mu.Unlock()
}

// Start arms the timer. fire runs on the timer goroutine with the press
// generation, which the UI goroutine checks with Current.
func (l *LongPress) Start(fire func(gen uint64)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.gen++
	gen := l.gen
	l.timer = time.AfterFunc(l.duration, func() { fire(gen) })
}

// Stop disarms the timer and invalidates the current press.
func (l *LongPress) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.gen++
}

// Current reports whether gen belongs to the press that is still armed.
func (l *LongPress) Current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timer != nil && gen == l.gen
}
