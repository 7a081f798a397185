// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/viewport/snapshot.go
// Summary: Records the viewport that was actually presented by the last draw.
//
// The store can advance between reading rows for a frame and the next frame
// reaching the screen. Pointer mapping must use what the user saw, so the
// render loop records the drawn state here once a frame's rows were read.
// Only the render goroutine reads or writes a Snapshot.

package viewport

// Unset is the sentinel base value before the first draw.
const Unset = -1

// Snapshot holds the viewport state of the last completed draw.
type Snapshot struct {
	drawn State
}

// NewSnapshot returns a snapshot with no draw recorded.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Reset()
	return s
}

// RecordDraw overwrites the snapshot with the state a frame was drawn from.
func (s *Snapshot) RecordDraw(drawn State) {
	s.drawn = drawn
}

// Valid reports whether a draw was recorded.
func (s *Snapshot) Valid() bool {
	return s.drawn.WindowBase != Unset && s.drawn.ScreenBase != Unset
}

// CurrentOrLive returns the recorded state, or live before the first draw.
func (s *Snapshot) CurrentOrLive(live State) State {
	if !s.Valid() {
		return live
	}
	return s.drawn
}

// Reset forgets the recorded draw.
func (s *Snapshot) Reset() {
	s.drawn = State{WindowBase: Unset, ScreenBase: Unset}
}
