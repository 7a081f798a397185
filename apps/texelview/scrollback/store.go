// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/scrollback/store.go
// Summary: Bounded ring of rows with evict-oldest growth.
//
// Architecture:
//
//	Store keeps the most recent MaxRows rows in a ring buffer. Rows are
//	addressed two ways: by index (0 = oldest retained row) and by absolute
//	line number, which keeps counting across evictions (Origin is the
//	absolute line of index 0).
//
//	Store has no lock of its own. session.Terminal owns it together with the
//	viewport state and serializes every access.

package scrollback

import "errors"

var (
	// ErrInvalidCapacity is returned when the row capacity is not positive.
	ErrInvalidCapacity = errors.New("scrollback: capacity must be positive")
	// ErrInvalidWidth is returned when the column count is not positive.
	ErrInvalidWidth = errors.New("scrollback: column count must be positive")
)

// Store is a bounded, row-indexed grid of cells.
type Store struct {
	// rows is the ring; head is the slot of the oldest row.
	rows []Row
	// links holds the hyperlink targets of each slot in rows.
	links [][]Link
	head int
	size int

	cols int

	// origin is the absolute line number of the oldest retained row.
	origin int64
}

// New creates a store of maxRows rows, each cols cells wide.
func New(cols, maxRows int) (*Store, error) {
	if maxRows <= 0 {
		return nil, ErrInvalidCapacity
	}
	if cols <= 0 {
		return nil, ErrInvalidWidth
	}
	return &Store{
		rows:  make([]Row, maxRows),
		links: make([][]Link, maxRows),
		cols:  cols,
	}, nil
}

// Append commits one row, evicting the oldest row when the store is full.
// The row is copied and truncated to the column count.
// Returns true if a row was evicted.
func (s *Store) Append(row Row) bool {
	return s.AppendLinked(row, nil)
}

// AppendLinked is Append for a row carrying hyperlink targets.
func (s *Store) AppendLinked(row Row, links []Link) bool {
	row = row.Truncate(s.cols)
	links = clipLinks(links, s.cols)
	if s.size < len(s.rows) {
		slot := s.slot(s.size)
		s.rows[slot] = row
		s.links[slot] = links
		s.size++
		return false
	}
	s.rows[s.head] = row
	s.links[s.head] = links
	s.head = (s.head + 1) % len(s.rows)
	s.origin++
	return true
}

// RowAt returns the row at index. The bool is false for indices outside
// [0, Len()).
func (s *Store) RowAt(index int) (Row, bool) {
	if index < 0 || index >= s.size {
		return nil, false
	}
	return s.rows[s.slot(index)], true
}

// Line returns the row with absolute line number abs. Lines that were
// evicted or not yet written report false.
func (s *Store) Line(abs int64) (Row, bool) {
	idx := abs - s.origin
	if idx < 0 || idx >= int64(s.size) {
		return nil, false
	}
	return s.RowAt(int(idx))
}

// Links returns the hyperlink targets of absolute line abs.
func (s *Store) Links(abs int64) []Link {
	idx := abs - s.origin
	if idx < 0 || idx >= int64(s.size) {
		return nil
	}
	return s.links[s.slot(int(idx))]
}

// Len returns the number of retained rows.
func (s *Store) Len() int { return s.size }

// Cols returns the column count.
func (s *Store) Cols() int { return s.cols }

// MaxRows returns the capacity.
func (s *Store) MaxRows() int { return len(s.rows) }

// Origin returns the absolute line number of index 0.
func (s *Store) Origin() int64 { return s.origin }

// Total returns the number of rows ever appended.
func (s *Store) Total() int64 { return s.origin + int64(s.size) }

// Resize rebuilds the store with a new column count. Row order and
// absolute numbering are preserved; cells past the new width are dropped.
func (s *Store) Resize(cols int) error {
	if cols <= 0 {
		return ErrInvalidWidth
	}
	if cols == s.cols {
		return nil
	}
	rebuilt := make([]Row, len(s.rows))
	links := make([][]Link, len(s.rows))
	for i := 0; i < s.size; i++ {
		rebuilt[i] = s.rows[s.slot(i)].Truncate(cols)
		links[i] = clipLinks(s.links[s.slot(i)], cols)
	}
	s.rows = rebuilt
	s.links = links
	s.head = 0
	s.cols = cols
	return nil
}

func (s *Store) slot(index int) int {
	return (s.head + index) % len(s.rows)
}
