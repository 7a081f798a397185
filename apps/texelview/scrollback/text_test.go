// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package scrollback

import "testing"

func textStore(t *testing.T, lines ...string) *Store {
	t.Helper()
	s := mustStore(t, 20, 10)
	for _, l := range lines {
		s.Append(CellsFromString(l, 0))
	}
	return s
}

func TestStoreText_Ranges(t *testing.T) {
	s := textStore(t,
		"alpha beta   ",
		"  gamma  delta",
		"",
		"epsilon",
	)

	tests := []struct {
		name       string
		start, end Pos
		want       string
	}{
		{"single row", Pos{0, 0}, Pos{0, 4}, "alpha"},
		{"reversed columns", Pos{0, 10}, Pos{0, 6}, "beta"},
		{"interior whitespace kept", Pos{1, 0}, Pos{1, 19}, "  gamma  delta"},
		{"multi row", Pos{0, 6}, Pos{1, 6}, "beta\n  gamma"},
		{"empty row in the middle", Pos{1, 9}, Pos{3, 2}, "delta\n\neps"},
		{"reversed rows", Pos{3, 2}, Pos{1, 9}, "delta\n\neps"},
		{"columns past width", Pos{3, 0}, Pos{3, 99}, "epsilon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Text(tt.start, tt.end); got != tt.want {
				t.Errorf("Text(%v, %v) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestStoreText_SkipsEvictedLines(t *testing.T) {
	s := mustStore(t, 10, 2)
	for _, l := range []string{"zero", "one", "two"} {
		s.Append(CellsFromString(l, 0))
	}
	if got := s.Text(Pos{0, 0}, Pos{2, 9}); got != "one\ntwo" {
		t.Errorf("expected evicted line skipped, got %q", got)
	}
}

func TestPosOrder(t *testing.T) {
	a := Pos{Line: 5, Col: 9}
	b := Pos{Line: 5, Col: 2}
	start, end := Order(a, b)
	if start != b || end != a {
		t.Errorf("Order(%v, %v) = %v, %v", a, b, start, end)
	}
	if start, end = Order(b, b); start != b || end != b {
		t.Error("equal positions must stay equal")
	}
}
