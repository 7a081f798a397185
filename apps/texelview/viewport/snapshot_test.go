// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import "testing"

func TestSnapshot_FallsBackToLiveBeforeFirstDraw(t *testing.T) {
	s := NewSnapshot()
	if s.Valid() {
		t.Fatal("new snapshot must not be valid")
	}
	if s.drawn.WindowBase != Unset || s.drawn.ScreenBase != Unset {
		t.Errorf("expected unset sentinels, got %d/%d", s.drawn.WindowBase, s.drawn.ScreenBase)
	}

	live := State{WindowBase: 7, ScreenBase: 9, Rows: 10}
	if got := s.CurrentOrLive(live); got != live {
		t.Errorf("expected live state %+v, got %+v", live, got)
	}
}

func TestSnapshot_PrefersRecordedDraw(t *testing.T) {
	s := NewSnapshot()
	drawn := State{WindowBase: 3, ScreenBase: 3, Rows: 10, Origin: 40}
	s.RecordDraw(drawn)

	live := State{WindowBase: 8, ScreenBase: 8, Rows: 10, Origin: 45}
	if got := s.CurrentOrLive(live); got != drawn {
		t.Errorf("expected drawn state %+v, got %+v", drawn, got)
	}

	s.Reset()
	if s.Valid() {
		t.Error("expected Reset to clear the snapshot")
	}
}
