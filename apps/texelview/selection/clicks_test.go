// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package selection

import (
	"testing"
	"time"
)

func TestClickDetector_Sequence(t *testing.T) {
	clock := time.Unix(1000, 0)
	d := NewClickDetector(DefaultMultiClickTimeout)
	d.now = func() time.Time { return clock }

	want := []ClickType{SingleClick, DoubleClick, TripleClick, SingleClick}
	for i, w := range want {
		if got := d.Detect(3, 4); got != w {
			t.Errorf("click %d = %v, want %v", i, got, w)
		}
		clock = clock.Add(100 * time.Millisecond)
	}
}

func TestClickDetector_TimeoutAndMovement(t *testing.T) {
	clock := time.Unix(1000, 0)
	d := NewClickDetector(DefaultMultiClickTimeout)
	d.now = func() time.Time { return clock }

	d.Detect(0, 0)
	clock = clock.Add(time.Second)
	if got := d.Detect(0, 0); got != SingleClick {
		t.Errorf("late click = %v, want single", got)
	}
	if got := d.Detect(0, 1); got != SingleClick {
		t.Errorf("moved click = %v, want single", got)
	}
	d.Reset()
	if got := d.Detect(0, 1); got != SingleClick {
		t.Errorf("click after reset = %v, want single", got)
	}
}

func TestClickDetector_KeyedOnContentLine(t *testing.T) {
	clock := time.Unix(1000, 0)
	d := NewClickDetector(DefaultMultiClickTimeout)
	d.now = func() time.Time { return clock }

	d.Detect(41, 2)
	// Same screen cell, but the content scrolled by one line.
	if got := d.Detect(42, 2); got != SingleClick {
		t.Errorf("click on other content = %v, want single", got)
	}
	if got := d.Detect(42, 2); got != DoubleClick {
		t.Errorf("click on same content = %v, want double", got)
	}
}

func TestLongPress_FiresCurrentGeneration(t *testing.T) {
	lp := NewLongPress(10 * time.Millisecond)
	fired := make(chan uint64, 1)
	lp.Start(func(gen uint64) { fired <- gen })

	select {
	case gen := <-fired:
		if !lp.Current(gen) {
			t.Error("fired generation should be current")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("long press never fired")
	}
	lp.Stop()
}

func TestLongPress_StopInvalidates(t *testing.T) {
	lp := NewLongPress(time.Hour)
	var captured uint64
	lp.Start(func(gen uint64) {})
	lp.mu.Lock()
	captured = lp.gen
	lp.mu.Unlock()

	if !lp.Current(captured) {
		t.Fatal("armed press should be current")
	}
	lp.Stop()
	if lp.Current(captured) {
		t.Error("stopped press must not be current")
	}

	lp.Start(func(gen uint64) {})
	if lp.Current(captured) {
		t.Error("superseded press must not be current")
	}
	lp.Stop()
}
