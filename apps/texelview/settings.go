// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/settings.go
// Summary: Viewer settings read from texelview.json.

package texelview

import (
	"time"

	"github.com/framegrace/texelview/apps/texelview/clipboard"
	"github.com/framegrace/texelview/apps/texelview/selection"
	"github.com/framegrace/texelview/config"
)

// Settings controls scrollback size and pointer behavior.
type Settings struct {
	MaxRows       int
	LongPress     time.Duration
	MultiClick    time.Duration
	DragConfirms  bool
	CopyOnRelease bool
	WheelLines    int
	Clipboard     string
	// Links opens the URL under a tap that did not start a selection.
	Links bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		MaxRows:       10000,
		LongPress:     selection.DefaultLongPress,
		MultiClick:    selection.DefaultMultiClickTimeout,
		DragConfirms:  true,
		CopyOnRelease: true,
		WheelLines:    3,
		Clipboard:     clipboard.BackendAuto,
	}
}

// SettingsFromConfig reads settings from cfg, falling back to defaults for
// missing or invalid values.
func SettingsFromConfig(cfg config.Config) Settings {
	s := DefaultSettings()
	if n := cfg.GetInt("scrollback", "max_rows", s.MaxRows); n > 0 {
		s.MaxRows = n
	}
	s.LongPress = cfg.GetDurationMs("selection", "long_press_ms", s.LongPress)
	s.MultiClick = cfg.GetDurationMs("selection", "multi_click_ms", s.MultiClick)
	s.DragConfirms = cfg.GetBool("selection", "drag_confirms", s.DragConfirms)
	s.CopyOnRelease = cfg.GetBool("selection", "copy_on_release", s.CopyOnRelease)
	if n := cfg.GetInt("view", "wheel_lines", s.WheelLines); n > 0 {
		s.WheelLines = n
	}
	s.Clipboard = cfg.GetString("clipboard", "backend", s.Clipboard)
	s.Links = cfg.GetBool("links", "enabled", s.Links)
	return s
}
