// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if got := cfg.GetInt("scrollback", "max_rows", 0); got != 10000 {
		t.Fatalf("expected max_rows default 10000, got %d", got)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if disk.Section("selection") == nil {
		t.Fatalf("expected selection section to be present")
	}
}

func TestPartialFileGetsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	path := filepath.Join(root, "texelview", "texelview.json")
	if err := writeConfig(path, Config{
		"selection": map[string]interface{}{"long_press_ms": 800},
	}); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	cfg := System()
	if got := cfg.GetDurationMs("selection", "long_press_ms", 0); got != 800*time.Millisecond {
		t.Errorf("long_press_ms = %v, want 800ms", got)
	}
	if !cfg.GetBool("selection", "drag_confirms", false) {
		t.Error("missing key should come from defaults")
	}
	if got := cfg.GetString("clipboard", "backend", ""); got != "auto" {
		t.Errorf("backend = %q, want auto", got)
	}
}

func TestBrokenFileFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	dir := filepath.Join(root, "texelview")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "texelview.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := System()
	if Err() == nil {
		t.Error("expected a load error")
	}
	if got := cfg.GetInt("view", "wheel_lines", 0); got != 3 {
		t.Errorf("wheel_lines = %d, want default 3", got)
	}
}

func TestSaveWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	Set(Config{
		"clipboard": map[string]interface{}{"backend": "osc52"},
	})
	if err := Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetString("clipboard", "backend", ""); got != "osc52" {
		t.Fatalf("expected backend osc52, got %q", got)
	}
	if disk.Section("scrollback") == nil {
		t.Fatal("Set should fill in defaults before saving")
	}
}

func TestSystemReturnsCopy(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	cfg.Section("view")["wheel_lines"] = 99
	if got := System().GetInt("view", "wheel_lines", 0); got != 3 {
		t.Errorf("mutating a returned config leaked into the store: %d", got)
	}
}

func TestGetters(t *testing.T) {
	cfg := Config{
		"level": "debug",
		"s": map[string]interface{}{
			"n":    json.Number("42"),
			"f":    float64(7),
			"str":  "12",
			"b":    "true",
			"zero": 0,
		},
	}
	if got := cfg.GetString("", "level", ""); got != "debug" {
		t.Errorf("top-level string = %q", got)
	}
	if cfg.GetInt("s", "n", 0) != 42 || cfg.GetInt("s", "f", 0) != 7 || cfg.GetInt("s", "str", 0) != 12 {
		t.Error("GetInt conversions failed")
	}
	if !cfg.GetBool("s", "b", false) {
		t.Error("GetBool string conversion failed")
	}
	if got := cfg.GetDurationMs("s", "zero", time.Second); got != time.Second {
		t.Errorf("zero duration should fall back, got %v", got)
	}
	if got := cfg.GetInt("missing", "n", 5); got != 5 {
		t.Errorf("missing section should return default, got %d", got)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()
	_ = System()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan Config, 4)
	if err := Watch(ctx, func(cfg Config) { changed <- cfg }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	path := filepath.Join(root, "texelview", "texelview.json")
	if err := writeConfig(path, Config{
		"view": map[string]interface{}{"wheel_lines": 7},
	}); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.GetInt("view", "wheel_lines", 0) == 7 {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestReloadKeepsSettingsWhenFileBreaks(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	path := filepath.Join(root, "texelview", "texelview.json")
	if err := writeConfig(path, Config{
		"selection": map[string]interface{}{"long_press_ms": 900},
	}); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	if got := System().GetInt("selection", "long_press_ms", 0); got != 900 {
		t.Fatalf("long_press_ms = %d, want 900", got)
	}

	if err := os.WriteFile(path, []byte(`{"selection": {"long_pre`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Reload(); err == nil {
		t.Error("expected a reload error")
	}
	if got := System().GetInt("selection", "long_press_ms", 0); got != 900 {
		t.Errorf("long_press_ms = %d after broken reload, want 900", got)
	}
}

func TestWatchSkipsBrokenWrites(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()
	_ = System()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan Config, 4)
	if err := Watch(ctx, func(cfg Config) { changed <- cfg }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	path := filepath.Join(root, "texelview", "texelview.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case cfg := <-changed:
		t.Fatalf("broken file reached onChange: %v", cfg)
	case <-time.After(500 * time.Millisecond):
	}

	if err := writeConfig(path, Config{
		"view": map[string]interface{}{"wheel_lines": 9},
	}); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	select {
	case cfg := <-changed:
		if got := cfg.GetInt("view", "wheel_lines", 0); got != 9 {
			t.Errorf("wheel_lines = %d, want 9", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("valid write was not observed")
	}
}
