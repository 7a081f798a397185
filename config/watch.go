// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/watch.go
// Summary: Reloads texelview.json when it changes on disk.

package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 120 * time.Millisecond

// Watch reloads the configuration whenever texelview.json changes and passes
// the new values to onChange. The directory is watched rather than the file
// so editors that replace the file are seen. Watching stops when ctx ends.
// onChange runs on the watcher goroutine.
func Watch(ctx context.Context, onChange func(Config)) error {
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != systemConfigName {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				pending = time.After(watchDebounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config: watch error", "err", err)
			case <-pending:
				pending = nil
				if err := Reload(); err != nil {
					log.Warn("config: reload failed", "err", err)
					continue
				}
				log.Info("config: reloaded", "path", path)
				onChange(System())
			}
		}
	}()
	return nil
}
