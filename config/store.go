// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load logic for the config store.

package config

import "github.com/charmbracelet/log"

// loadSystemLocked reads texelview.json into system. A file that cannot be
// read leaves an already loaded configuration in place; on first load it
// falls back to the defaults.
func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Warn("config: cannot resolve path", "err", err)
		system = make(Config)
		applyDefaults(system)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		if len(system) > 0 {
			log.Warn("config: read failed, keeping current settings", "path", path, "err", readErr)
			return readErr
		}
		log.Warn("config: read failed", "path", path, "err", readErr)
		cfg = make(Config)
		applyDefaults(cfg)
		system = cfg
		return readErr
	}

	if !exists || len(cfg) == 0 {
		cfg = defaultConfig()
		if cfg == nil {
			cfg = make(Config)
		}
		applyDefaults(cfg)
		if err := writeConfig(path, cfg); err != nil {
			log.Warn("config: failed to write defaults", "path", path, "err", err)
			readErr = err
		}
	} else {
		applyDefaults(cfg)
		log.Debug("config: loaded", "path", path)
	}

	system = cfg
	return readErr
}
