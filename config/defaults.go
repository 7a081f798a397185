// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Fills missing keys from the embedded defaults.

package config

import "github.com/charmbracelet/log"

// applyDefaults adds every default key missing from cfg. Existing keys win.
func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	def, err := embeddedDefaults()
	if err != nil {
		log.Warn("config: embedded defaults unusable", "err", err)
		return
	}
	for name, raw := range def {
		switch v := raw.(type) {
		case map[string]interface{}:
			cfg.RegisterDefaults(name, Section(v))
		case Section:
			cfg.RegisterDefaults(name, v)
		default:
			if _, ok := cfg[name]; !ok {
				cfg[name] = v
			}
		}
	}
}
