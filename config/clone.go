// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Clone helpers for config maps.

package config

// Clone returns a copy of the config with its sections copied too, so
// writes to the clone never reach the original.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for name, raw := range cfg {
		switch v := raw.(type) {
		case map[string]interface{}:
			clone[name] = cloneSection(Section(v))
		case Section:
			clone[name] = cloneSection(v)
		default:
			clone[name] = v
		}
	}
	return clone
}

func cloneSection(s Section) Section {
	out := make(Section, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}
