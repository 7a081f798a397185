// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/links.go
// Summary: Hands tapped links to the desktop URL opener.

package texelview

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// openURL starts the platform opener for url without waiting for it.
func openURL(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "linux", "freebsd", "openbsd", "netbsd":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", "", url}
	default:
		return fmt.Errorf("no url opener on %s", runtime.GOOS)
	}
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
