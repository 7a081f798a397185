// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/clipboard/clipboard.go
// Summary: Clipboard backends for copied selections and paste.

package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	system "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Backend names accepted by New.
const (
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendOSC52  = "osc52"
	BackendMemory = "memory"
)

// osc52Limit caps the payload sent through the terminal.
const osc52Limit = 100 * 1024

var (
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("clipboard: unknown backend")
	// ErrUnavailable is returned when the system clipboard cannot be used.
	ErrUnavailable = errors.New("clipboard: system clipboard unavailable")
)

// Clipboard stores text for paste.
type Clipboard interface {
	SetText(text string) error
	HasText() bool
	Text() (string, error)
}

// New returns the backend named by name. OSC 52 sequences go to w.
func New(name string, w io.Writer) (Clipboard, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		if system.Unsupported {
			return NewOSC52(w), nil
		}
		return &System{}, nil
	case BackendSystem:
		if system.Unsupported {
			return nil, ErrUnavailable
		}
		return &System{}, nil
	case BackendOSC52:
		return NewOSC52(w), nil
	case BackendMemory:
		return &Memory{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Memory keeps the text in process.
type Memory struct {
	mu   sync.Mutex
	text string
	set  bool
}

func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.set = true
	return nil
}

func (m *Memory) HasText() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set && m.text != ""
}

func (m *Memory) Text() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// System uses the desktop clipboard (xclip, xsel, wl-copy, pbcopy, ...).
type System struct{}

func (System) SetText(text string) error {
	return system.WriteAll(text)
}

func (System) HasText() bool {
	text, err := system.ReadAll()
	return err == nil && text != ""
}

func (System) Text() (string, error) {
	return system.ReadAll()
}

// OSC52 sets the host terminal's clipboard with an OSC 52 escape sequence.
// Terminals do not answer reads, so paste comes from the last copied text.
type OSC52 struct {
	w     io.Writer
	tmux  bool
	local Memory
}

// NewOSC52 writes sequences to w, or to stdout when w is nil. Sequences are
// wrapped for tmux or screen when running inside them.
func NewOSC52(w io.Writer) *OSC52 {
	if w == nil {
		w = os.Stdout
	}
	return &OSC52{w: w, tmux: os.Getenv("TMUX") != ""}
}

func (o *OSC52) SetText(text string) error {
	seq := osc52.New(text).Limit(osc52Limit)
	switch {
	case o.tmux:
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.w); err != nil {
		return err
	}
	return o.local.SetText(text)
}

func (o *OSC52) HasText() bool { return o.local.HasText() }

func (o *OSC52) Text() (string, error) { return o.local.Text() }
