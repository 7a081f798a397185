// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texelview

import (
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type closingReader struct {
	io.Reader
	closed bool
}

func (c *closingReader) Close() error {
	c.closed = true
	return nil
}

func TestReaderSource(t *testing.T) {
	r := &closingReader{Reader: strings.NewReader("out")}
	src := NewReaderSource(r)
	got, err := src.Start(80, 24)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	data, _ := io.ReadAll(got)
	if string(data) != "out" {
		t.Errorf("read %q", data)
	}
	if _, err := src.Write([]byte("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Write err = %v, want ErrReadOnly", err)
	}
	if err := src.Resize(10, 10); err != nil {
		t.Errorf("Resize: %v", err)
	}
	if err := src.Close(); err != nil || !r.closed {
		t.Errorf("Close should close the reader (err %v)", err)
	}
}

func TestCommandSourceNeedsCommand(t *testing.T) {
	src := NewCommandSource(nil)
	if _, err := src.Start(80, 24); err == nil {
		t.Error("expected error without a command")
	}
	if _, err := src.Write([]byte("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Write before Start: err = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close before Start: %v", err)
	}
}

func TestCommandSourceWaitAndCloseConcurrently(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	src := NewCommandSource([]string{"sh", "-c", "echo hi"})
	r, err := src.Start(40, 10)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	out, _ := io.ReadAll(r)
	if !strings.Contains(string(out), "hi") {
		t.Errorf("output = %q", out)
	}

	waited := make(chan error, 1)
	go func() { waited <- src.Wait() }()
	if err := src.Resize(50, 12); err != nil {
		t.Logf("resize after exit: %v", err)
	}
	_ = src.Close()
	if err := <-waited; err != nil {
		t.Logf("wait: %v", err)
	}
	// A second Close after the process is reaped must not signal or fail.
	_ = src.Close()
}
