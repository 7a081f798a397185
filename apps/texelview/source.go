// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/source.go
// Summary: Output sources: a command under a pty, or any reader.

package texelview

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// ErrReadOnly is returned when writing to a source that takes no input.
var ErrReadOnly = errors.New("texelview: source does not accept input")

// Source produces the output shown by the viewer.
type Source interface {
	// Start begins production and returns the output stream.
	Start(cols, rows int) (io.Reader, error)
	// Wait blocks until the producer is finished after its output ended.
	Wait() error
	Resize(cols, rows int) error
	// Write sends input (paste) to the producer.
	Write(p []byte) (int, error)
	Close() error
}

// CommandSource runs a command attached to a pseudo-terminal. Start and
// Wait run on the producer goroutine while Resize, Write and Close come
// from the UI loop, so the process fields are guarded by mu.
type CommandSource struct {
	args []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	ptmx   *os.File
	exited chan struct{}
}

// NewCommandSource returns a source running args[0] with args[1:].
func NewCommandSource(args []string) *CommandSource {
	return &CommandSource{args: args}
}

func (s *CommandSource) Start(cols, rows int) (io.Reader, error) {
	if len(s.args) == 0 {
		return nil, errors.New("texelview: no command")
	}
	cmd := exec.Command(s.args[0], s.args[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cmd = cmd
	s.ptmx = ptmx
	s.exited = make(chan struct{})
	s.mu.Unlock()
	return ptmx, nil
}

// Wait reaps the process. Only the goroutine that called Start may call it.
func (s *CommandSource) Wait() error {
	s.mu.Lock()
	cmd, exited := s.cmd, s.exited
	s.mu.Unlock()
	if cmd == nil {
		return nil
	}
	defer close(exited)
	return cmd.Wait()
}

func (s *CommandSource) Resize(cols, rows int) error {
	ptmx := s.pty()
	if ptmx == nil {
		return nil
	}
	return pty.Setsize(ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

func (s *CommandSource) Write(p []byte) (int, error) {
	ptmx := s.pty()
	if ptmx == nil {
		return 0, ErrReadOnly
	}
	return ptmx.Write(p)
}

// Close signals a still running process and closes the pty.
func (s *CommandSource) Close() error {
	s.mu.Lock()
	cmd, ptmx, exited := s.cmd, s.ptmx, s.exited
	s.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		select {
		case <-exited:
		default:
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}
	}
	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}

func (s *CommandSource) pty() *os.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ptmx
}

// ReaderSource shows a stream such as a pipe on stdin.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource returns a read-only source over r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Start(cols, rows int) (io.Reader, error) { return s.r, nil }
func (s *ReaderSource) Wait() error                            { return nil }
func (s *ReaderSource) Resize(cols, rows int) error            { return nil }
func (s *ReaderSource) Write(p []byte) (int, error)            { return 0, ErrReadOnly }

func (s *ReaderSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
