// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a full-screen app inside a local tcell screen.
//
// Run owns the tcell event loop, which is the only goroutine that calls into
// the app besides app.Run. Background goroutines reach the loop by posting
// interrupts: a refresh request redraws, any other payload goes to the app's
// HandleInterrupt first.

package devshell

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Cell is one drawn screen cell. Ch 0 marks the trailing half of a wide rune.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// App is a program driven by Run.
type App interface {
	// Run blocks until the app is done or Stop is called.
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	// HandleKey returns true when the app wants to quit.
	HandleKey(ev *tcell.EventKey) bool
	SetRefreshNotifier(ch chan<- bool)
}

// Optional app capabilities.
type (
	mouseHandler     interface{ HandleMouse(*tcell.EventMouse) }
	pasteHandler     interface{ HandlePaste([]byte) }
	interruptHandler interface{ HandleInterrupt(data interface{}) }
	presenter        interface{ FramePresented() }
	posterUser       interface{ SetEventPoster(func(data interface{}) bool) }
)

// Builder constructs an App, optionally using CLI args.
type Builder func(args []string) (App, error)

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run executes the provided builder inside a local tcell screen.
func Run(builder Builder, args []string) error {
	app, err := builder(args)
	if err != nil {
		return err
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()
	screen.EnablePaste()

	width, height := screen.Size()
	app.Resize(width, height)
	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)
	if pu, ok := app.(posterUser); ok {
		pu.SetEventPoster(func(data interface{}) bool {
			return screen.PostEvent(tcell.NewEventInterrupt(data)) == nil
		})
	}

	draw := func() {
		screen.Clear()
		buffer := app.Render()
		for y, row := range buffer {
			for x, cell := range row {
				if cell.Ch == 0 {
					continue
				}
				screen.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
		screen.Show()
		if p, ok := app.(presenter); ok {
			p.FramePresented()
		}
	}

	draw()

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
	}()
	defer app.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-refreshCh:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	var pasteBuffer []byte
	var inPaste bool

	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if data := tev.Data(); data != nil {
				if ih, ok := app.(interruptHandler); ok {
					ih.HandleInterrupt(data)
				}
			}
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			screen.Sync()
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				pasteBuffer = nil
			} else if tev.End() {
				inPaste = false
				if ph, ok := app.(pasteHandler); ok && len(pasteBuffer) > 0 {
					ph.HandlePaste(pasteBuffer)
					draw()
				}
				pasteBuffer = nil
			}
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if inPaste {
				if tev.Key() == tcell.KeyRune {
					pasteBuffer = append(pasteBuffer, []byte(string(tev.Rune()))...)
				} else if tev.Key() == tcell.KeyEnter || tev.Key() == 10 {
					pasteBuffer = append(pasteBuffer, '\n')
				}
				continue
			}
			if app.HandleKey(tev) {
				return nil
			}
			draw()
		case *tcell.EventMouse:
			if mh, ok := app.(mouseHandler); ok {
				mh.HandleMouse(tev)
				draw()
			}
		}
	}
}
