// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelview/view.go
// Summary: Scrollback viewer with long-press selection over a live output stream.
//
// Architecture:
//
//	Run pumps the source through the decoder into the session Terminal on its
//	own goroutine. Everything else (Render, input, resize, settings) runs on
//	the devshell event loop. The long-press timer and the config watcher
//	reach that loop by posting events, so the selection engine and the
//	render snapshot are only ever touched from one goroutine.

package texelview

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/apps/texelview/clipboard"
	"github.com/framegrace/texelview/apps/texelview/decoder"
	"github.com/framegrace/texelview/apps/texelview/scrollback"
	"github.com/framegrace/texelview/apps/texelview/selection"
	"github.com/framegrace/texelview/apps/texelview/session"
	"github.com/framegrace/texelview/apps/texelview/viewport"
	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/internal/devshell"
)

const readBufferSize = 32 * 1024

// longPressFired is posted by the long-press timer.
type longPressFired struct{ gen uint64 }

// settingsChanged is posted when the configuration file changes.
type settingsChanged struct{ settings Settings }

// View is the devshell app for texelview.
type View struct {
	settings Settings
	logger   *log.Logger
	src      Source

	term *session.Terminal
	dec  *decoder.Decoder
	snap *viewport.Snapshot
	sel  *selection.Engine
	clip clipboard.Clipboard

	clicks *selection.ClickDetector
	press  *selection.LongPress

	rows     int
	rendered viewport.State
	drawn    bool

	primaryDown bool
	middleDown  bool
	// wholeUnit is set while a word or line selection is held.
	wholeUnit bool
	// mods are the modifiers of the gesture in progress.
	mods tcell.ModMask

	refresh chan<- bool
	postMu  sync.Mutex
	post    func(data interface{}) bool
	// override re-applies command line settings over reloaded config.
	override func(Settings) Settings
	openLink func(url string) error

	stop     chan struct{}
	stopOnce sync.Once
}

var _ devshell.App = (*View)(nil)

// New creates a viewer over src. The grid starts at 80x24 until the first
// Resize.
func New(settings Settings, src Source, logger *log.Logger) (*View, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("texelview")
	term, err := session.New(session.Config{
		Cols:    80,
		Rows:    24,
		MaxRows: settings.MaxRows,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	clip, err := clipboard.New(settings.Clipboard, os.Stdout)
	if err != nil {
		logger.Warn("clipboard backend unusable, keeping copies in memory", "backend", settings.Clipboard, "err", err)
		clip = &clipboard.Memory{}
	}
	snap := viewport.NewSnapshot()
	v := &View{
		settings: settings,
		logger:   logger,
		src:      src,
		term:     term,
		dec:      decoder.New(term),
		snap:     snap,
		clip:     clip,
		clicks:   selection.NewClickDetector(settings.MultiClick),
		press:    selection.NewLongPress(settings.LongPress),
		openLink: openURL,
		rows:     24,
		stop:     make(chan struct{}),
	}
	v.sel = selection.New(term, snap, v.selectionOptions())
	term.SetChangeHandler(v.requestRefresh)
	return v, nil
}

func (v *View) selectionOptions() selection.Options {
	return selection.Options{
		DragConfirms: v.settings.DragConfirms,
		Clipboard:    v.clip,
		Logger:       v.logger,
	}
}

// Terminal returns the session the view displays.
func (v *View) Terminal() *session.Terminal { return v.term }

// Run pumps output until the source ends, then keeps the content on screen
// until Stop.
func (v *View) Run() error {
	cols, rows := v.term.Cols(), v.term.State().Rows
	r, err := v.src.Start(cols, rows)
	if err != nil {
		v.logger.Error("start source", "err", err)
		return err
	}
	v.logger.Info("source started", "cols", cols, "rows", rows)

	_, err = io.CopyBuffer(v.dec, r, make([]byte, readBufferSize))
	v.dec.Flush()
	if err != nil && !errors.Is(err, os.ErrClosed) {
		v.logger.Debug("read ended", "err", err)
	}
	if err := v.src.Wait(); err != nil {
		v.logger.Info("source exited", "err", err)
	}
	st := v.term.State()
	v.logger.Info("output finished", "lines", st.Origin+int64(st.Size))
	v.requestRefresh()

	<-v.stop
	return nil
}

// Stop ends the session. The selection is torn down and any freeze released.
func (v *View) Stop() {
	v.stopOnce.Do(func() {
		close(v.stop)
		v.press.Stop()
		v.sel.Teardown()
		v.term.Close()
		if err := v.src.Close(); err != nil {
			v.logger.Debug("close source", "err", err)
		}
	})
}

// Resize adapts the grid, the selection and the producer to a new size.
func (v *View) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	v.rows = rows
	v.clicks.Reset()
	if err := v.term.Resize(cols, rows); err != nil {
		v.logger.Warn("resize", "cols", cols, "rows", rows, "err", err)
		return
	}
	v.sel.OnGridResize(cols, rows)
	if err := v.src.Resize(cols, rows); err != nil {
		v.logger.Debug("resize source", "err", err)
	}
}

// Render draws the visible rows with the selection highlighted.
func (v *View) Render() [][]devshell.Cell {
	f := v.term.Frame()
	top := f.State.TopLine()
	out := make([][]devshell.Cell, len(f.Rows))
	for y, row := range f.Rows {
		line := top + int64(y)
		cells := make([]devshell.Cell, f.State.Cols)
		for x := range cells {
			c := row.Cell(x)
			if c.IsContinuation() {
				continue
			}
			style := styleFor(c.Attr)
			if v.sel.Contains(line, x) {
				style = selectedStyle(c.Attr)
			}
			cells[x] = devshell.Cell{Ch: c.Rune, Style: style}
		}
		out[y] = cells
	}
	v.rendered = f.State
	v.drawn = true
	return out
}

// FramePresented records the frame the user now sees.
func (v *View) FramePresented() {
	if v.drawn {
		v.snap.RecordDraw(v.rendered)
	}
}

// HandleKey handles scrolling and selection keys. Returns true to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		v.clicks.Reset()
		v.sel.Cancel()
	case tcell.KeyEnter:
		v.copySelection()
	case tcell.KeyUp:
		v.term.ScrollBy(-1)
	case tcell.KeyDown:
		v.term.ScrollBy(1)
	case tcell.KeyPgUp:
		v.term.ScrollBy(-v.rows)
	case tcell.KeyPgDn:
		v.term.ScrollBy(v.rows)
	case tcell.KeyHome:
		v.term.SetWindowBase(0)
	case tcell.KeyEnd:
		v.term.ScrollToBottom()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'y':
			v.copySelection()
		}
	}
	return false
}

// HandleMouse maps mouse buttons onto the selection gestures.
func (v *View) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	fx, fy := float64(x), float64(y)
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		v.term.ScrollBy(-v.settings.WheelLines)
		return
	case buttons&tcell.WheelDown != 0:
		v.term.ScrollBy(v.settings.WheelLines)
		return
	}

	primary := buttons&tcell.ButtonPrimary != 0
	switch {
	case primary && !v.primaryDown:
		v.primaryDown = true
		v.wholeUnit = false
		v.mods = ev.Modifiers()
		if v.mods&tcell.ModShift != 0 && v.sel.State() == selection.Active {
			v.sel.OnPointerMove(fx, fy)
			break
		}
		switch v.detectClick(fx, fy) {
		case selection.DoubleClick:
			v.press.Stop()
			v.wholeUnit = v.sel.SelectWord(fx, fy)
		case selection.TripleClick:
			v.press.Stop()
			v.wholeUnit = v.sel.SelectLine(fx, fy)
		default:
			if v.sel.OnPointerDown(fx, fy) {
				v.press.Start(v.firePress)
			}
		}
	case primary:
		if v.sel.OnPointerMove(fx, fy) {
			v.wholeUnit = false
		}
		if v.sel.State() != selection.Pending {
			v.press.Stop()
		}
	case v.primaryDown:
		v.primaryDown = false
		v.press.Stop()
		tap, tapped := v.tapAt(fx, fy)
		if !v.wholeUnit {
			v.sel.OnPointerUp(fx, fy)
		}
		v.wholeUnit = false
		v.mods = tcell.ModNone
		if v.settings.CopyOnRelease && v.sel.State() == selection.Active {
			v.copySelection()
		}
		if tapped && v.settings.Links {
			v.followLink(tap)
		}
	}

	middle := buttons&tcell.ButtonMiddle != 0
	if middle && !v.middleDown {
		v.pasteClipboard()
	}
	v.middleDown = middle

	if buttons&tcell.ButtonSecondary != 0 {
		v.press.Stop()
		v.clicks.Reset()
		v.sel.Cancel()
	}
}

// detectClick counts clicks on the content line under the pointer, so a
// click after the output scrolled does not combine with the previous one.
func (v *View) detectClick(x, y float64) selection.ClickType {
	pos, ok := v.sel.HitTest(x, y)
	if !ok {
		v.clicks.Reset()
		return selection.SingleClick
	}
	return v.clicks.Detect(pos.Line, pos.Col)
}

// tapAt returns the cell of a release that ends a pending press on the cell
// it started on.
func (v *View) tapAt(x, y float64) (scrollback.Pos, bool) {
	if v.wholeUnit || v.sel.State() != selection.Pending {
		return scrollback.Pos{}, false
	}
	rng, _ := v.sel.Range()
	pos, ok := v.sel.HitTest(x, y)
	if !ok || pos != rng.Anchor {
		return scrollback.Pos{}, false
	}
	return pos, true
}

func (v *View) followLink(pos scrollback.Pos) {
	url, ok := v.term.LinkAt(pos)
	if !ok {
		return
	}
	v.logger.Info("opening link", "url", url)
	if err := v.openLink(url); err != nil {
		v.logger.Warn("open link", "url", url, "err", err)
	}
}

// HandlePaste forwards bracketed paste to the producer.
func (v *View) HandlePaste(data []byte) {
	v.sendInput(data)
}

// HandleInterrupt receives events posted from other goroutines.
func (v *View) HandleInterrupt(data interface{}) {
	switch d := data.(type) {
	case longPressFired:
		if v.press.Current(d.gen) {
			v.sel.OnLongPressConfirmed()
		}
	case settingsChanged:
		v.ApplySettings(d.settings)
	}
}

// SetRefreshNotifier sets the channel used to request redraws.
func (v *View) SetRefreshNotifier(ch chan<- bool) {
	v.refresh = ch
}

// SetEventPoster sets the function that queues events for the UI loop.
func (v *View) SetEventPoster(post func(data interface{}) bool) {
	v.postMu.Lock()
	v.post = post
	v.postMu.Unlock()
}

// SetSettingsOverride sets a function applied to every reloaded
// configuration, so values given on the command line survive reloads. Call
// before the view starts.
func (v *View) SetSettingsOverride(fn func(Settings) Settings) {
	v.postMu.Lock()
	v.override = fn
	v.postMu.Unlock()
}

// SetLinkHandler replaces the function that opens tapped links. The
// default hands the URL to the desktop opener.
func (v *View) SetLinkHandler(fn func(url string) error) {
	v.openLink = fn
}

// ConfigChanged queues new settings from the config watcher. Safe to call
// from any goroutine.
func (v *View) ConfigChanged(cfg config.Config) {
	s := SettingsFromConfig(cfg)
	v.postMu.Lock()
	override := v.override
	v.postMu.Unlock()
	if override != nil {
		s = override(s)
	}
	v.postEvent(settingsChanged{settings: s})
}

// ApplySettings switches to new settings. The scrollback capacity only
// changes on restart.
func (v *View) ApplySettings(s Settings) {
	if s.MaxRows != v.settings.MaxRows {
		v.logger.Info("max_rows takes effect on restart", "current", v.term.MaxBufferSize(), "configured", s.MaxRows)
	}
	if s.Clipboard != v.settings.Clipboard {
		clip, err := clipboard.New(s.Clipboard, os.Stdout)
		if err != nil {
			v.logger.Warn("clipboard backend unusable", "backend", s.Clipboard, "err", err)
		} else {
			v.clip = clip
		}
	}
	if s.MultiClick != v.settings.MultiClick {
		v.clicks = selection.NewClickDetector(s.MultiClick)
	}
	v.press.SetDuration(s.LongPress)
	v.settings = s
	v.sel.SetOptions(v.selectionOptions())
	v.logger.Debug("settings applied", "longPress", s.LongPress, "dragConfirms", s.DragConfirms)
}

func (v *View) copySelection() {
	text, ok := v.sel.Copy()
	if ok {
		v.logger.Info("copied selection", "bytes", len(text))
	}
}

func (v *View) pasteClipboard() {
	if !v.clip.HasText() {
		return
	}
	text, err := v.clip.Text()
	if err != nil || text == "" {
		return
	}
	v.sendInput([]byte(text))
}

func (v *View) sendInput(data []byte) {
	if _, err := v.src.Write(data); err != nil {
		v.logger.Debug("input dropped", "bytes", len(data), "err", err)
	}
}

func (v *View) firePress(gen uint64) {
	v.postEvent(longPressFired{gen: gen})
}

func (v *View) postEvent(data interface{}) {
	v.postMu.Lock()
	post := v.post
	v.postMu.Unlock()
	if post == nil || !post(data) {
		v.logger.Debug("event dropped", "event", data)
	}
}

func (v *View) requestRefresh() {
	if v.refresh == nil {
		return
	}
	select {
	case v.refresh <- true:
	default:
	}
}
