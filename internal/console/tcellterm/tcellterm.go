// Package tcellterm is a console.Surface drawn directly with tcell.
package tcellterm

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/ui"
)

type options struct {
	palette ui.Palette
	log     *zap.Logger
	screen  tcell.Screen
}

// Option configures a Terminal.
type Option func(*options)

func WithPalette(p ui.Palette) Option { return func(o *options) { o.palette = p } }
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }
func WithScreen(s tcell.Screen) Option { return func(o *options) { o.screen = s } }

// Terminal owns a tcell screen and an event poller goroutine.
type Terminal struct {
	canvas  *console.Canvas
	palette ui.Palette
	log     *zap.Logger

	drawMu sync.Mutex
	screen tcell.Screen

	keys        chan console.Key
	interrupted chan struct{}
	interrupt   sync.Once
	done        chan struct{}
	closeOnce   sync.Once
}

// New initialises the screen and starts polling events.
func New(opts ...Option) (*Terminal, error) {
	o := options{palette: ui.PaletteFor(""), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	s := o.screen
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	s.Clear()
	w, h := s.Size()
	t := &Terminal{
		canvas:      console.NewCanvas(w, h),
		palette:     o.palette,
		log:         o.log,
		screen:      s,
		keys:        make(chan console.Key, 64),
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
	}
	go t.poll()
	return t, nil
}

func (t *Terminal) poll() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			w, h := e.Size()
			t.canvas.Resize(w, h)
			t.drawMu.Lock()
			t.screen.Sync()
			t.drawMu.Unlock()
		case *tcell.EventKey:
			if e.Key() == tcell.KeyCtrlC {
				t.interrupt.Do(func() {
					t.log.Info("interrupted")
					close(t.interrupted)
				})
				continue
			}
			k, ok := mapKey(e)
			if !ok {
				continue
			}
			select {
			case t.keys <- k:
			default:
				t.log.Debug("key dropped", zap.String("key", string(k)))
			}
		}
	}
}

func (t *Terminal) isInterrupted() bool {
	select {
	case <-t.interrupted:
		return true
	default:
		return false
	}
}

func (t *Terminal) WriteText(x, y int, text string, style console.Style) {
	t.canvas.Put(x, y, text, style)
}

func (t *Terminal) Clear() { t.canvas.Clear() }

// Refresh copies the canvas onto the screen.
func (t *Terminal) Refresh() {
	w, h := t.canvas.Size()
	t.drawMu.Lock()
	defer t.drawMu.Unlock()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := t.canvas.Cell(x, y)
			if c.Rune == 0 {
				continue
			}
			t.screen.SetContent(x, y, c.Rune, nil, t.style(c.Style))
		}
	}
	t.screen.Show()
}

func (t *Terminal) style(s console.Style) tcell.Style {
	st := tcell.StyleDefault
	if c, ok := t.palette.Color(s.Fg); ok {
		st = st.Foreground(color(string(c)))
	}
	if c, ok := t.palette.Color(s.Bg); ok {
		st = st.Background(color(string(c)))
	}
	return st.Bold(s.Bold).Dim(s.Dim).Blink(s.Blink).Reverse(s.Invert).Italic(s.Italic).Underline(s.Underline)
}

// color resolves a palette entry: hex strings directly, numbers as ANSI
// palette indices.
func color(v string) tcell.Color {
	if strings.HasPrefix(v, "#") {
		return tcell.GetColor(v)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(n)
}

func (t *Terminal) Width() int {
	w, _ := t.canvas.Size()
	return w
}

func (t *Terminal) Height() int {
	_, h := t.canvas.Size()
	return h
}

func (t *Terminal) ReadKey(ctx context.Context) (console.Key, error) {
	if t.isInterrupted() {
		return console.KeyNone, console.ErrInterrupted
	}
	select {
	case k := <-t.keys:
		return k, nil
	case <-t.interrupted:
		return console.KeyNone, console.ErrInterrupted
	case <-t.done:
		return console.KeyNone, console.ErrClosed
	case <-ctx.Done():
		return console.KeyNone, ctx.Err()
	}
}

func (t *Terminal) ReadKeyTimeout(ctx context.Context, d time.Duration) (console.Key, bool, error) {
	if t.isInterrupted() {
		return console.KeyNone, false, console.ErrInterrupted
	}
	if d <= 0 {
		return console.KeyNone, false, nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case k := <-t.keys:
		return k, true, nil
	case <-timer.C:
		return console.KeyNone, false, nil
	case <-t.interrupted:
		return console.KeyNone, false, console.ErrInterrupted
	case <-t.done:
		return console.KeyNone, false, console.ErrClosed
	case <-ctx.Done():
		return console.KeyNone, false, ctx.Err()
	}
}

// ShowCursor places the terminal cursor. EditLine calls it after each edit.
func (t *Terminal) ShowCursor(x, y int) {
	t.drawMu.Lock()
	t.screen.ShowCursor(x, y)
	t.drawMu.Unlock()
}

func (t *Terminal) PromptLine(ctx context.Context, x, y int, prompt string, max int) (string, error) {
	defer func() {
		t.drawMu.Lock()
		t.screen.HideCursor()
		t.drawMu.Unlock()
	}()
	return console.EditLine(ctx, t, x, y, prompt, max)
}

// Close finalises the screen, which also stops the poller.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.drawMu.Lock()
		t.screen.Fini()
		t.drawMu.Unlock()
		<-t.done
	})
	return nil
}

func mapKey(e *tcell.EventKey) (console.Key, bool) {
	switch e.Key() {
	case tcell.KeyUp:
		return console.KeyUp, true
	case tcell.KeyDown:
		return console.KeyDown, true
	case tcell.KeyLeft:
		return console.KeyLeft, true
	case tcell.KeyRight:
		return console.KeyRight, true
	case tcell.KeyEnter:
		return console.KeyEnter, true
	case tcell.KeyTab:
		return console.KeyTab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return console.KeyBackspace, true
	case tcell.KeyEscape:
		return console.KeyEsc, true
	case tcell.KeyHome:
		return console.KeyHome, true
	case tcell.KeyEnd:
		return console.KeyEnd, true
	case tcell.KeyRune:
		return console.Key(string(e.Rune())), true
	}
	return console.KeyNone, false
}
