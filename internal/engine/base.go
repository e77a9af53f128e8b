package engine

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/anim"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/store"
)

// DefaultPromptLength is the input length Prompt allows when max is not
// positive.
const DefaultPromptLength = 30

// Down bar slots.
const (
	SlotLeft = iota
	SlotCentre
	SlotRight
)

var (
	confirmStyle = console.Style{Fg: console.ColorRed, Invert: true}
	retryStyle   = console.Style{Fg: console.ColorRed, Invert: true, Blink: true}
)

// Base carries the shared App and the game state a scene works on. Scenes
// embed it for the drawing and waiting helpers.
type Base struct {
	App   *App
	State *store.GameState
}

// NewBase returns a Base on state, or on a fresh state when state is nil.
func NewBase(app *App, state *store.GameState) Base {
	if state == nil {
		state = store.NewGameState()
	}
	return Base{App: app, State: state}
}

// Log returns the app logger.
func (b *Base) Log() *zap.Logger { return b.App.logger() }

func (b *Base) surface() console.Surface { return b.App.Console }

func (b *Base) scale(d time.Duration) time.Duration {
	if s := b.App.Speed; s > 0 && s != 1 {
		return time.Duration(float64(d) / s)
	}
	return d
}

// SleepKey waits up to d or until a key is pressed. It reports whether the
// whole delay elapsed. The key that cuts the wait short is consumed.
func (b *Base) SleepKey(ctx context.Context, d time.Duration) (bool, error) {
	if d <= 0 {
		return true, nil
	}
	_, pressed, err := b.surface().ReadKeyTimeout(ctx, b.scale(d))
	if err != nil {
		return false, err
	}
	if pressed {
		b.Log().Debug("sleep interrupted", zap.Duration("delay", d))
	}
	return !pressed, nil
}

// Pause sleeps for d without looking at the keyboard, so keys typed
// meanwhile stay queued.
func (b *Base) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	d = b.scale(d)
	if b.App.Sleep != nil {
		b.App.Sleep(d)
		return
	}
	time.Sleep(d)
}

// GetKey blocks for one key.
func (b *Base) GetKey(ctx context.Context) (console.Key, error) {
	return b.surface().ReadKey(ctx)
}

// Clear blanks the screen and redraws the border.
func (b *Base) Clear() { b.surface().Clear() }

func (b *Base) Refresh() { b.surface().Refresh() }

// AddInto draws s at (x, y) and refreshes.
func (b *Base) AddInto(x, y int, s string, style console.Style) {
	b.surface().WriteText(x, y, s, style)
	b.Refresh()
}

// AddIntoCentred reveals text line by line, each line centred horizontally,
// starting at y. See reveal for the paging rules. It reports whether a key
// cut the line delays short.
func (b *Base) AddIntoCentred(ctx context.Context, y int, text string, delay, pagerDelay time.Duration, style console.Style) (bool, error) {
	r := newReveal(splitLines(text), b.surface().Height()-2, y, delay, pagerDelay)
	if err := r.run(ctx, b, style); err != nil {
		return r.skipped, err
	}
	return r.skipped, nil
}

// AddIntoAllCentred is AddIntoCentred with the text centred vertically too.
func (b *Base) AddIntoAllCentred(ctx context.Context, text string, delay, pagerDelay time.Duration, style console.Style) (bool, error) {
	n := len(splitLines(text))
	y := Round(float64(b.surface().Height())/2) - Round(float64(n)/2)
	return b.AddIntoCentred(ctx, y, text, delay, pagerDelay, style)
}

// CentredX is the column that centres a line of width w on the screen.
func (b *Base) CentredX(w int) int {
	return Round(float64(b.surface().Width())/2 - float64(w)/2)
}

// DrawCentred draws text centred between the columns left and right.
func (b *Base) DrawCentred(text string, left, right, y int, style console.Style) {
	x := left + Round(float64(right-left)/2) - Round(float64(runewidth.StringWidth(text))/2)
	b.AddInto(x, y, text, style)
}

// Prompt reads a line of at most max characters after prompt.
func (b *Base) Prompt(ctx context.Context, x, y int, prompt string, max int) (string, error) {
	if max <= 0 {
		max = DefaultPromptLength
	}
	s, err := b.surface().PromptLine(ctx, x, y, prompt, max)
	if err != nil {
		return "", err
	}
	b.Log().Debug("prompt answered", zap.String("prompt", prompt))
	return s, nil
}

// DownBar writes text on the bottom border: left aligned, centred or right
// aligned depending on slot.
func (b *Base) DownBar(text string, slot int, style console.Style) {
	w, h := b.surface().Width(), b.surface().Height()
	tw := runewidth.StringWidth(text)
	var x int
	switch slot {
	case SlotCentre:
		x = b.CentredX(tw)
	case SlotRight:
		x = w - tw - 2
	default:
		x = 2
	}
	b.AddInto(x, h-1, text, style)
}

// Confirm asks a yes/no question on the down bar until y or n is pressed.
func (b *Base) Confirm(ctx context.Context, prompt string) (bool, error) {
	b.DownBar(prompt, SlotLeft, confirmStyle)
	b.DownBar(" [y/n] ", SlotRight, confirmStyle)
	for {
		k, err := b.GetKey(ctx)
		if err != nil {
			return false, err
		}
		switch k.Lower() {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		b.DownBar(" Please press 'y' or 'n' ", SlotRight, retryStyle)
		b.DownBar(prompt, SlotLeft, confirmStyle)
	}
}

// VLine draws a vertical separator at column x between the borders.
func (b *Base) VLine(x int) {
	h := b.surface().Height()
	for y := 1; y < h-1; y++ {
		b.surface().WriteText(x, y, "│", console.Normal)
	}
	b.Refresh()
}

// LoadAnimation decodes an embedded animation script.
func (b *Base) LoadAnimation(name string) (*anim.Animation, error) {
	return anim.Load(b.App.Assets, name)
}

// Play runs a from line y. A key press fast-forwards the rest of it. It
// returns the first free line below the animation.
func (b *Base) Play(ctx context.Context, a *anim.Animation, y int) (int, error) {
	w := anim.NewKeyWaiter(ctx, b.surface())
	d := &anim.Display{Surface: b.surface(), Waiter: w, Speed: b.App.Speed}
	b.Log().Debug("playing animation", zap.String("animation", a.Name))
	y = a.Play(d, y)
	return y, w.Err()
}

// Saves lists the saves sorted by name.
func (b *Base) Saves() ([]*store.GameState, error) {
	return b.App.Saves.Sorted()
}

// Round rounds half to even, so centring matches across the game.
func Round(f float64) int { return int(math.RoundToEven(f)) }

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
