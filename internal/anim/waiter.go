package anim

import (
	"context"
	"time"

	"github.com/DaanHessen/ether-tui/internal/console"
)

// KeyWaiter waits by reading keys with a timeout. The first key press
// cuts the current wait short and every later wait returns at once, so the
// rest of the animation is drawn immediately.
type KeyWaiter struct {
	ctx     context.Context
	surface console.Surface
	skipped bool
	err     error
}

func NewKeyWaiter(ctx context.Context, s console.Surface) *KeyWaiter {
	return &KeyWaiter{ctx: ctx, surface: s}
}

func (w *KeyWaiter) Wait(d time.Duration) bool {
	if w.skipped || w.err != nil {
		return false
	}
	_, ok, err := w.surface.ReadKeyTimeout(w.ctx, d)
	if err != nil {
		w.err = err
		return false
	}
	if ok {
		w.skipped = true
		return false
	}
	return true
}

// Skipped reports whether a key fast-forwarded the animation.
func (w *KeyWaiter) Skipped() bool { return w.skipped }

// Err returns the first read error, typically console.ErrInterrupted.
func (w *KeyWaiter) Err() error { return w.err }
