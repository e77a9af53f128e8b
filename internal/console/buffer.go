package console

import (
	"context"
	"sync"
	"time"
)

// Buffer is a headless Surface. Keys are scripted up front; timed reads
// advance a virtual clock instead of sleeping.
//
// By default timed reads never consume scripted keys, so a scene's
// animations run to completion and the keys reach its blocking reads. Set
// Interruptible to let timed reads take keys too.
type Buffer struct {
	*Canvas

	Interruptible bool

	mu        sync.Mutex
	keys      []Key
	elapsed   time.Duration
	refreshes int
	closed    bool
	cursorX   int
	cursorY   int
}

// NewBuffer returns a cleared buffer of the given size with scripted keys.
func NewBuffer(width, height int, keys ...Key) *Buffer {
	b := &Buffer{Canvas: NewCanvas(width, height), keys: keys}
	b.Canvas.Clear()
	return b
}

// Push appends scripted keys.
func (b *Buffer) Push(keys ...Key) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, keys...)
}

// Pending returns how many scripted keys are left.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}

// Elapsed is the virtual time spent in timed reads.
func (b *Buffer) Elapsed() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.elapsed
}

// Refreshes counts Refresh calls.
func (b *Buffer) Refreshes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

// ShowCursor records where the cursor was last placed.
func (b *Buffer) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY = x, y
}

// CursorPos returns the last position passed to ShowCursor.
func (b *Buffer) CursorPos() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY
}

func (b *Buffer) WriteText(x, y int, text string, style Style) { b.Canvas.Put(x, y, text, style) }
func (b *Buffer) Clear()                                        { b.Canvas.Clear() }

func (b *Buffer) Refresh() {
	b.mu.Lock()
	b.refreshes++
	b.mu.Unlock()
}

func (b *Buffer) Width() int {
	w, _ := b.Canvas.Size()
	return w
}

func (b *Buffer) Height() int {
	_, h := b.Canvas.Size()
	return h
}

func (b *Buffer) ReadKey(ctx context.Context) (Key, error) {
	if err := ctx.Err(); err != nil {
		return KeyNone, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || len(b.keys) == 0 {
		return KeyNone, ErrClosed
	}
	k := b.keys[0]
	b.keys = b.keys[1:]
	return k, nil
}

func (b *Buffer) ReadKeyTimeout(ctx context.Context, d time.Duration) (Key, bool, error) {
	if err := ctx.Err(); err != nil {
		return KeyNone, false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return KeyNone, false, ErrClosed
	}
	if b.Interruptible && len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:]
		return k, true, nil
	}
	b.elapsed += d
	return KeyNone, false, nil
}

func (b *Buffer) PromptLine(ctx context.Context, x, y int, prompt string, max int) (string, error) {
	return EditLine(ctx, b, x, y, prompt, max)
}

func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
