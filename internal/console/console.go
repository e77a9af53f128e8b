// Package console defines the text-console contract every scene draws
// through, plus a cell canvas shared by the terminal backends and a headless
// buffer used by tests and the save tooling.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrInterrupted is returned by every read after the user pressed Ctrl+C.
	ErrInterrupted = errors.New("console: interrupted")
	// ErrClosed is returned by reads on a surface that has been closed or,
	// for a Buffer, has run out of scripted input.
	ErrClosed = errors.New("console: closed")
)

// Surface is the drawing and input boundary the game depends on.
// Coordinates are zero based; (0,0) is the top-left cell, which the border
// drawn by Clear occupies.
type Surface interface {
	WriteText(x, y int, text string, style Style)
	Clear()
	Refresh()
	// ReadKey blocks until a key is pressed.
	ReadKey(ctx context.Context) (Key, error)
	// ReadKeyTimeout waits up to d for a key. ok is false when d elapsed
	// without input.
	ReadKeyTimeout(ctx context.Context, d time.Duration) (key Key, ok bool, err error)
	Width() int
	Height() int
	PromptLine(ctx context.Context, x, y int, prompt string, max int) (string, error)
	Close() error
}

// Key is a key token. Named keys use the KEY_* spelling, printable keys are
// the character itself.
type Key string

const (
	KeyNone      Key = ""
	KeyUp        Key = "KEY_UP"
	KeyDown      Key = "KEY_DOWN"
	KeyLeft      Key = "KEY_LEFT"
	KeyRight     Key = "KEY_RIGHT"
	KeyEnter     Key = "\n"
	KeyTab       Key = "\t"
	KeyBackspace Key = "KEY_BACKSPACE"
	KeyEsc       Key = "KEY_ESC"
	KeyHome      Key = "KEY_HOME"
	KeyEnd       Key = "KEY_END"
)

// Printable reports whether k is a single printable character.
func (k Key) Printable() bool {
	r := []rune(string(k))
	return len(r) == 1 && unicode.IsPrint(r[0])
}

// Lower returns the lower-cased key for printable keys and k otherwise.
func (k Key) Lower() Key {
	if k.Printable() {
		return Key(strings.ToLower(string(k)))
	}
	return k
}

// Color is a palette index. Backends resolve it through the active theme.
type Color int

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var colorNames = []string{"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if int(c) < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// ParseColor maps a colour name to its palette index. The empty string is
// the default colour.
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ColorDefault, nil
	}
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

// Style describes how a run of text is drawn.
type Style struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Dim       bool
	Blink     bool
	Invert    bool
	Italic    bool
	Underline bool
}

// Normal is the zero style.
var Normal = Style{}
