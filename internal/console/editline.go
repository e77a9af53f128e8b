package console

import (
	"context"
	"strings"

	"github.com/mattn/go-runewidth"
)

var fieldStyle = Style{Underline: true, Italic: true}

// Cursor is implemented by surfaces that can show a text cursor. EditLine
// keeps it at the end of the typed text.
type Cursor interface {
	ShowCursor(x, y int)
}

// EditLine reads a single line of input on s using only WriteText and
// ReadKey. The prompt is drawn at (x, y) and the field follows it, max cells
// wide. Enter accepts, Esc returns the empty string.
func EditLine(ctx context.Context, s Surface, x, y int, prompt string, max int) (string, error) {
	if max <= 0 {
		max = 30
	}
	s.WriteText(x, y, prompt, Normal)
	fx := x + runewidth.StringWidth(prompt)
	var buf []rune
	draw := func() {
		text := string(buf)
		pad := max - runewidth.StringWidth(text)
		if pad < 0 {
			pad = 0
		}
		s.WriteText(fx, y, text+strings.Repeat(" ", pad), fieldStyle)
		if c, ok := s.(Cursor); ok {
			c.ShowCursor(fx+runewidth.StringWidth(text), y)
		}
		s.Refresh()
	}
	draw()
	for {
		k, err := s.ReadKey(ctx)
		if err != nil {
			return "", err
		}
		switch k {
		case KeyEnter:
			return string(buf), nil
		case KeyEsc:
			return "", nil
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		default:
			if k.Printable() && runewidth.StringWidth(string(buf))+runewidth.StringWidth(string(k)) <= max {
				buf = append(buf, []rune(string(k))...)
			}
		}
		draw()
	}
}
