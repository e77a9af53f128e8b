// Package ui holds the list widgets scenes build menus from, and the colour
// palettes the terminal backends render with.
package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
)

var (
	focusedStyle   = console.Style{Bold: true, Invert: true}
	unfocusedStyle = console.Style{Dim: true, Invert: true}
)

// List is a vertical list of strings with one selected item.
//
// The maximum length is either the widest item, recomputed on every access,
// or a fixed width set with SetMaxLength.
type List struct {
	X, Y  int
	Items []string

	// Focused lists highlight their selection brightly and react to
	// KEY_UP/KEY_DOWN.
	Focused bool
	// Margin is the number of spaces drawn before and after every item.
	Margin int
	// PadToMax pads every item to the maximum length so the selection
	// highlight has a constant width.
	PadToMax bool
	// IndentSelected shifts the selected item one column right.
	IndentSelected bool
	// HighlightSelected draws the selection highlight at all.
	HighlightSelected bool

	fixed int
	index int
	log   *zap.Logger
}

// NewList returns a focused list at (x, y).
func NewList(x, y int, items []string, log *zap.Logger) *List {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("new list", zap.Int("x", x), zap.Int("y", y), zap.Strings("items", items))
	return &List{X: x, Y: y, Items: items, Focused: true, HighlightSelected: true, log: log}
}

// Select moves the selection to i. Out of range indices are ignored.
func (l *List) Select(i int) {
	if i < 0 || i >= len(l.Items) {
		l.logger().Warn("select out of range", zap.Int("index", i), zap.Int("items", len(l.Items)))
		return
	}
	l.index = i
}

func (l *List) SelectNext()     { l.Select(l.index + 1) }
func (l *List) SelectPrevious() { l.Select(l.index - 1) }

// HandleKey moves the selection on KEY_DOWN/KEY_UP when the list is focused.
func (l *List) HandleKey(k console.Key) {
	if !l.Focused {
		return
	}
	switch k {
	case console.KeyDown:
		l.SelectNext()
	case console.KeyUp:
		l.SelectPrevious()
	}
}

// SelectedIndex returns the selected position.
func (l *List) SelectedIndex() int { return l.index }

// SelectedItem returns the selected item; ok is false for an empty list.
func (l *List) SelectedItem() (string, bool) {
	if l.index < 0 || l.index >= len(l.Items) {
		return "", false
	}
	return l.Items[l.index], true
}

// SetItems replaces the items, keeping the selection when it is still valid.
func (l *List) SetItems(items []string) {
	l.Items = items
	if l.index >= len(items) {
		l.index = max(len(items)-1, 0)
	}
}

// SetMaxLength fixes the maximum length. n <= 0 returns to the widest item.
func (l *List) SetMaxLength(n int) { l.fixed = n }

// MaxLength returns the fixed length, or the display width of the widest
// item.
func (l *List) MaxLength() int {
	if l.fixed > 0 {
		return l.fixed
	}
	longest := 0
	for _, it := range l.Items {
		longest = max(longest, runewidth.StringWidth(it))
	}
	return longest
}

// ActualWidth is the number of columns Draw may touch.
func (l *List) ActualWidth() int {
	w := l.MaxLength() + 2*l.Margin
	if l.IndentSelected {
		w++
	}
	return w
}

func (l *List) withMargins(item string) string {
	if l.PadToMax {
		if pad := l.MaxLength() - runewidth.StringWidth(item); pad > 0 {
			item += strings.Repeat(" ", pad)
		}
	}
	m := strings.Repeat(" ", l.Margin)
	return m + item + m
}

// Draw writes every item, then the selected one highlighted.
func (l *List) Draw(s console.Surface) {
	for i, it := range l.Items {
		it = l.withMargins(it)
		if l.IndentSelected {
			s.WriteText(l.X, l.Y+i, strings.Repeat(" ", runewidth.StringWidth(it)+1), console.Normal)
		}
		s.WriteText(l.X, l.Y+i, it, console.Normal)
	}
	sel, ok := l.SelectedItem()
	if !ok || !l.HighlightSelected {
		return
	}
	sel = l.withMargins(sel)
	y := l.Y + l.index
	if !l.Focused {
		s.WriteText(l.X, y, sel, unfocusedStyle)
		return
	}
	x := l.X
	if l.IndentSelected {
		s.WriteText(l.X, y, strings.Repeat(" ", l.MaxLength()), console.Normal)
		x++
	}
	s.WriteText(x, y, sel, focusedStyle)
}

func (l *List) logger() *zap.Logger {
	if l.log == nil {
		return zap.NewNop()
	}
	return l.log
}
