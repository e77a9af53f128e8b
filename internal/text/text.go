// Package text implements styled text: a string or a sequence of styled
// pieces, drawn left to right on a console surface.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/DaanHessen/ether-tui/internal/console"
)

// Text is either a leaf string with a style or a composite of child Texts.
// The zero value is an empty leaf.
type Text struct {
	leaf      string
	children  []Text
	composite bool
	style     console.Style
}

// Plain returns a leaf.
func Plain(s string, style console.Style) Text {
	return Text{leaf: s, style: style}
}

// Strings returns a composite of plain strings that all share style.
func Strings(style console.Style, parts ...string) Text {
	children := make([]Text, len(parts))
	for i, p := range parts {
		children[i] = Plain(p, style)
	}
	return Text{children: children, composite: true, style: style}
}

// Join returns a composite of children, each keeping its own style.
func Join(children ...Text) Text {
	return Text{children: append([]Text(nil), children...), composite: true}
}

// IsComposite reports whether t has children.
func (t Text) IsComposite() bool { return t.composite }

// Children returns the child nodes of a composite.
func (t Text) Children() []Text { return append([]Text(nil), t.children...) }

// Style returns the node's own style.
func (t Text) Style() console.Style { return t.style }

// Len is the display width of all leaves.
func (t Text) Len() int {
	if !t.composite {
		return runewidth.StringWidth(t.leaf)
	}
	n := 0
	for _, c := range t.children {
		n += c.Len()
	}
	return n
}

// String returns the unstyled content.
func (t Text) String() string {
	if !t.composite {
		return t.leaf
	}
	var b strings.Builder
	for _, c := range t.children {
		b.WriteString(c.String())
	}
	return b.String()
}

// Render draws t at (x, y) and refreshes the surface once.
func (t Text) Render(s console.Surface, x, y int) {
	t.draw(s, x, y)
	s.Refresh()
}

func (t Text) draw(s console.Surface, x, y int) {
	if !t.composite {
		s.WriteText(x, y, t.leaf, t.style)
		return
	}
	for _, c := range t.children {
		c.draw(s, x, y)
		x += c.Len()
	}
}
