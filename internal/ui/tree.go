package ui

import (
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
)

// paneMargin separates adjacent panes.
const paneMargin = 1

// TreeList lays lists out left to right and moves focus between them with
// KEY_LEFT/KEY_RIGHT. Exactly one pane is focused.
type TreeList struct {
	X, Y int

	panes   []*List
	focused int
}

// NewTreeList positions the panes and focuses the first one.
func NewTreeList(x, y int, panes ...*List) *TreeList {
	t := &TreeList{X: x, Y: y, panes: panes}
	t.Layout()
	t.Focus(0)
	return t
}

// NewTreeListFromItems wraps each item slice in a List.
func NewTreeListFromItems(x, y int, items [][]string, log *zap.Logger) *TreeList {
	panes := make([]*List, len(items))
	for i, it := range items {
		panes[i] = NewList(0, 0, it, log)
	}
	return NewTreeList(x, y, panes...)
}

// Layout recomputes pane positions. Call it again whenever a pane's width
// changes.
func (t *TreeList) Layout() {
	x := t.X
	for _, p := range t.panes {
		p.X, p.Y = x, t.Y
		x += p.ActualWidth() + paneMargin
	}
}

// HandleKey forwards k to every pane, then moves focus on left/right.
func (t *TreeList) HandleKey(k console.Key) {
	for _, p := range t.panes {
		p.HandleKey(k)
	}
	switch k {
	case console.KeyRight:
		t.Focus(t.focused + 1)
	case console.KeyLeft:
		t.Focus(t.focused - 1)
	}
}

// Focus focuses pane i. Out of range indices are ignored.
func (t *TreeList) Focus(i int) {
	if i < 0 || i >= len(t.panes) {
		return
	}
	t.focused = i
	for j, p := range t.panes {
		p.Focused = j == i
	}
}

// Focused returns the index of the focused pane.
func (t *TreeList) Focused() int { return t.focused }

// Len returns the number of panes.
func (t *TreeList) Len() int { return len(t.panes) }

// Pane returns pane i, or nil when out of range.
func (t *TreeList) Pane(i int) *List {
	if i < 0 || i >= len(t.panes) {
		return nil
	}
	return t.panes[i]
}

// SetPane replaces pane i, keeping focus state and layout consistent.
func (t *TreeList) SetPane(i int, l *List) {
	if i < 0 || i >= len(t.panes) {
		return
	}
	t.panes[i] = l
	t.Layout()
	t.Focus(t.focused)
}

func (t *TreeList) Draw(s console.Surface) {
	for _, p := range t.panes {
		p.Draw(s)
	}
}
