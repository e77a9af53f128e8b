package ui

import (
	"testing"

	"github.com/DaanHessen/ether-tui/internal/console"
)

func TestTreeFocusMovesRightAndClamps(t *testing.T) {
	tree := NewTreeListFromItems(1, 3, [][]string{{"alice", "bob"}, {"Load save", "Delete save"}}, nil)
	if tree.Focused() != 0 || !tree.Pane(0).Focused || tree.Pane(1).Focused {
		t.Fatal("pane 0 should start focused")
	}
	tree.HandleKey(console.KeyRight)
	if tree.Focused() != 1 || tree.Pane(0).Focused || !tree.Pane(1).Focused {
		t.Fatal("KEY_RIGHT did not move focus to pane 1")
	}
	tree.HandleKey(console.KeyRight)
	if tree.Focused() != 1 || !tree.Pane(1).Focused {
		t.Fatal("KEY_RIGHT past the last pane should be a no-op")
	}
	tree.HandleKey(console.KeyLeft)
	tree.HandleKey(console.KeyLeft)
	if tree.Focused() != 0 {
		t.Fatal("KEY_LEFT past the first pane should be a no-op")
	}
}

func TestTreeForwardsKeysToFocusedPane(t *testing.T) {
	tree := NewTreeListFromItems(0, 0, [][]string{{"a", "b"}, {"c", "d"}}, nil)
	tree.HandleKey(console.KeyDown)
	if tree.Pane(0).SelectedIndex() != 1 || tree.Pane(1).SelectedIndex() != 0 {
		t.Fatal("KEY_DOWN should only move the focused pane")
	}
}

func TestTreeLayout(t *testing.T) {
	left := NewList(0, 0, []string{"alice"}, nil)
	left.Margin = 1
	left.SetMaxLength(28)
	right := NewList(0, 0, []string{"Load save"}, nil)
	tree := NewTreeList(1, 3, left, right)
	if left.X != 1 || left.Y != 3 {
		t.Fatalf("left at (%d,%d)", left.X, left.Y)
	}
	if want := 1 + 30 + 1; right.X != want || right.Y != 3 {
		t.Fatalf("right at (%d,%d), want (%d,3)", right.X, right.Y, want)
	}

	wide := NewList(0, 0, []string{"x"}, nil)
	tree.SetPane(0, wide)
	if right.X != 1+1+1 {
		t.Fatalf("layout not recomputed after SetPane: %d", right.X)
	}
	if !wide.Focused || right.Focused {
		t.Fatal("focus lost after SetPane")
	}
	if tree.Pane(5) != nil {
		t.Fatal("Pane out of range should be nil")
	}
}

func TestPaletteFallbackAndStyle(t *testing.T) {
	if PaletteFor("nope").Name != "classic" {
		t.Fatal("unknown theme should fall back to classic")
	}
	p := PaletteFor("dracula")
	if _, ok := p.Color(console.ColorDefault); ok {
		t.Fatal("default colour should not resolve")
	}
	st := p.Lipgloss(console.Style{Fg: console.ColorRed, Bold: true, Invert: true})
	if !st.GetBold() || !st.GetReverse() {
		t.Fatal("attributes not carried over")
	}
	if len(ThemeNames()) != 5 {
		t.Fatalf("themes = %v", ThemeNames())
	}
}
