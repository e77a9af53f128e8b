package teaterm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/ui"
)

func testTerminal() (*Terminal, model) {
	t := newTerminal(options{palette: ui.PaletteFor("classic"), log: zap.NewNop()})
	return t, model{t: t}
}

func TestWindowSizeResizesCanvas(t *testing.T) {
	term, m := testTerminal()
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if term.Width() != 20 || term.Height() != 5 {
		t.Fatalf("size = %dx%d, want 20x5", term.Width(), term.Height())
	}
	select {
	case <-term.ready:
	default:
		t.Fatal("ready not closed after first window size")
	}
}

func TestKeysAreForwarded(t *testing.T) {
	term, m := testTerminal()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	want := []console.Key{console.KeyDown, "a", "b"}
	for _, w := range want {
		k, err := term.ReadKey(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if k != w {
			t.Fatalf("key = %q, want %q", k, w)
		}
	}
}

func TestCtrlCInterruptsReads(t *testing.T) {
	term, m := testTerminal()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, err := term.ReadKey(context.Background()); !errors.Is(err, console.ErrInterrupted) {
		t.Fatalf("ReadKey err = %v", err)
	}
	if _, _, err := term.ReadKeyTimeout(context.Background(), time.Second); !errors.Is(err, console.ErrInterrupted) {
		t.Fatalf("ReadKeyTimeout err = %v", err)
	}
	// a second ctrl+c must not panic on the closed channel
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func TestReadKeyTimeoutElapses(t *testing.T) {
	term, _ := testTerminal()
	_, ok, err := term.ReadKeyTimeout(context.Background(), time.Millisecond)
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v, want timeout", ok, err)
	}
}

func TestViewRendersCanvas(t *testing.T) {
	term, m := testTerminal()
	m.Update(tea.WindowSizeMsg{Width: 12, Height: 3})
	term.Clear()
	term.WriteText(1, 1, "hello", console.Normal)
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "hello") {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[0], "┌") {
		t.Fatalf("border missing: %q", lines[0])
	}
}

func TestPromptSubmitsValue(t *testing.T) {
	term, m := testTerminal()
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 4})
	reply := make(chan string, 1)
	next, _ := m.Update(promptMsg{x: 1, y: 2, label: "name: ", max: 10, reply: reply})
	m = next.(model)
	for _, r := range "bob" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	if !strings.Contains(m.View(), "name: ") {
		t.Fatal("prompt label not rendered")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if got := <-reply; got != "bob" {
		t.Fatalf("reply = %q", got)
	}
	if m.prompt != nil {
		t.Fatal("prompt still active")
	}
	if len(term.keys) != 0 {
		t.Fatal("prompt keys leaked to the key channel")
	}
}
