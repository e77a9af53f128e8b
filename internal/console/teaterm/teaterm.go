// Package teaterm runs a console.Surface on top of a bubbletea program.
//
// Scenes draw imperatively into a shared canvas from their own goroutine;
// the program only renders that canvas and forwards key presses back through
// a channel.
package teaterm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/ui"
)

const keyBuffer = 64

type options struct {
	palette ui.Palette
	log     *zap.Logger
	program []tea.ProgramOption
}

// Option configures a Terminal.
type Option func(*options)

// WithPalette sets the colour palette used to render styles.
func WithPalette(p ui.Palette) Option { return func(o *options) { o.palette = p } }

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithProgramOptions passes extra options to tea.NewProgram.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *options) { o.program = append(o.program, opts...) }
}

// Terminal is a console.Surface backed by bubbletea.
type Terminal struct {
	canvas  *console.Canvas
	palette ui.Palette
	log     *zap.Logger
	program *tea.Program

	keys        chan console.Key
	interrupted chan struct{}
	interrupt   sync.Once
	ready       chan struct{}
	readyOnce   sync.Once
	done        chan struct{}
	closeOnce   sync.Once
	runErr      error
}

func newTerminal(o options) *Terminal {
	return &Terminal{
		canvas:      console.NewCanvas(0, 0),
		palette:     o.palette,
		log:         o.log,
		keys:        make(chan console.Key, keyBuffer),
		interrupted: make(chan struct{}),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// New starts the program in the alternate screen and waits for the first
// window size so Width and Height are meaningful.
func New(ctx context.Context, opts ...Option) (*Terminal, error) {
	o := options{palette: ui.PaletteFor(""), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	t := newTerminal(o)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, o.program...)
	t.program = tea.NewProgram(model{t: t}, popts...)
	go func() {
		defer close(t.done)
		if _, err := t.program.Run(); err != nil {
			t.runErr = err
		}
	}()
	select {
	case <-t.ready:
		t.log.Debug("terminal ready", zap.Int("width", t.Width()), zap.Int("height", t.Height()))
		return t, nil
	case <-t.done:
		if t.runErr != nil {
			return nil, fmt.Errorf("start terminal: %w", t.runErr)
		}
		return nil, console.ErrClosed
	}
}

func (t *Terminal) markInterrupted() {
	t.interrupt.Do(func() {
		t.log.Info("interrupted")
		close(t.interrupted)
	})
}

func (t *Terminal) markReady() { t.readyOnce.Do(func() { close(t.ready) }) }

func (t *Terminal) isInterrupted() bool {
	select {
	case <-t.interrupted:
		return true
	default:
		return false
	}
}

func (t *Terminal) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *Terminal) WriteText(x, y int, text string, style console.Style) {
	t.canvas.Put(x, y, text, style)
}

func (t *Terminal) Clear()   { t.canvas.Clear() }
func (t *Terminal) Refresh() { t.send(redrawMsg{}) }

func (t *Terminal) Width() int {
	w, _ := t.canvas.Size()
	return w
}

func (t *Terminal) Height() int {
	_, h := t.canvas.Size()
	return h
}

func (t *Terminal) ReadKey(ctx context.Context) (console.Key, error) {
	if t.isInterrupted() {
		return console.KeyNone, console.ErrInterrupted
	}
	select {
	case k := <-t.keys:
		return k, nil
	case <-t.interrupted:
		return console.KeyNone, console.ErrInterrupted
	case <-t.done:
		return console.KeyNone, console.ErrClosed
	case <-ctx.Done():
		return console.KeyNone, ctx.Err()
	}
}

func (t *Terminal) ReadKeyTimeout(ctx context.Context, d time.Duration) (console.Key, bool, error) {
	if t.isInterrupted() {
		return console.KeyNone, false, console.ErrInterrupted
	}
	if d <= 0 {
		return console.KeyNone, false, nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case k := <-t.keys:
		return k, true, nil
	case <-timer.C:
		return console.KeyNone, false, nil
	case <-t.interrupted:
		return console.KeyNone, false, console.ErrInterrupted
	case <-t.done:
		return console.KeyNone, false, console.ErrClosed
	case <-ctx.Done():
		return console.KeyNone, false, ctx.Err()
	}
}

// PromptLine opens a text input at (x, y) and blocks until it is submitted
// or cancelled with Esc.
func (t *Terminal) PromptLine(ctx context.Context, x, y int, prompt string, max int) (string, error) {
	if t.isInterrupted() {
		return "", console.ErrInterrupted
	}
	if max <= 0 {
		max = 30
	}
	reply := make(chan string, 1)
	t.send(promptMsg{x: x, y: y, label: prompt, max: max, reply: reply})
	select {
	case s := <-reply:
		return s, nil
	case <-t.interrupted:
		return "", console.ErrInterrupted
	case <-t.done:
		return "", console.ErrClosed
	case <-ctx.Done():
		t.send(cancelPromptMsg{})
		return "", ctx.Err()
	}
}

// Close quits the program and restores the terminal. It is safe to call more
// than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		if t.program == nil {
			return
		}
		t.program.Quit()
		<-t.done
	})
	if t.runErr != nil && !errors.Is(t.runErr, tea.ErrProgramKilled) && !errors.Is(t.runErr, context.Canceled) {
		return t.runErr
	}
	return nil
}

type redrawMsg struct{}

type promptMsg struct {
	x, y  int
	label string
	max   int
	reply chan<- string
}

type cancelPromptMsg struct{}

type activePrompt struct {
	promptMsg
	input textinput.Model
}

type model struct {
	t      *Terminal
	prompt *activePrompt
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.t.canvas.Resize(msg.Width, msg.Height)
		m.t.markReady()
		return m, nil
	case redrawMsg:
		return m, nil
	case promptMsg:
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = msg.max
		ti.Width = msg.max
		ti.Focus()
		m.prompt = &activePrompt{promptMsg: msg, input: ti}
		return m, textinput.Blink
	case cancelPromptMsg:
		m.prompt = nil
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.t.markInterrupted()
			m.prompt = nil
			return m, nil
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		for _, k := range mapKey(msg) {
			select {
			case m.t.keys <- k:
			default:
				m.t.log.Debug("key dropped", zap.String("key", string(k)))
			}
		}
		return m, nil
	}
	if m.prompt != nil {
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.prompt.reply <- m.prompt.input.Value()
		m.prompt = nil
		return m, nil
	case tea.KeyEsc:
		m.prompt.reply <- ""
		m.prompt = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	w, h := m.t.canvas.Size()
	if w == 0 || h == 0 {
		return ""
	}
	var b strings.Builder
	for y := 0; y < h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		if m.prompt != nil && m.prompt.y == y {
			m.renderPromptLine(&b, y, w)
			continue
		}
		m.renderRuns(&b, m.t.canvas.RunsBetween(y, 0, w))
	}
	return b.String()
}

func (m model) renderRuns(b *strings.Builder, runs []console.Run) {
	for _, r := range runs {
		if r.Style == console.Normal {
			b.WriteString(r.Text)
			continue
		}
		b.WriteString(m.t.palette.Lipgloss(r.Style).Render(r.Text))
	}
}

func (m model) renderPromptLine(b *strings.Builder, y, w int) {
	p := m.prompt
	m.renderRuns(b, m.t.canvas.RunsBetween(y, 0, p.x))
	b.WriteString(p.label)
	field := p.input.View()
	fw := p.max + 1
	if pad := fw - lipgloss.Width(field); pad > 0 {
		field += strings.Repeat(" ", pad)
	}
	b.WriteString(field)
	end := p.x + runewidth.StringWidth(p.label) + fw
	m.renderRuns(b, m.t.canvas.RunsBetween(y, end, w))
}

func mapKey(msg tea.KeyMsg) []console.Key {
	switch msg.Type {
	case tea.KeyUp:
		return []console.Key{console.KeyUp}
	case tea.KeyDown:
		return []console.Key{console.KeyDown}
	case tea.KeyLeft:
		return []console.Key{console.KeyLeft}
	case tea.KeyRight:
		return []console.Key{console.KeyRight}
	case tea.KeyEnter:
		return []console.Key{console.KeyEnter}
	case tea.KeyTab:
		return []console.Key{console.KeyTab}
	case tea.KeyBackspace:
		return []console.Key{console.KeyBackspace}
	case tea.KeyEsc:
		return []console.Key{console.KeyEsc}
	case tea.KeyHome:
		return []console.Key{console.KeyHome}
	case tea.KeyEnd:
		return []console.Key{console.KeyEnd}
	case tea.KeySpace:
		return []console.Key{" "}
	case tea.KeyRunes:
		keys := make([]console.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, console.Key(string(r)))
		}
		return keys
	}
	return nil
}
