// Package scenes holds the game's scenes, from the title screen to the
// first story sequence.
package scenes

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
)

const pressAnyKey = "  Press any key to start  \n Press l for full license "

var pressAnyKeyStyle = console.Style{Fg: console.ColorBlack, Bg: console.ColorWhite, Blink: true, Dim: true}

// Startup shows the title and, on request, the licence. It continues to
// save selection, or to creating a save when there is none.
type Startup struct {
	engine.Base
}

func NewStartup(app *engine.App) *Startup {
	return &Startup{Base: engine.NewBase(app, nil)}
}

func (s *Startup) Name() string { return "startup" }

func (s *Startup) Start(ctx context.Context) (engine.Scene, error) {
	title, err := assets.Text(s.App.Assets, assets.Startup)
	if err != nil {
		return nil, err
	}

	s.Clear()
	if _, err := s.SleepKey(ctx, 100*time.Millisecond); err != nil {
		return nil, err
	}
	if _, err := s.AddIntoAllCentred(ctx, title, 50*time.Millisecond, 0, console.Normal); err != nil {
		return nil, err
	}

	h := float64(s.App.Console.Height())
	lines := float64(strings.Count(title, "\n") + 1)
	y := engine.Round(h/2+float64(engine.Round(lines/2))) + 2
	if _, err := s.AddIntoCentred(ctx, y, pressAnyKey, 100*time.Millisecond, 0, pressAnyKeyStyle); err != nil {
		return nil, err
	}

	key, err := s.GetKey(ctx)
	if err != nil {
		return nil, err
	}
	s.Clear()
	if key == "l" {
		if err := s.showLicense(ctx); err != nil {
			return nil, err
		}
	}

	saves, err := s.Saves()
	if err != nil {
		return nil, err
	}
	if len(saves) == 0 {
		return NewNewSave(s.App), nil
	}
	return NewSelectSave(s.App), nil
}

func (s *Startup) showLicense(ctx context.Context) error {
	s.Log().Info("showing license")
	if _, err := s.AddIntoAllCentred(ctx, "Press any key to advance.", 0, 0, console.Normal); err != nil {
		return err
	}
	if _, err := s.GetKey(ctx); err != nil {
		return err
	}
	s.Clear()
	md, err := assets.Text(s.App.Assets, assets.License)
	if err != nil {
		return err
	}
	_, err = s.AddIntoAllCentred(ctx, s.renderMarkdown(md), 10*time.Millisecond, 10*time.Second, console.Normal)
	return err
}

// renderMarkdown renders md as plain text wrapped to the screen. On failure
// the source is shown as is.
func (s *Startup) renderMarkdown(md string) string {
	width := s.App.Console.Width() - 4
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("notty"), glamour.WithWordWrap(width))
	if err != nil {
		s.Log().Warn("markdown renderer", zap.Error(err))
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		s.Log().Warn("render license", zap.Error(err))
		return md
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
