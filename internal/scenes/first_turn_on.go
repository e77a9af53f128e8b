package scenes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
)

const (
	fasmName  = "FASM-4"
	fasmBlank = "       "
	fasmStep  = len(fasmBlank)
)

// FirstTurnOn is the first story sequence: the machine's AI wakes up and
// takes over the screen.
type FirstTurnOn struct {
	engine.Base
}

func NewFirstTurnOn(app *engine.App, st *store.GameState) *FirstTurnOn {
	return &FirstTurnOn{Base: engine.NewBase(app, st)}
}

func (s *FirstTurnOn) Name() string { return "first-turn-on" }

func (s *FirstTurnOn) Start(ctx context.Context) (engine.Scene, error) {
	s.Clear()
	if _, err := s.SleepKey(ctx, 700*time.Millisecond); err != nil {
		return nil, err
	}
	a, err := s.LoadAnimation(assets.AnimFirstBoot)
	if err != nil {
		return nil, err
	}
	if _, err := s.Play(ctx, a, 1); err != nil {
		return nil, err
	}

	if err := s.fill(ctx); err != nil {
		return nil, err
	}
	if _, err := s.SleepKey(ctx, time.Second); err != nil {
		return nil, err
	}

	if err := s.State.Set(store.KeyFasmAwake, true); err != nil {
		return nil, err
	}
	if err := s.App.Saves.SaveState(ctx, s.State); err != nil {
		return nil, err
	}
	s.Log().Info("fasm awake", zap.String("save", s.State.Name()))

	if _, err := s.GetKey(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

// fill covers the screen with the AI's name, column by column. A key
// press draws the rest at once.
func (s *FirstTurnOn) fill(ctx context.Context) error {
	c := s.App.Console
	w, h := c.Width(), c.Height()
	delay := time.Millisecond
	for x := 1; x+fasmStep-1 < w; x += fasmStep {
		for y := 1; y < h-1; y++ {
			c.WriteText(x, y, fasmBlank, console.Normal)
			c.WriteText(x, y, fasmName, console.Normal)
			c.Refresh()
			full, err := s.SleepKey(ctx, delay)
			if err != nil {
				return err
			}
			if !full {
				delay = 0
			}
		}
	}
	return nil
}
