package scenes

import (
	"context"
	"time"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
)

var logoStyle = console.Style{Italic: true, Bold: true, Blink: true}

// StartComputer boots the player's first machine: BIOS checks, the Ether
// Industries logo, then the operating system.
type StartComputer struct {
	engine.Base
}

func NewStartComputer(app *engine.App, st *store.GameState) *StartComputer {
	return &StartComputer{Base: engine.NewBase(app, st)}
}

func (s *StartComputer) Name() string { return "start-computer" }

func (s *StartComputer) Start(ctx context.Context) (engine.Scene, error) {
	s.Clear()
	if err := s.play(ctx, assets.AnimBIOS); err != nil {
		return nil, err
	}

	s.Clear()
	start, err := assets.Text(s.App.Assets, assets.LogoStart)
	if err != nil {
		return nil, err
	}
	done, err := assets.Text(s.App.Assets, assets.LogoDone)
	if err != nil {
		return nil, err
	}
	if _, err := s.AddIntoAllCentred(ctx, start, 50*time.Millisecond, 2*time.Second, console.Normal); err != nil {
		return nil, err
	}
	if _, err := s.AddIntoAllCentred(ctx, done, 0, 2*time.Second, logoStyle); err != nil {
		return nil, err
	}
	if _, err := s.GetKey(ctx); err != nil {
		return nil, err
	}

	s.Clear()
	if err := s.play(ctx, assets.AnimBoot); err != nil {
		return nil, err
	}
	if _, err := s.SleepKey(ctx, time.Second); err != nil {
		return nil, err
	}
	return NewEtherLogin(s.App, s.State), nil
}

func (s *StartComputer) play(ctx context.Context, name string) error {
	a, err := s.LoadAnimation(name)
	if err != nil {
		return err
	}
	_, err = s.Play(ctx, a, 1)
	return err
}
