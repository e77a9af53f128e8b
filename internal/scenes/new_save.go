package scenes

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
	"github.com/DaanHessen/ether-tui/internal/text"
)

const (
	superuserPrompt = "New superuser login: "
	passwordPrompt  = "New superuser password: "
	loginPrefix     = "[ether-login c198762] "
)

var (
	prefixStyle = console.Style{Dim: true}
	errorStyle  = console.Style{Fg: console.ColorRed, Blink: true}
	infoStyle   = console.Style{Fg: console.ColorYellow}
)

// NewSave is the corrupted login screen: the machine has lost its user
// database and walks the player through creating a superuser, which becomes
// a new save.
type NewSave struct {
	engine.Base
}

func NewNewSave(app *engine.App) *NewSave {
	return &NewSave{Base: engine.NewBase(app, nil)}
}

func (s *NewSave) Name() string { return "new-save" }

func (s *NewSave) Start(ctx context.Context) (engine.Scene, error) {
	s.Clear()
	a, err := s.LoadAnimation(assets.AnimCorrupt)
	if err != nil {
		return nil, err
	}
	y, err := s.Play(ctx, a, 1)
	if err != nil {
		return nil, err
	}

	name, y, err := s.askName(ctx, y)
	if err != nil {
		return nil, err
	}
	password, y, err := s.askPassword(ctx, y)
	if err != nil {
		return nil, err
	}

	st := store.NewGameState()
	for _, kv := range []struct {
		key   string
		value any
	}{
		{store.KeyName, name},
		{store.KeyUsername, name},
		{store.KeyPassword, password},
		{store.KeyComputerBrand, assets.EtherIndustries},
		{store.KeyFirstLogin, false},
	} {
		if err := st.Set(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	if err := s.App.Saves.SaveState(ctx, st); err != nil {
		return nil, err
	}
	s.Log().Info("created save", zap.String("save", name))

	s.logLine(y+1, "INFO", infoStyle, ": Superuser '"+name+"' created.")
	if _, err := s.SleepKey(ctx, 1500*time.Millisecond); err != nil {
		return nil, err
	}
	return NewStartComputer(s.App, st), nil
}

// askName prompts until the name can be used for a new save.
func (s *NewSave) askName(ctx context.Context, y int) (string, int, error) {
	for {
		name, err := s.Prompt(ctx, 1, y, superuserPrompt, 0)
		if err != nil {
			return "", y, err
		}
		name = strings.TrimSpace(name)
		problem := ""
		if err := store.ValidateName(name); err != nil {
			problem = ": Invalid user name."
		} else if _, err := os.Stat(s.App.Saves.PathFor(name)); err == nil {
			problem = ": User already exists."
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", y, err
		}
		if problem == "" {
			return name, y + 1, nil
		}
		s.logLine(y+1, "ERROR", errorStyle, problem)
	}
}

func (s *NewSave) askPassword(ctx context.Context, y int) (string, int, error) {
	for {
		password, err := s.Prompt(ctx, 1, y, passwordPrompt, 0)
		if err != nil {
			return "", y, err
		}
		if password != "" {
			return password, y + 1, nil
		}
		s.logLine(y+1, "ERROR", errorStyle, ": Password must not be empty.")
	}
}

// logLine writes a login daemon message at y, replacing whatever was there.
func (s *NewSave) logLine(y int, level string, style console.Style, msg string) {
	s.App.Console.WriteText(1, y, strings.Repeat(" ", max(s.App.Console.Width()-2, 0)), console.Normal)
	text.Join(
		text.Plain(loginPrefix, prefixStyle),
		text.Plain(level, style),
		text.Plain(msg, console.Normal),
	).Render(s.App.Console, 1, y)
}
