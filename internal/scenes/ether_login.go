package scenes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
)

const (
	loginBanner   = "Ether Industry EtherOS v6.2.4"
	loginPrompt   = "Login: "
	passwordLabel = "Password: "
	loginY        = 3
	maxAttempts   = 3
	// hintDistance is the largest edit distance a mistyped login may have
	// and still get a hint.
	hintDistance = 2
)

var (
	bannerStyle = console.Style{Bold: true}
	failStyle   = console.Style{Fg: console.ColorRed, Bold: true}
	hintStyle   = console.Style{Fg: console.ColorYellow, Dim: true}
	okStyle     = console.Style{Fg: console.ColorGreen, Bold: true}
)

// EtherLogin asks for the save's credentials. Three failed attempts send
// the player back to save selection.
type EtherLogin struct {
	engine.Base
}

func NewEtherLogin(app *engine.App, st *store.GameState) *EtherLogin {
	return &EtherLogin{Base: engine.NewBase(app, st)}
}

func (s *EtherLogin) Name() string { return "ether-login" }

func (s *EtherLogin) Start(ctx context.Context) (engine.Scene, error) {
	username, _ := s.State.String(store.KeyUsername)
	password, _ := s.State.String(store.KeyPassword)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s.Clear()
		s.AddInto(1, 1, loginBanner, bannerStyle)
		if attempt > 1 {
			s.AddInto(1, loginY+4, fmt.Sprintf("Attempt %d of %d", attempt, maxAttempts), hintStyle)
		}

		login, err := s.Prompt(ctx, 1, loginY, loginPrompt, 0)
		if err != nil {
			return nil, err
		}
		pass, err := s.Prompt(ctx, 1, loginY+1, passwordLabel, 0)
		if err != nil {
			return nil, err
		}
		if login == username && pass == password {
			return s.succeed(ctx)
		}

		s.Log().Info("login failed", zap.String("save", s.State.Name()), zap.Int("attempt", attempt))
		s.AddInto(1, loginY+3, "Login incorrect", failStyle)
		if hint := loginHint(login, username); hint != "" {
			s.AddInto(1, loginY+5, hint, hintStyle)
		}
		if _, err := s.SleepKey(ctx, 1500*time.Millisecond); err != nil {
			return nil, err
		}
	}
	s.AddInto(1, loginY+7, "Too many failed attempts.", failStyle)
	if _, err := s.SleepKey(ctx, 2*time.Second); err != nil {
		return nil, err
	}
	return NewSelectSave(s.App), nil
}

func (s *EtherLogin) succeed(ctx context.Context) (engine.Scene, error) {
	if err := s.State.Set(store.KeyFirstLogin, true); err != nil {
		return nil, err
	}
	if err := s.App.Saves.SaveState(ctx, s.State); err != nil {
		return nil, err
	}
	s.AddInto(1, loginY+3, "Welcome, "+s.State.Name()+".", okStyle)
	if _, err := s.SleepKey(ctx, time.Second); err != nil {
		return nil, err
	}
	return NewFirstTurnOn(s.App, s.State), nil
}

// loginHint suggests the real login when the typed one is close to it.
func loginHint(typed, want string) string {
	if typed == "" || typed == want {
		return ""
	}
	if strings.EqualFold(typed, want) {
		return "Hint: logins are case sensitive."
	}
	if levenshtein.ComputeDistance(strings.ToLower(typed), strings.ToLower(want)) <= hintDistance {
		return fmt.Sprintf("Did you mean '%s'?", want)
	}
	return ""
}
