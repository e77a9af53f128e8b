// Package engine runs scenes: full-screen steps of the game that draw on a
// console surface and hand over to the next scene when they finish.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/store"
)

// Scene is one step of the game. Start returns the scene to run next, or
// nil to end the game.
type Scene interface {
	Start(ctx context.Context) (Scene, error)
	Name() string
}

// App is what every scene shares.
type App struct {
	Console console.Surface
	Saves   *store.Manager
	Log     *zap.Logger
	Assets  fs.FS
	// Speed divides every delay; values above 1 play faster.
	Speed float64
	// Sleep replaces time.Sleep for pauses that ignore keys. Tests set it.
	Sleep func(time.Duration)
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// Run plays scenes from first until one returns nil. The console is closed
// when Run returns and before a panic propagates. Ctrl+C ends the game
// without an error.
func Run(ctx context.Context, app *App, first Scene) (err error) {
	log := app.logger()
	defer func() {
		r := recover()
		if cerr := app.Console.Close(); cerr != nil {
			log.Warn("close console", zap.Error(cerr))
		}
		if r != nil {
			log.Error("scene panicked", zap.Any("panic", r))
			panic(r)
		}
	}()

	for s := first; s != nil; {
		log.Info("starting scene", zap.String("scene", s.Name()))
		next, err := s.Start(ctx)
		if err != nil {
			if errors.Is(err, console.ErrInterrupted) {
				log.Info("interrupted", zap.String("scene", s.Name()))
				return nil
			}
			return fmt.Errorf("scene %s: %w", s.Name(), err)
		}
		s = next
	}
	log.Info("game exited")
	return nil
}
