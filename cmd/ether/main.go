package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/console/tcellterm"
	"github.com/DaanHessen/ether-tui/internal/console/teaterm"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/logging"
	"github.com/DaanHessen/ether-tui/internal/scenes"
	"github.com/DaanHessen/ether-tui/internal/store"
	"github.com/DaanHessen/ether-tui/internal/ui"
	"github.com/DaanHessen/ether-tui/internal/util"
)

var (
	version      = "0.1.0-alpha"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := util.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Terminal backend: tea|tcell")
	flag.StringVar(&cfg.SaveDir, "saves", cfg.SaveDir, "Save directory")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "Colour theme: "+strings.Join(ui.ThemeNames(), "|"))
	flag.Float64Var(&cfg.Speed, "speed", cfg.Speed, "Animation speed multiplier")
	flag.StringVar(&cfg.DSN, "dsn", cfg.DSN, "PostgreSQL DSN of the optional save mirror")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ether [--backend tea|tcell] [--saves DIR] [--theme NAME] [--speed X] [--dsn DSN] | saves | seed-saves N [seed] | migrate up|down | version\n")
	}
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogFormat, OutputPath: cfg.LogFile})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("ether", version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			migrate(ctx, cfg.DSN, args[1])
			return
		case "saves":
			saves := openSaves(ctx, cfg, logger)
			if err := listSaves(ctx, saves, cfg.DSN, logger); err != nil {
				log.Fatal(err)
			}
			return
		case "seed-saves":
			saves := openSaves(ctx, cfg, logger)
			if err := seedSaves(ctx, saves, args[1:]); err != nil {
				log.Fatal(err)
			}
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	saves := openSaves(ctx, cfg, logger)
	surface, err := openSurface(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open terminal: %v", err)
	}
	app := &engine.App{
		Console: surface,
		Saves:   saves,
		Log:     logger,
		Assets:  assets.FS,
		Speed:   cfg.Speed,
	}
	logger.Info("starting", zap.String("version", version), zap.String("backend", cfg.Backend))
	if err := engine.Run(ctx, app, scenes.NewStartup(app)); err != nil {
		logger.Error("game stopped", zap.Error(err))
		log.Fatal(err)
	}
}

func openSurface(ctx context.Context, cfg util.Config, logger *zap.Logger) (console.Surface, error) {
	palette := ui.PaletteFor(cfg.Theme)
	if cfg.Backend == "tcell" {
		return tcellterm.New(tcellterm.WithPalette(palette), tcellterm.WithLogger(logger))
	}
	return teaterm.New(ctx, teaterm.WithPalette(palette), teaterm.WithLogger(logger))
}

// openSaves opens the save directory, mirrored to Postgres when a DSN is
// set. An unreachable mirror is logged and skipped.
func openSaves(ctx context.Context, cfg util.Config, logger *zap.Logger) *store.Manager {
	var opts []store.ManagerOption
	if cfg.DSN != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		mirror, err := store.OpenMirror(pingCtx, cfg.DSN, logger)
		cancel()
		if err != nil {
			logger.Warn("save mirror unavailable", zap.Error(err))
			fmt.Fprintf(os.Stderr, "save mirror unavailable: %v\n", err)
		} else {
			opts = append(opts, store.WithReplica(mirror))
		}
	}
	m, err := store.NewManager(cfg.SaveDir, logger, opts...)
	if err != nil {
		log.Fatal(err)
	}
	return m
}

func migrate(ctx context.Context, dsn, action string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(dsn)
	if err != nil {
		log.Fatal(err)
	}
	switch action {
	case "up":
		if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	default:
		log.Fatal("unknown migrate action; use up|down")
	}
	v, dirty, err := migrator.Version(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Schema version %d (dirty: %t)\n", v, dirty)
}

func listSaves(ctx context.Context, m *store.Manager, dsn string, logger *zap.Logger) error {
	saves, err := m.Sorted()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("No saves in", m.Dir())
	}
	for _, st := range saves {
		fmt.Printf("%-28s  last save: %s\n", st.Name(), st.LastSave())
	}
	issues, err := m.Duplicates()
	if err != nil {
		return err
	}
	for _, is := range issues {
		fmt.Printf("warning: %s %q in %s\n", is.Kind, is.Name, strings.Join(is.Paths, ", "))
	}
	if dsn == "" {
		return nil
	}
	mirror, err := store.OpenMirror(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer mirror.Close()
	recs, err := mirror.List(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Mirrored saves: %d\n", len(recs))
	for _, r := range recs {
		fmt.Printf("%-28s  %s  updated %s\n", r.Name, r.ID, r.UpdatedAt.Format(store.DateLayout))
	}
	return nil
}

func seedSaves(ctx context.Context, m *store.Manager, args []string) error {
	if len(args) < 1 {
		return errors.New("seed-saves requires a count")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad count %q: %w", args[0], err)
	}
	seedText := ""
	if len(args) > 1 {
		seedText = strings.TrimSpace(args[1])
	}
	if seedText == "" {
		if seedText, err = generateSeed(); err != nil {
			return fmt.Errorf("failed to generate seed: %w", err)
		}
		fmt.Printf("Seed: %s\n", seedText)
	}
	created, err := m.Seed(ctx, n, seedText)
	if err != nil {
		return err
	}
	for _, st := range created {
		fmt.Println("created", st.Path())
	}
	return nil
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
