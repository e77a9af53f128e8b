package store

import (
	"context"
	"embed"
	errs "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

var ErrNoChange = errs.New("no change")

//go:embed migrations/*.sql
var migrations embed.FS

// Migrator applies the mirror schema with golang-migrate.
type Migrator struct {
	dsn string
}

func NewMigrator(dsn string) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("missing DSN")
	}
	return &Migrator{dsn: dsn}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Up() })
}

func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

// Version reports the applied schema version.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var (
		v     uint
		dirty bool
	)
	err := m.run(ctx, func(mig *migrate.Migrate) error {
		var err error
		v, dirty, err = mig.Version()
		if errs.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return v, dirty, err
}

func (m *Migrator) run(ctx context.Context, fn func(*migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "migration source")
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, m.dsn)
	if err != nil {
		return errors.Wrap(err, "migrate")
	}
	defer mig.Close()
	if err := fn(mig); err != nil {
		if errs.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return err
	}
	return nil
}
