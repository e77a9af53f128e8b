// Package store persists game states as JSON files in a save directory and,
// optionally, mirrors them into Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// saveNamespace derives stable ids for saves written before save ids existed.
var saveNamespace = uuid.MustParse("5d3c1b0e-7a43-4c1f-9a6e-0f4b8f3e2c71")

// SaveRecord is one mirrored save document.
type SaveRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Document  string `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (SaveRecord) TableName() string { return "saves" }

// Mirror copies save documents into Postgres. It implements Replica.
type Mirror struct {
	gorm *gorm.DB
	sql  *sql.DB
	log  *zap.Logger
}

// OpenMirror connects to dsn.
func OpenMirror(ctx context.Context, dsn string, log *zap.Logger) (*Mirror, error) {
	if dsn == "" {
		return nil, errors.New("missing DSN")
	}
	if log == nil {
		log = zap.NewNop()
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, errors.Wrap(err, "open mirror")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "mirror pool")
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(4)
	sdb.SetMaxIdleConns(2)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping mirror")
	}
	return &Mirror{gorm: gdb, sql: sdb, log: log.Named("mirror")}, nil
}

func (m *Mirror) Close() error { return m.sql.Close() }

// SaveID returns the state's save id, or one derived from its name.
func SaveID(st *GameState) uuid.UUID {
	if s, ok := st.String(KeySaveID); ok {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.NewSHA1(saveNamespace, []byte(st.Name()))
}

// Upsert writes st's document, keyed by its save id.
func (m *Mirror) Upsert(ctx context.Context, st *GameState) error {
	doc, err := json.Marshal(st.Data)
	if err != nil {
		return errors.Wrap(err, "encode mirror document")
	}
	id := SaveID(st)
	err = m.gorm.WithContext(ctx).Exec(`INSERT INTO saves(id, name, document, updated_at) VALUES (?, ?, ?::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		id, st.Name(), string(doc)).Error
	if err != nil {
		return errors.Wrapf(err, "mirror upsert %q", st.Name())
	}
	m.log.Debug("mirrored", zap.String("id", id.String()), zap.String("name", st.Name()))
	return nil
}

// Delete removes st's row.
func (m *Mirror) Delete(ctx context.Context, st *GameState) error {
	err := m.gorm.WithContext(ctx).Exec(`DELETE FROM saves WHERE id = ?`, SaveID(st)).Error
	return errors.Wrapf(err, "mirror delete %q", st.Name())
}

// List returns the mirrored saves ordered by name.
func (m *Mirror) List(ctx context.Context) ([]SaveRecord, error) {
	var recs []SaveRecord
	if err := m.gorm.WithContext(ctx).Order("lower(name)").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "list mirror")
	}
	return recs, nil
}
