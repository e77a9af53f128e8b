package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SaveExt is the extension of save files.
const SaveExt = ".json"

// DateLayout formats metadata.save_date.
const DateLayout = "2006-01-02 15:04:05"

var (
	ErrSaveExists  = errors.New("a save with that name already exists")
	ErrInvalidName = errors.New("invalid save name")
)

// Replica receives a copy of every change the Manager makes. Replica errors
// are logged, never returned: the files are authoritative.
type Replica interface {
	Upsert(ctx context.Context, st *GameState) error
	Delete(ctx context.Context, st *GameState) error
}

// Manager keeps the save files of one directory.
type Manager struct {
	dir     string
	log     *zap.Logger
	replica Replica
	now     func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithReplica mirrors every change to r.
func WithReplica(r Replica) ManagerOption { return func(m *Manager) { m.replica = r } }

// WithClock overrides time.Now for save dates.
func WithClock(now func() time.Time) ManagerOption { return func(m *Manager) { m.now = now } }

// NewManager creates dir if needed.
func NewManager(dir string, log *zap.Logger, opts ...ManagerOption) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create save directory")
	}
	m := &Manager{dir: dir, log: log.Named("saves"), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Dir is the save directory.
func (m *Manager) Dir() string { return m.dir }

// PathFor is the file a save called name lives in.
func (m *Manager) PathFor(name string) string {
	return filepath.Join(m.dir, name+SaveExt)
}

// ValidateName rejects names that cannot be used as a file stem.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return errors.Wrapf(ErrInvalidName, "%q contains a path separator", name)
	}
	return nil
}

// Saves loads every save file. Order is unspecified.
func (m *Manager) Saves() ([]*GameState, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errors.Wrap(err, "list saves")
	}
	var saves []*GameState
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != SaveExt || strings.HasPrefix(e.Name(), ".") {
			m.log.Warn("skipping non-save file", zap.String("file", e.Name()))
			continue
		}
		st := NewGameState()
		if err := st.Load(filepath.Join(m.dir, e.Name())); err != nil {
			return nil, err
		}
		saves = append(saves, st)
	}
	return saves, nil
}

// Sorted returns the saves ordered by case-insensitive name.
func (m *Manager) Sorted() ([]*GameState, error) {
	saves, err := m.Saves()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(saves, func(i, j int) bool {
		return strings.ToLower(saves[i].Name()) < strings.ToLower(saves[j].Name())
	})
	return saves, nil
}

// SaveState writes st to the file named after it, stamping the save date.
func (m *Manager) SaveState(ctx context.Context, st *GameState) error {
	name := st.Name()
	if err := ValidateName(name); err != nil {
		return err
	}
	now := m.now().Format(DateLayout)
	if err := stampSaveID(st); err != nil {
		return err
	}
	if _, ok := st.String(KeySaveCreation); !ok {
		if err := st.Set(KeySaveCreation, now); err != nil {
			return err
		}
	}
	if err := st.Set(KeySaveDate, now); err != nil {
		return err
	}
	path := m.PathFor(name)
	if err := st.Save(path); err != nil {
		return errors.Wrapf(err, "save %q", name)
	}
	st.path = path
	m.log.Info("saved", zap.String("name", name), zap.String("path", path))
	m.mirrorUpsert(ctx, st)
	return nil
}

// Rename moves st's file to newName and rewrites the name inside it. The
// move is a single rename; an existing save is never overwritten.
func (m *Manager) Rename(ctx context.Context, st *GameState, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	old := st.Name()
	if old == newName {
		return nil
	}
	oldPath, newPath := m.PathFor(old), m.PathFor(newName)
	if _, err := os.Lstat(newPath); err == nil {
		return errors.Wrapf(ErrSaveExists, "%q", newName)
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "check rename target")
	}
	// the mirror row is keyed by this id, so it must not follow the name
	if err := stampSaveID(st); err != nil {
		return err
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return errors.Wrapf(err, "rename %q to %q", old, newName)
	}
	st.path = newPath
	if err := st.Set(KeyName, newName); err != nil {
		return err
	}
	if err := st.Save(newPath); err != nil {
		return errors.Wrapf(err, "rewrite renamed save %q", newName)
	}
	m.log.Info("renamed", zap.String("from", old), zap.String("to", newName))
	m.mirrorUpsert(ctx, st)
	return nil
}

// Delete removes st's file.
func (m *Manager) Delete(ctx context.Context, st *GameState) error {
	name := st.Name()
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(m.PathFor(name)); err != nil {
		return errors.Wrapf(err, "delete %q", name)
	}
	m.log.Info("deleted", zap.String("name", name))
	m.mirrorDelete(ctx, st)
	return nil
}

// stampSaveID records the id a state without one is mirrored under.
func stampSaveID(st *GameState) error {
	if _, ok := st.String(KeySaveID); ok {
		return nil
	}
	return st.Set(KeySaveID, SaveID(st).String())
}

func (m *Manager) mirrorUpsert(ctx context.Context, st *GameState) {
	if m.replica == nil {
		return
	}
	if err := m.replica.Upsert(ctx, st); err != nil {
		m.log.Warn("mirror upsert failed", zap.String("name", st.Name()), zap.Error(err))
	}
}

func (m *Manager) mirrorDelete(ctx context.Context, st *GameState) {
	if m.replica == nil {
		return
	}
	if err := m.replica.Delete(ctx, st); err != nil {
		m.log.Warn("mirror delete failed", zap.String("name", st.Name()), zap.Error(err))
	}
}

// Issue kinds reported by Duplicates.
const (
	IssueDuplicateName = "duplicate-name"
	IssueStemMismatch  = "stem-mismatch"
)

// Issue is an inconsistency between save files and the names inside them.
type Issue struct {
	Kind  string
	Name  string
	Paths []string
}

// Duplicates reports logical names stored in more than one file and files
// whose stem differs from the name they contain. Nothing is repaired.
func (m *Manager) Duplicates() ([]Issue, error) {
	saves, err := m.Saves()
	if err != nil {
		return nil, err
	}
	byName := map[string][]string{}
	var issues []Issue
	for _, st := range saves {
		name := st.Name()
		byName[name] = append(byName[name], st.Path())
		stem := strings.TrimSuffix(filepath.Base(st.Path()), SaveExt)
		if stem != name {
			issues = append(issues, Issue{Kind: IssueStemMismatch, Name: name, Paths: []string{st.Path()}})
		}
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if paths := byName[n]; len(paths) > 1 {
			sort.Strings(paths)
			issues = append(issues, Issue{Kind: IssueDuplicateName, Name: n, Paths: paths})
		}
	}
	for _, is := range issues {
		m.log.Warn("save inconsistency", zap.String("kind", is.Kind), zap.String("name", is.Name), zap.Strings("paths", is.Paths))
	}
	return issues, nil
}
