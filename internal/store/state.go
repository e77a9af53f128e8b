package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNoAssociatedPath is returned by Save when neither an explicit path nor
// a previously loaded one is available.
var ErrNoAssociatedPath = errors.New("game state has no associated path")

// saveMode is the permission of newly written save files.
const saveMode os.FileMode = 0o644

// Reserved document keys.
const (
	KeyName          = "name"
	KeyUsername      = "user.username"
	KeyPassword      = "user.password"
	KeySaveCreation  = "metadata.save_creation"
	KeySaveDate      = "metadata.save_date"
	KeySaveID        = "metadata.save_id"
	KeyComputerBrand = "progress.computer-brand"
	KeyFirstLogin    = "progress.first-login"
	KeyFasmAwake     = "progress.fasm-awake"
	KeyNote          = "note"
	KeyDebug         = "debug"
)

// GameState is one saved game: a free-form JSON document plus the file it
// was loaded from.
type GameState struct {
	Data map[string]any
	path string
}

// NewGameState returns an empty state with no associated path.
func NewGameState() *GameState {
	return &GameState{Data: map[string]any{}}
}

// Path is the file the state was loaded from or last saved to.
func (g *GameState) Path() string { return g.path }

// Load replaces Data with the document at path. On failure Data is left as
// it was.
func (g *GameState) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read save")
	}
	data := map[string]any{}
	if err := json.Unmarshal(b, &data); err != nil {
		return errors.Wrapf(err, "parse save %s", path)
	}
	if data == nil {
		return errors.Errorf("parse save %s: not a JSON object", path)
	}
	g.Data = data
	g.path = path
	return nil
}

// Save writes the document as indented JSON with sorted keys. An empty path
// means the associated one. The file is replaced atomically.
func (g *GameState) Save(path string) error {
	if path == "" {
		path = g.path
	}
	if path == "" {
		return ErrNoAssociatedPath
	}
	b, err := g.encode()
	if err != nil {
		return err
	}
	if err := writeAtomic(path, b); err != nil {
		return err
	}
	if g.path == "" {
		g.path = path
	}
	return nil
}

func (g *GameState) encode() ([]byte, error) {
	data := g.Data
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode save")
	}
	return append(b, '\n'), nil
}

// writeAtomic replaces path with b, keeping the permissions of the file it
// replaces. New files get saveMode.
func writeAtomic(path string, b []byte) error {
	mode := saveMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp save")
	}
	tmp := f.Name()
	if err := f.Chmod(mode); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "chmod temp save")
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "write temp save")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "sync temp save")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close temp save")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "replace save")
	}
	return nil
}

// Get looks up a dotted path such as "user.username".
func (g *GameState) Get(path string) gjson.Result {
	b, err := json.Marshal(g.Data)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(b, path)
}

// String returns the value at path as text; ok is false when it is absent.
func (g *GameState) String(path string) (string, bool) {
	r := g.Get(path)
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

// Set stores value at a dotted path, creating intermediate objects.
func (g *GameState) Set(path string, value any) error {
	if g.Data == nil {
		g.Data = map[string]any{}
	}
	b, err := json.Marshal(g.Data)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	b, err = sjson.SetBytes(b, path, value)
	if err != nil {
		return errors.Wrapf(err, "set %s", path)
	}
	data := map[string]any{}
	if err := json.Unmarshal(b, &data); err != nil {
		return errors.Wrap(err, "decode state")
	}
	g.Data = data
	return nil
}

// Name is the save's logical name, also its file stem.
func (g *GameState) Name() string {
	s, _ := g.String(KeyName)
	return s
}

// LastSave describes when the state was last written, or "Never".
func (g *GameState) LastSave() string {
	if s, ok := g.String(KeySaveDate); ok {
		return s
	}
	return "Never"
}
