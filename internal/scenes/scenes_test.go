package scenes

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
)

func newApp(t *testing.T, keys ...console.Key) (*engine.App, *console.Buffer) {
	t.Helper()
	buf := console.NewBuffer(100, 30, keys...)
	saves, err := store.NewManager(t.TempDir(), nil)
	require.NoError(t, err)
	return &engine.App{
		Console: buf,
		Saves:   saves,
		Assets:  assets.FS,
		Speed:   1,
		Sleep:   func(time.Duration) {},
	}, buf
}

// typed turns s into key presses followed by Enter.
func typed(s string) []console.Key {
	keys := make([]console.Key, 0, len(s)+1)
	for _, r := range s {
		keys = append(keys, console.Key(string(r)))
	}
	return append(keys, console.KeyEnter)
}

func keys(groups ...[]console.Key) []console.Key {
	var out []console.Key
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func press(k ...console.Key) []console.Key { return k }

func addSave(t *testing.T, app *engine.App, name string, extra map[string]any) *store.GameState {
	t.Helper()
	st := store.NewGameState()
	require.NoError(t, st.Set(store.KeyName, name))
	require.NoError(t, st.Set(store.KeyUsername, name))
	require.NoError(t, st.Set(store.KeyPassword, name))
	for k, v := range extra {
		require.NoError(t, st.Set(k, v))
	}
	require.NoError(t, app.Saves.SaveState(context.Background(), st))
	return st
}

func load(t *testing.T, app *engine.App, name string) *store.GameState {
	t.Helper()
	st := store.NewGameState()
	require.NoError(t, st.Load(app.Saves.PathFor(name)))
	return st
}

func TestStartupWithoutSavesCreatesOne(t *testing.T) {
	app, buf := newApp(t, "x")
	next, err := NewStartup(app).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &NewSave{}, next)
	assert.Zero(t, buf.Pending())
}

func TestStartupShowsLicense(t *testing.T) {
	app, _ := newApp(t)
	// tall enough for the rendered licence to fit on one page
	buf := console.NewBuffer(100, 80, "l", "x")
	app.Console = buf
	addSave(t, app, "alice", nil)
	next, err := NewStartup(app).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &SelectSave{}, next)
	assert.Contains(t, buf.String(), "You may redistribute copies.")
}

func TestStartupPrompt(t *testing.T) {
	app, buf := newApp(t)
	_, err := NewStartup(app).Start(context.Background())
	assert.ErrorIs(t, err, console.ErrClosed)
	screen := buf.String()
	assert.Contains(t, screen, "Press any key to start")
	assert.Contains(t, screen, "a terminal story")
}

func TestSelectSaveQuitAndProperties(t *testing.T) {
	app, buf := newApp(t, "q")
	addSave(t, app, "alice", map[string]any{
		store.KeyNote:          "hello",
		store.KeyComputerBrand: assets.EtherIndustries,
	})
	addSave(t, app, "Bob", nil)

	next, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)

	screen := buf.String()
	assert.Contains(t, screen, "Note: hello")
	assert.Contains(t, screen, "Username: 'alice'")
	assert.NotContains(t, screen, "Debug:")
	assert.Contains(t, screen, "INDUSTRIES")
	assert.Contains(t, buf.Line(29), "ENTER: Load save 'alice'")
	assert.Contains(t, buf.Line(3), " alice ")
	assert.Contains(t, buf.Line(4), " Bob ")
	// " Save files " centred between the border and the first separator
	assert.Equal(t, console.Style{Bold: true, Invert: true}, buf.Cell(10, 1).Style)
	assert.Equal(t, '│', buf.Cell(31, 5).Rune)
	assert.Equal(t, '│', buf.Cell(62, 5).Rune)
}

func TestSelectSaveMissingBrand(t *testing.T) {
	app, buf := newApp(t, "q")
	addSave(t, app, "alice", nil)
	_, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.Line(28), assets.MissingAsset)
}

func TestSelectSaveEmpty(t *testing.T) {
	app, buf := newApp(t, console.KeyEnter, "q")
	next, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Contains(t, buf.Line(29), "No save to load")

	app, _ = newApp(t, console.KeyDown, console.KeyDown, console.KeyDown, console.KeyEnter)
	next, err = NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &NewSave{}, next)
}

func TestSelectSaveLoad(t *testing.T) {
	app, _ := newApp(t, console.KeyDown, console.KeyEnter)
	addSave(t, app, "alice", nil)
	addSave(t, app, "bob", nil)
	next, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	sc, ok := next.(*StartComputer)
	require.True(t, ok)
	assert.Equal(t, "bob", sc.State.Name())
}

func TestSelectSaveRename(t *testing.T) {
	app, buf := newApp(t, keys(
		press(console.KeyRight, console.KeyDown, console.KeyEnter),
		typed("zed"),
		press("q"),
	)...)
	addSave(t, app, "alice", nil)
	_, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, app.Saves.PathFor("alice"))
	assert.Equal(t, "zed", load(t, app, "zed").Name())
	assert.Contains(t, buf.Line(3), " zed ")
}

func TestSelectSaveRenameTrimsName(t *testing.T) {
	app, _ := newApp(t, keys(
		press(console.KeyRight, console.KeyDown, console.KeyEnter),
		typed("  zed "),
		press(console.KeyEnter),
		typed("   "),
		press("q"),
	)...)
	addSave(t, app, "alice", nil)
	_, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, app.Saves.PathFor("zed"))
	assert.NoFileExists(t, app.Saves.PathFor("  zed "))
	assert.Equal(t, "zed", load(t, app, "zed").Name())

	entries, err := os.ReadDir(app.Saves.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "a blank name cancels the rename")
}

func TestSelectSaveRenameRefusesExisting(t *testing.T) {
	app, buf := newApp(t, keys(
		press(console.KeyRight, console.KeyDown, console.KeyEnter),
		typed("bob"),
		press("q"),
	)...)
	addSave(t, app, "alice", nil)
	addSave(t, app, "bob", nil)
	_, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, app.Saves.PathFor("alice"))
	assert.Contains(t, buf.Line(29), "already exists")
}

func TestSelectSaveDelete(t *testing.T) {
	app, buf := newApp(t,
		console.KeyRight, console.KeyDown, console.KeyDown, console.KeyEnter,
		"?", "n",
		console.KeyEnter, "y",
		"q",
	)
	addSave(t, app, "alice", nil)
	_, err := NewSelectSave(app).Start(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, app.Saves.PathFor("alice"))
	assert.Contains(t, buf.Line(29), "No save to delete")
}

func TestNewSaveCreatesSuperuser(t *testing.T) {
	app, buf := newApp(t, keys(
		press(console.KeyEnter),
		typed("alice"),
		typed("neo"),
		typed(""),
		typed("pw"),
	)...)
	addSave(t, app, "alice", nil)

	next, err := NewNewSave(app).Start(context.Background())
	require.NoError(t, err)
	sc, ok := next.(*StartComputer)
	require.True(t, ok)
	assert.Equal(t, "neo", sc.State.Name())

	st := load(t, app, "neo")
	pw, _ := st.String(store.KeyPassword)
	assert.Equal(t, "pw", pw)
	brand, _ := st.String(store.KeyComputerBrand)
	assert.Equal(t, assets.EtherIndustries, brand)
	assert.Contains(t, buf.String(), "User database file corrupted")
	assert.Contains(t, buf.String(), "Superuser 'neo' created.")
}

func TestStartComputerBootsToLogin(t *testing.T) {
	app, buf := newApp(t, "x")
	st := addSave(t, app, "alice", nil)
	next, err := NewStartComputer(app, st).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &EtherLogin{}, next)
	screen := buf.String()
	assert.Contains(t, screen, "Starting text interface")
	assert.Contains(t, screen, "[ PASSED ]")
}

func TestEtherLoginSuccess(t *testing.T) {
	app, _ := newApp(t, keys(typed("alice"), typed("alice"))...)
	st := addSave(t, app, "alice", nil)
	next, err := NewEtherLogin(app, st).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &FirstTurnOn{}, next)
	assert.True(t, load(t, app, "alice").Get(store.KeyFirstLogin).Bool())
}

func TestEtherLoginLocksOut(t *testing.T) {
	app, buf := newApp(t, keys(
		typed("root"), typed("x"),
		typed("Alice"), typed("alice"),
		typed("alicf"), typed("alice"),
	)...)
	st := addSave(t, app, "alice", map[string]any{store.KeyPassword: "secret"})
	next, err := NewEtherLogin(app, st).Start(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &SelectSave{}, next)
	screen := buf.String()
	assert.Contains(t, screen, "Did you mean 'alice'?")
	assert.Contains(t, screen, "Too many failed attempts.")
	assert.False(t, load(t, app, "alice").Get(store.KeyFirstLogin).Bool())
}

func TestLoginHint(t *testing.T) {
	assert.Empty(t, loginHint("", "alice"))
	assert.Empty(t, loginHint("alice", "alice"))
	assert.Empty(t, loginHint("root", "alice"))
	assert.Equal(t, "Hint: logins are case sensitive.", loginHint("ALICE", "alice"))
	assert.Equal(t, "Did you mean 'alice'?", loginHint("alcie", "alice"))
}

func TestFirstTurnOnFillsScreen(t *testing.T) {
	app, buf := newApp(t, "x")
	st := addSave(t, app, "alice", nil)
	next, err := NewFirstTurnOn(app, st).Start(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.True(t, load(t, app, "alice").Get(store.KeyFasmAwake).Bool())
	for _, y := range []int{1, 14, 28} {
		assert.Equal(t, 14, strings.Count(buf.Line(y), "FASM-4"), "row %d", y)
	}
}

func TestFullRun(t *testing.T) {
	app, buf := newApp(t, keys(
		press("x"),                    // title
		typed("neo"), typed("matrix"), // new superuser
		press("x"),                    // logo
		typed("neo"), typed("matrix"), // login
		press("x"),                    // end of story
	)...)
	require.NoError(t, engine.Run(context.Background(), app, NewStartup(app)))
	assert.Zero(t, buf.Pending())

	st := load(t, app, "neo")
	assert.True(t, st.Get(store.KeyFirstLogin).Bool())
	assert.True(t, st.Get(store.KeyFasmAwake).Bool())

	entries, err := os.ReadDir(app.Saves.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
