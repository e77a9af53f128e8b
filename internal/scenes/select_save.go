package scenes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/DaanHessen/ether-tui/assets"
	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/engine"
	"github.com/DaanHessen/ether-tui/internal/store"
	"github.com/DaanHessen/ether-tui/internal/ui"
)

// Layout of the save selection screen.
const (
	listMargin    = 1
	listMaxLength = 30 - listMargin*2

	treeX  = 1
	treeY  = 3
	titleY = 1
	infoY  = 3

	propertiesDelay = 20 * time.Millisecond
)

const (
	saveListTitle   = " Save files "
	actionListTitle = " Actions "
	propertiesTitle = " Properties "
)

const (
	actionLoad = iota
	actionRename
	actionDelete
	actionCreate
)

var actions = []string{"Load save", "Rename save", "Delete save", "Create new save"}

var (
	helpWithSave = []string{
		"ENTER: Load save '%s'",
		"ENTER: Rename save '%s'",
		"ENTER: Delete save '%s'",
		"ENTER: Create new save",
	}
	helpNoSave = []string{
		"No save to load",
		"No save to rename",
		"No save to delete",
		"ENTER: Create new save",
	}
)

var (
	titleFocused    = console.Style{Bold: true, Invert: true}
	propertiesStyle = console.Style{Dim: true, Invert: true}
	helpStyle       = console.Style{Invert: true}
	statusStyle     = console.Style{Fg: console.ColorRed, Invert: true}
)

// SelectSave lists the saves next to the actions that apply to them, with
// the selected save's properties and brand logo on the right. q quits.
type SelectSave struct {
	engine.Base

	saves      []*store.GameState
	saveList   *ui.List
	actionList *ui.List
	tree       *ui.TreeList

	lastSelected int
	status       string
}

func NewSelectSave(app *engine.App) *SelectSave {
	s := &SelectSave{Base: engine.NewBase(app, nil)}
	s.saveList = s.newList(nil)
	s.actionList = s.newList(actions)
	s.tree = ui.NewTreeList(treeX, treeY, s.saveList, s.actionList)
	return s
}

func (s *SelectSave) newList(items []string) *ui.List {
	l := ui.NewList(0, 0, items, s.Log())
	l.Margin = listMargin
	l.PadToMax = true
	l.SetMaxLength(listMaxLength)
	return l
}

func (s *SelectSave) Name() string { return "select-save" }

func (s *SelectSave) Start(ctx context.Context) (engine.Scene, error) {
	if err := s.reload(); err != nil {
		return nil, err
	}
	s.lastSelected = 0
	for {
		s.draw()
		key, err := s.GetKey(ctx)
		if err != nil {
			return nil, err
		}
		if key == "q" {
			return nil, nil
		}
		next, err := s.handleKey(ctx, key)
		if err != nil || next != nil {
			return next, err
		}
	}
}

func (s *SelectSave) reload() error {
	saves, err := s.Saves()
	if err != nil {
		return err
	}
	s.saves = saves
	names := make([]string, len(saves))
	for i, st := range saves {
		names[i] = st.Name()
	}
	s.saveList.SetItems(names)
	return nil
}

// selected returns the highlighted save, or nil when there is none.
func (s *SelectSave) selected() *store.GameState {
	i := s.saveList.SelectedIndex()
	if i < 0 || i >= len(s.saves) {
		return nil
	}
	return s.saves[i]
}

func (s *SelectSave) separators() (int, int) {
	sep1 := s.saveList.ActualWidth() + 1
	sep2 := s.actionList.ActualWidth() + s.saveList.ActualWidth() + 2
	return sep1, sep2
}

func (s *SelectSave) draw() {
	empty := len(s.saves) == 0
	if empty {
		s.tree.Focus(1)
	}
	s.saveList.HighlightSelected = !empty

	s.Clear()
	s.tree.Draw(s.App.Console)

	sep1, sep2 := s.separators()
	s.VLine(sep1)
	s.VLine(sep2)

	var saveTitle, actionTitle console.Style
	switch s.tree.Focused() {
	case 0:
		saveTitle = titleFocused
	case 1:
		actionTitle = titleFocused
	}
	s.DrawCentred(saveListTitle, treeX, sep1, titleY, saveTitle)
	s.DrawCentred(actionListTitle, sep1, sep2, titleY, actionTitle)
	propertiesX := sep2 + listMargin + 1
	s.AddInto(propertiesX, titleY, propertiesTitle, propertiesStyle)

	s.showHelp()
	if s.status != "" {
		s.DownBar(" "+s.status+" ", engine.SlotRight, statusStyle)
		s.status = ""
	}
	s.showProperties(propertiesX)
}

func (s *SelectSave) showHelp() {
	i := s.actionList.SelectedIndex()
	st := s.selected()
	if st == nil {
		s.DownBar(helpNoSave[i], engine.SlotLeft, helpStyle)
		return
	}
	text := helpWithSave[i]
	if strings.Contains(text, "%s") {
		text = fmt.Sprintf(text, st.Name())
	}
	s.DownBar(text, engine.SlotLeft, helpStyle)
}

// showProperties draws the selected save's details and brand logo. They
// are animated only when the selection changed since the last draw.
func (s *SelectSave) showProperties(x int) {
	st := s.selected()
	if st == nil {
		return
	}
	var delay time.Duration
	if i := s.saveList.SelectedIndex(); i != s.lastSelected {
		s.lastSelected = i
		delay = propertiesDelay
	}
	s.showInfos(x, infoY, delay, st)
	s.showBrand(delay, st)
}

func (s *SelectSave) showInfos(x, y int, delay time.Duration, st *store.GameState) {
	infos := []struct {
		key    string
		format string
	}{
		{store.KeyNote, "Note: %s"},
		{store.KeyDebug, "Debug: %s"},
		{store.KeyUsername, "Username: '%s'"},
		{store.KeyPassword, "Password: '%s'"},
	}
	for _, info := range infos {
		v, ok := st.String(info.key)
		if !ok {
			continue
		}
		s.AddInto(x, y, fmt.Sprintf(info.format, v), console.Normal)
		y++
		s.Pause(delay)
	}
}

func (s *SelectSave) showBrand(delay time.Duration, st *store.GameState) {
	brand, ok := st.String(store.KeyComputerBrand)
	if !ok {
		s.Log().Warn("save has no computer brand", zap.String("save", st.Name()))
	}
	logo := assets.BrandLogo(s.App.Assets, brand)
	lines := strings.Split(logo, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, runewidth.StringWidth(l))
	}
	if widest >= listMaxLength {
		s.Log().Warn("brand logo too wide", zap.String("brand", brand), zap.Int("width", widest))
		lines, widest = []string{assets.MissingAsset}, len(assets.MissingAsset)
	}
	logoX := treeX + listMargin*2 + listMaxLength
	x := logoX + engine.Round(float64(listMaxLength)/2) - engine.Round(float64(widest)/2)
	y := s.App.Console.Height() - len(lines) - 1
	for i, l := range lines {
		s.AddInto(x, y+i, l, console.Normal)
		s.Pause(delay)
	}
}

func (s *SelectSave) handleKey(ctx context.Context, key console.Key) (engine.Scene, error) {
	s.tree.HandleKey(key)
	if key != console.KeyEnter {
		return nil, nil
	}
	action := s.actionList.SelectedIndex()
	if action == actionCreate {
		return NewNewSave(s.App), nil
	}
	st := s.selected()
	if st == nil {
		return nil, nil
	}
	switch action {
	case actionLoad:
		s.Log().Info("loading save", zap.String("save", st.Name()))
		return NewStartComputer(s.App, st), nil
	case actionRename:
		return nil, s.rename(ctx, st)
	case actionDelete:
		return nil, s.delete(ctx, st)
	}
	return nil, nil
}

func (s *SelectSave) rename(ctx context.Context, st *store.GameState) error {
	prompt := fmt.Sprintf("New name for save '%s': ", st.Name())
	w, h := s.App.Console.Width(), s.App.Console.Height()
	x := engine.Round(float64(w)/2) - 15 - engine.Round(float64(runewidth.StringWidth(prompt))/2)
	name, err := s.Prompt(ctx, x, engine.Round(float64(h)/2), prompt, 0)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if err := s.App.Saves.Rename(ctx, st, name); err != nil {
		if errors.Is(err, store.ErrSaveExists) || errors.Is(err, store.ErrInvalidName) {
			s.status = err.Error()
			return nil
		}
		return err
	}
	if err := s.reload(); err != nil {
		return err
	}
	for i, other := range s.saves {
		if other.Name() == name {
			s.saveList.Select(i)
		}
	}
	return nil
}

func (s *SelectSave) delete(ctx context.Context, st *store.GameState) error {
	ok, err := s.Confirm(ctx, fmt.Sprintf(" Are you sure you want to delete the save '%s'? ", st.Name()))
	if err != nil || !ok {
		return err
	}
	if err := s.App.Saves.Delete(ctx, st); err != nil {
		return err
	}
	return s.reload()
}
