package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/ether-tui/internal/console"
)

// Palette resolves console colours to terminal colours. Entries are either
// hex strings or ANSI indices.
type Palette struct {
	Name   string
	Colors map[console.Color]lipgloss.Color
}

var palettes = map[string]Palette{
	"classic": {
		Name: "classic",
		Colors: map[console.Color]lipgloss.Color{
			console.ColorBlack:   lipgloss.Color("0"),
			console.ColorRed:     lipgloss.Color("1"),
			console.ColorGreen:   lipgloss.Color("2"),
			console.ColorYellow:  lipgloss.Color("3"),
			console.ColorBlue:    lipgloss.Color("4"),
			console.ColorMagenta: lipgloss.Color("5"),
			console.ColorCyan:    lipgloss.Color("6"),
			console.ColorWhite:   lipgloss.Color("7"),
		},
	},
	"catppuccin": {
		Name: "catppuccin",
		Colors: map[console.Color]lipgloss.Color{
			console.ColorBlack:   lipgloss.Color("#1e1e2e"),
			console.ColorRed:     lipgloss.Color("#f38ba8"),
			console.ColorGreen:   lipgloss.Color("#a6e3a1"),
			console.ColorYellow:  lipgloss.Color("#f9e2af"),
			console.ColorBlue:    lipgloss.Color("#89b4fa"),
			console.ColorMagenta: lipgloss.Color("#cba6f7"),
			console.ColorCyan:    lipgloss.Color("#94e2d5"),
			console.ColorWhite:   lipgloss.Color("#cdd6f4"),
		},
	},
	"dracula": {
		Name: "dracula",
		Colors: map[console.Color]lipgloss.Color{
			console.ColorBlack:   lipgloss.Color("#282a36"),
			console.ColorRed:     lipgloss.Color("#ff5555"),
			console.ColorGreen:   lipgloss.Color("#50fa7b"),
			console.ColorYellow:  lipgloss.Color("#f1fa8c"),
			console.ColorBlue:    lipgloss.Color("#6272a4"),
			console.ColorMagenta: lipgloss.Color("#ff79c6"),
			console.ColorCyan:    lipgloss.Color("#8be9fd"),
			console.ColorWhite:   lipgloss.Color("#f8f8f2"),
		},
	},
	"gruvbox": {
		Name: "gruvbox",
		Colors: map[console.Color]lipgloss.Color{
			console.ColorBlack:   lipgloss.Color("#282828"),
			console.ColorRed:     lipgloss.Color("#fb4934"),
			console.ColorGreen:   lipgloss.Color("#b8bb26"),
			console.ColorYellow:  lipgloss.Color("#fabd2f"),
			console.ColorBlue:    lipgloss.Color("#83a598"),
			console.ColorMagenta: lipgloss.Color("#d3869b"),
			console.ColorCyan:    lipgloss.Color("#8ec07c"),
			console.ColorWhite:   lipgloss.Color("#ebdbb2"),
		},
	},
	"solarized_dark": {
		Name: "solarized_dark",
		Colors: map[console.Color]lipgloss.Color{
			console.ColorBlack:   lipgloss.Color("#073642"),
			console.ColorRed:     lipgloss.Color("#dc322f"),
			console.ColorGreen:   lipgloss.Color("#859900"),
			console.ColorYellow:  lipgloss.Color("#b58900"),
			console.ColorBlue:    lipgloss.Color("#268bd2"),
			console.ColorMagenta: lipgloss.Color("#d33682"),
			console.ColorCyan:    lipgloss.Color("#2aa198"),
			console.ColorWhite:   lipgloss.Color("#fdf6e3"),
		},
	},
}

// PaletteFor returns the named palette, falling back to classic.
func PaletteFor(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["classic"]
}

// ThemeNames lists the palette names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Color returns the terminal colour for c. ok is false for the default
// colour, which leaves the terminal's own colour in place.
func (p Palette) Color(c console.Color) (lipgloss.Color, bool) {
	col, ok := p.Colors[c]
	return col, ok
}

// Lipgloss converts a console style into a lipgloss style.
func (p Palette) Lipgloss(s console.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := p.Color(s.Fg); ok {
		st = st.Foreground(c)
	}
	if c, ok := p.Color(s.Bg); ok {
		st = st.Background(c)
	}
	return st.
		Bold(s.Bold).
		Faint(s.Dim).
		Blink(s.Blink).
		Reverse(s.Invert).
		Italic(s.Italic).
		Underline(s.Underline)
}
