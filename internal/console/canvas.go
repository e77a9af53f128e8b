package console

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// Cell is one character position. A wide rune occupies its cell and marks
// the following cell as a continuation (Rune == 0).
type Cell struct {
	Rune  rune
	Style Style
}

// Run is a horizontal span of cells sharing one style.
type Run struct {
	Text  string
	Style Style
}

// Canvas is a mutex-guarded grid of cells. Writes outside the grid are
// clipped.
type Canvas struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []Cell
}

// NewCanvas allocates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the grid, keeping whatever still fits.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Rune: ' '}
	}
	for y := 0; y < min(height, c.height); y++ {
		for x := 0; x < min(width, c.width); x++ {
			cells[y*width+x] = c.cells[y*c.width+x]
		}
	}
	c.width, c.height, c.cells = width, height, cells
}

// Size returns the grid dimensions.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Put writes text at (x, y) with style, advancing by display width.
func (c *Canvas) Put(x, y int, text string, style Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if y < 0 || y >= c.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= c.width {
			c.cells[y*c.width+x] = Cell{Rune: r, Style: style}
			if w == 2 {
				c.cells[y*c.width+x+1] = Cell{Rune: 0, Style: style}
			}
		}
		x += w
		if x >= c.width {
			return
		}
	}
}

// Clear blanks the canvas and draws the single-line border box.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
	if c.width < 2 || c.height < 2 {
		return
	}
	last := c.width - 1
	bottom := (c.height - 1) * c.width
	for x := 1; x < last; x++ {
		c.cells[x].Rune = '─'
		c.cells[bottom+x].Rune = '─'
	}
	for y := 1; y < c.height-1; y++ {
		c.cells[y*c.width].Rune = '│'
		c.cells[y*c.width+last].Rune = '│'
	}
	c.cells[0].Rune = '┌'
	c.cells[last].Rune = '┐'
	c.cells[bottom].Rune = '└'
	c.cells[bottom+last].Rune = '┘'
}

// Cell returns the cell at (x, y), or a blank cell when out of range.
func (c *Canvas) Cell(x, y int) Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.width+x]
}

// Line returns row y as plain text.
func (c *Canvas) Line(y int) string {
	var b strings.Builder
	for _, r := range c.Runs(y) {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Runs splits row y into same-style spans.
func (c *Canvas) Runs(y int) []Run {
	w, _ := c.Size()
	return c.RunsBetween(y, 0, w)
}

// RunsBetween splits columns [from, to) of row y into same-style spans.
func (c *Canvas) RunsBetween(y, from, to int) []Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	if y < 0 || y >= c.height {
		return nil
	}
	from = max(from, 0)
	to = min(to, c.width)
	if from >= to {
		return nil
	}
	var (
		runs []Run
		b    strings.Builder
		cur  Style
	)
	row := c.cells[y*c.width+from : y*c.width+to]
	for _, cell := range row {
		if cell.Rune == 0 {
			continue
		}
		if cell.Style != cur && b.Len() > 0 {
			runs = append(runs, Run{Text: b.String(), Style: cur})
			b.Reset()
		}
		cur = cell.Style
		b.WriteRune(cell.Rune)
	}
	if b.Len() > 0 {
		runs = append(runs, Run{Text: b.String(), Style: cur})
	}
	return runs
}

// String dumps the whole canvas, one line per row.
func (c *Canvas) String() string {
	_, h := c.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = c.Line(y)
	}
	return strings.Join(lines, "\n")
}
