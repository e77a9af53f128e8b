package engine

import (
	"context"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/DaanHessen/ether-tui/internal/console"
)

// pageOverlap is how many lines of the previous page are shown again at the
// top of the next one.
const pageOverlap = 5

type revealPhase int

const (
	revealing revealPhase = iota
	paused
	revealDone
)

type revealEvent int

const (
	elapsed revealEvent = iota
	keyPressed
)

type page struct{ start, end int }

// reveal draws lines one at a time with a delay after each non-empty line.
// Text taller than the screen is split into pages that overlap by
// pageOverlap lines; after each page it pauses, then clears for the next.
// A key during a line delay drops the delay for every remaining line.
type reveal struct {
	lines      []string
	pages      []page
	y          int
	delay      time.Duration
	pagerDelay time.Duration

	phase   revealPhase
	page    int
	line    int
	skipped bool
}

func newReveal(lines []string, pageLen, y int, delay, pagerDelay time.Duration) *reveal {
	if y < 1 {
		y = 1
	}
	r := &reveal{lines: lines, pages: paginate(len(lines), pageLen), y: y, delay: delay, pagerDelay: pagerDelay}
	if len(lines) == 0 {
		r.phase = revealDone
	}
	return r
}

func paginate(n, pageLen int) []page {
	if pageLen < 1 {
		pageLen = 1
	}
	if n <= pageLen {
		return []page{{0, n}}
	}
	stride := pageLen - pageOverlap
	if stride < 1 {
		stride = 1
	}
	var pages []page
	for start := 0; ; start += stride {
		end := start + pageLen
		if end >= n {
			return append(pages, page{start, n})
		}
		pages = append(pages, page{start, end})
	}
}

func (r *reveal) paged() bool { return len(r.pages) > 1 }

// lineDelay is the wait after the current line.
func (r *reveal) lineDelay() time.Duration {
	if r.skipped || r.lines[r.line] == "" {
		return 0
	}
	return r.delay
}

// step advances the state once the current line's delay or the page pause
// has ended, by time or by a key.
func (r *reveal) step(ev revealEvent) {
	switch r.phase {
	case revealing:
		if ev == keyPressed {
			r.skipped = true
		}
		r.line++
		if r.line < r.pages[r.page].end {
			return
		}
		if r.paged() {
			r.phase = paused
			return
		}
		r.phase = revealDone
	case paused:
		r.page++
		if r.page == len(r.pages) {
			r.phase = revealDone
			return
		}
		r.line = r.pages[r.page].start
		r.phase = revealing
	}
}

func (r *reveal) run(ctx context.Context, b *Base, style console.Style) error {
	s := b.surface()
	for r.phase != revealDone {
		var wait time.Duration
		switch r.phase {
		case revealing:
			line := r.lines[r.line]
			y := r.y + r.line - r.pages[r.page].start
			s.WriteText(b.CentredX(runewidth.StringWidth(line)), y, line, style)
			s.Refresh()
			wait = r.lineDelay()
		case paused:
			wait = r.pagerDelay
		}
		full, err := b.SleepKey(ctx, wait)
		if err != nil {
			return err
		}
		ev := elapsed
		if !full {
			ev = keyPressed
		}
		before := r.phase
		r.step(ev)
		if before == paused && r.phase == revealing {
			s.Clear()
		}
	}
	return nil
}
