// Package anim plays boot-style animations: lines of styled text that appear
// one after another, optionally with an in-progress marker that is replaced
// by a finished marker once the line's delay has passed.
package anim

import (
	"strings"
	"time"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/text"
)

// DefaultStatusX is the column progress and finished markers are drawn at.
const DefaultStatusX = 45

// textX is the column stage and step text starts at, just inside the border.
const textX = 1

// Waiter blocks for d. It returns false when the wait was cut short.
type Waiter interface {
	Wait(d time.Duration) bool
}

// WaitFunc adapts a function to Waiter.
type WaitFunc func(time.Duration) bool

func (f WaitFunc) Wait(d time.Duration) bool { return f(d) }

// Display is where an animation draws and how it waits.
type Display struct {
	Surface console.Surface
	Waiter  Waiter
	// Speed divides every delay. Zero means real time.
	Speed float64
}

func (d *Display) wait(dur time.Duration) {
	if dur <= 0 || d.Waiter == nil {
		return
	}
	if d.Speed > 0 && d.Speed != 1 {
		dur = time.Duration(float64(dur) / d.Speed)
	}
	d.Waiter.Wait(dur)
}

// Player is anything an Animation can play. Play draws starting at line y and
// returns the last line it drew on.
type Player interface {
	Play(d *Display, y int) int
}

// marker draws the optional progress and finished markers shared by steps
// and stage headings.
type marker struct {
	Progress *text.Text
	Finished *text.Text
	StatusX  int
}

func (m marker) statusX() int {
	if m.StatusX == 0 {
		return DefaultStatusX
	}
	return m.StatusX
}

func (m marker) start(d *Display, y int) {
	if m.Progress != nil {
		m.Progress.Render(d.Surface, m.statusX(), y)
	}
}

func (m marker) stop(d *Display, y int) {
	if m.Progress != nil {
		d.Surface.WriteText(m.statusX(), y, strings.Repeat(" ", m.Progress.Len()), console.Normal)
	}
	if m.Finished != nil {
		m.Finished.Render(d.Surface, m.statusX(), y)
		return
	}
	d.Surface.Refresh()
}

// Step is one line: text, an optional progress marker shown for Delay, then
// an optional finished marker.
type Step struct {
	Text     text.Text
	Progress *text.Text
	Finished *text.Text
	Delay    time.Duration
	StatusX  int
}

func (s *Step) marker() marker {
	return marker{Progress: s.Progress, Finished: s.Finished, StatusX: s.StatusX}
}

func (s *Step) show(d *Display, x, y int) {
	s.Text.Render(d.Surface, x, y)
	s.marker().start(d, y)
	d.wait(s.Delay)
	s.marker().stop(d, y)
}

// Stage is a heading line followed by its steps. The heading's finished
// marker appears once every step is done.
type Stage struct {
	Text     text.Text
	Progress *text.Text
	Finished *text.Text
	Steps    []*Step
	Delay    time.Duration
	StatusX  int
}

func (s *Stage) marker() marker {
	return marker{Progress: s.Progress, Finished: s.Finished, StatusX: s.StatusX}
}

func (s *Stage) start(d *Display, y int) {
	s.Text.Render(d.Surface, textX, y)
	s.marker().start(d, y)
}

func (s *Stage) stop(d *Display, y int) { s.marker().stop(d, y) }

// Play draws the heading at y and the steps on the following lines.
func (s *Stage) Play(d *Display, y int) int {
	start := y
	s.start(d, y)
	d.wait(s.Delay)
	for _, st := range s.Steps {
		y++
		st.show(d, textX, y)
	}
	s.stop(d, start)
	return y
}

// InfoStage shows a few lines without a heading.
type InfoStage struct {
	Steps []*Step
	Delay time.Duration
}

// Play draws the steps from y down. With no steps it consumes one line.
func (s *InfoStage) Play(d *Display, y int) int {
	if len(s.Steps) == 0 {
		y++
	}
	for _, st := range s.Steps {
		st.show(d, textX, y)
		y++
	}
	d.wait(s.Delay)
	return y - 1
}

// SimultaneousStage starts every heading, waits once, then finishes them all
// in the same order.
type SimultaneousStage struct {
	Stages       []*Stage
	Delay        time.Duration
	DelayBetween time.Duration
}

// Play draws headings from y+1 down and returns the last line used.
func (s *SimultaneousStage) Play(d *Display, y int) int {
	start := y
	if len(s.Stages) == 0 {
		return y + 1
	}
	for _, st := range s.Stages {
		y++
		st.start(d, y)
		d.wait(s.DelayBetween)
	}
	d.wait(s.Delay)
	y = start
	for _, st := range s.Stages {
		y++
		st.stop(d, y)
		d.wait(s.DelayBetween)
	}
	return y
}

// Animation plays its stages one below the other, then waits Delay.
type Animation struct {
	Name   string
	Stages []Player
	Delay  time.Duration
}

// Play returns the first free line below the animation.
func (a *Animation) Play(d *Display, y int) int {
	for _, st := range a.Stages {
		y = st.Play(d, y) + 1
	}
	d.wait(a.Delay)
	return y
}
