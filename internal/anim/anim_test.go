package anim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/text"
)

type recorder struct{ waits []time.Duration }

func (r *recorder) Wait(d time.Duration) bool {
	r.waits = append(r.waits, d)
	return true
}

func (r *recorder) total() time.Duration {
	var t time.Duration
	for _, w := range r.waits {
		t += w
	}
	return t
}

func display(w, h int) (*Display, *console.Buffer, *recorder) {
	b := console.NewBuffer(w, h)
	r := &recorder{}
	return &Display{Surface: b, Waiter: r}, b, r
}

func ptr(t text.Text) *text.Text { return &t }

var (
	working = ptr(text.Plain("WORKING", console.Style{Fg: console.ColorYellow, Blink: true, Invert: true}))
	done    = ptr(text.Plain("DONE", console.Style{Fg: console.ColorGreen, Bold: true}))
)

func TestStepReplacesProgressWithFinished(t *testing.T) {
	d, b, r := display(60, 4)
	s := &Step{Text: text.Plain("GPU 0", console.Normal), Progress: working, Finished: done, Delay: 300 * time.Millisecond}
	s.show(d, 1, 1)

	assert.Equal(t, []time.Duration{300 * time.Millisecond}, r.waits)
	line := b.Line(1)
	assert.Equal(t, "│GPU 0", line[:len("│GPU 0")])
	assert.Equal(t, "DONE   ", string([]rune(line)[DefaultStatusX:DefaultStatusX+7]))
}

func TestStageReturnsLastLine(t *testing.T) {
	d, b, r := display(60, 10)
	st := &Stage{
		Text:     text.Plain("EtherBIOS v2.3.1 initialising...", console.Normal),
		Progress: working,
		Finished: done,
		Delay:    1500 * time.Millisecond,
		Steps: []*Step{
			{Text: text.Plain("CPU 0", console.Normal), Delay: 300 * time.Millisecond},
			{Text: text.Plain("CPU 1", console.Normal), Delay: 300 * time.Millisecond},
		},
	}
	assert.Equal(t, 4, st.Play(d, 2))
	assert.Equal(t, 2100*time.Millisecond, r.total())
	assert.Contains(t, b.Line(3), "CPU 0")
	assert.Contains(t, b.Line(4), "CPU 1")
	assert.Contains(t, b.Line(2), "DONE")
	assert.NotContains(t, b.Line(2), "WORKING")
}

func TestInfoStage(t *testing.T) {
	d, _, r := display(40, 10)
	empty := &InfoStage{Delay: time.Second}
	assert.Equal(t, 3, empty.Play(d, 3))
	assert.Equal(t, []time.Duration{time.Second}, r.waits)

	info := &InfoStage{Steps: []*Step{{Text: text.Plain("a", console.Normal)}, {Text: text.Plain("b", console.Normal)}}}
	assert.Equal(t, 4, info.Play(d, 3))
}

func TestSimultaneousStageTiming(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		d, b, r := display(60, 12)
		sim := &SimultaneousStage{Delay: 1500 * time.Millisecond, DelayBetween: 700 * time.Millisecond}
		for i := 0; i < n; i++ {
			sim.Stages = append(sim.Stages, &Stage{Text: text.Plain("Testing cpu", console.Normal), Progress: working, Finished: done, StatusX: 40})
		}
		last := sim.Play(d, 1)
		assert.Equal(t, 1+n, last)
		want := time.Duration(2*n)*700*time.Millisecond + 1500*time.Millisecond
		assert.Equal(t, want, r.total(), "n=%d", n)
		for y := 2; y <= 1+n; y++ {
			assert.Contains(t, b.Line(y), "DONE")
		}
	}
}

func TestSimultaneousStageEmpty(t *testing.T) {
	d, _, r := display(20, 5)
	assert.Equal(t, 2, (&SimultaneousStage{Delay: time.Second}).Play(d, 1))
	assert.Empty(t, r.waits)
}

func TestAnimationYNeverDecreases(t *testing.T) {
	d, _, r := display(60, 20)
	a := &Animation{
		Delay: 1500 * time.Millisecond,
		Stages: []Player{
			&InfoStage{Steps: []*Step{{Text: text.Plain("greet", console.Normal)}}},
			&Stage{Text: text.Plain("boot", console.Normal)},
			&InfoStage{},
		},
	}
	assert.Equal(t, 4, a.Play(d, 1))
	assert.Equal(t, 1500*time.Millisecond, r.waits[len(r.waits)-1])
}

func TestSpeedScalesDelays(t *testing.T) {
	d, _, r := display(20, 5)
	d.Speed = 2
	(&InfoStage{Delay: time.Second}).Play(d, 1)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, r.waits)
}

func TestKeyWaiterFastForwards(t *testing.T) {
	b := console.NewBuffer(60, 10, "x")
	b.Interruptible = true
	w := NewKeyWaiter(context.Background(), b)
	d := &Display{Surface: b, Waiter: w}
	st := &Stage{
		Text:  text.Plain("boot", console.Normal),
		Delay: time.Second,
		Steps: []*Step{{Text: text.Plain("a", console.Normal), Delay: time.Second}},
	}
	assert.Equal(t, 2, st.Play(d, 1))
	assert.True(t, w.Skipped())
	assert.NoError(t, w.Err())
	assert.Zero(t, b.Elapsed())
	assert.Contains(t, b.Line(2), "a")
}

func TestKeyWaiterRecordsError(t *testing.T) {
	b := console.NewBuffer(20, 5)
	require.NoError(t, b.Close())
	w := NewKeyWaiter(context.Background(), b)
	assert.False(t, w.Wait(time.Second))
	assert.ErrorIs(t, w.Err(), console.ErrClosed)
	assert.False(t, w.Wait(time.Second))
}
