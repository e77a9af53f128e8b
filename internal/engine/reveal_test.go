package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/ether-tui/internal/console"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		n, pageLen int
		want       []page
	}{
		{3, 8, []page{{0, 3}}},
		{8, 8, []page{{0, 8}}},
		{12, 8, []page{{0, 8}, {3, 11}, {6, 12}}},
		{30, 20, []page{{0, 20}, {15, 30}}},
		{5, 3, []page{{0, 3}, {1, 4}, {2, 5}}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, paginate(c.n, c.pageLen), "n=%d pageLen=%d", c.n, c.pageLen)
	}
}

func TestRevealKeyDropsRemainingDelays(t *testing.T) {
	r := newReveal([]string{"a", "b", "c"}, 8, 2, time.Second, 0)
	assert.Equal(t, time.Second, r.lineDelay())
	r.step(keyPressed)
	assert.True(t, r.skipped)
	assert.Equal(t, revealing, r.phase)
	assert.Zero(t, r.lineDelay())
	r.step(elapsed)
	r.step(elapsed)
	assert.Equal(t, revealDone, r.phase)
}

func TestRevealPausesBetweenPages(t *testing.T) {
	lines := make([]string, 12)
	r := newReveal(lines, 8, 1, 0, time.Second)
	for i := 0; i < 8; i++ {
		r.step(elapsed)
	}
	assert.Equal(t, paused, r.phase)
	r.step(keyPressed)
	assert.Equal(t, revealing, r.phase)
	assert.Equal(t, 3, r.line)
	assert.False(t, r.skipped, "a key during a pause does not skip line delays")
}

func TestRevealEmptyLinesHaveNoDelay(t *testing.T) {
	r := newReveal([]string{"", "x"}, 8, 1, time.Second, 0)
	assert.Zero(t, r.lineDelay())
	assert.Equal(t, 1, newReveal(nil, 8, -4, 0, 0).y)
	assert.Equal(t, revealDone, newReveal(nil, 8, 1, 0, 0).phase)
}

func TestAddIntoCentred(t *testing.T) {
	b, buf := newBase(t, 20, 10)
	skipped, err := b.AddIntoCentred(context.Background(), 2, "ab\n\ncdef", 100*time.Millisecond, 0, console.Style{Bold: true})
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 9, col(buf, 2, "ab"))
	assert.Equal(t, 8, col(buf, 4, "cdef"))
	assert.True(t, buf.Cell(8, 4).Style.Bold)
	assert.Equal(t, 200*time.Millisecond, buf.Elapsed())
}

func TestAddIntoCentredSkip(t *testing.T) {
	b, buf := newBase(t, 20, 10, "x")
	buf.Interruptible = true
	skipped, err := b.AddIntoCentred(context.Background(), 1, "a\nb\nc", time.Second, 0, console.Normal)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Zero(t, buf.Elapsed())
	for y, s := range []string{"a", "b", "c"} {
		assert.NotEqual(t, -1, col(buf, y+1, s))
	}
}

func TestAddIntoCentredPages(t *testing.T) {
	b, buf := newBase(t, 20, 10)
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("l%02d", i))
	}
	_, err := b.AddIntoCentred(context.Background(), 1, strings.Join(lines, "\n"), 10*time.Millisecond, time.Second, console.Normal)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		assert.Contains(t, buf.Line(i+1), lines[6+i])
	}
	assert.Equal(t, "│                  │", buf.Line(7), "cleared before the last page")
	assert.Equal(t, 22*10*time.Millisecond+3*time.Second, buf.Elapsed())
}

func TestAddIntoAllCentred(t *testing.T) {
	b, buf := newBase(t, 20, 11)
	_, err := b.AddIntoAllCentred(context.Background(), "a\nb\nc", 0, 0, console.Normal)
	require.NoError(t, err)
	// round(5.5) - round(1.5) = 6 - 2
	assert.NotEqual(t, -1, col(buf, 4, "a"))
	assert.NotEqual(t, -1, col(buf, 6, "c"))
}
