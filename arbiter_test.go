package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestBackgroundClickCommits(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evCanvasPress, Point{X: 100, Y: 100})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 101, Y: 101})

	require.True(t, a.ShouldCommitOnBackgroundClick())
}

func TestSlowPressIsNotAClick(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evCanvasPress, Point{X: 100, Y: 100})
	clock.advance(clickMaxDuration)
	a.Observe(evCanvasRelease, Point{X: 100, Y: 100})

	require.False(t, a.ShouldCommitOnBackgroundClick())
}

func TestDragIsNotAClick(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evCanvasPress, Point{X: 100, Y: 100})
	clock.advance(50 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 110, Y: 100})

	require.False(t, a.ShouldCommitOnBackgroundClick())
}

func TestRecentCardInteractionSuppressesCommit(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evCardInteraction, Point{})
	clock.advance(500 * time.Millisecond)

	a.Observe(evCanvasPress, Point{X: 100, Y: 100})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 100, Y: 100})
	require.False(t, a.ShouldCommitOnBackgroundClick())

	// The guard expires one second after the card interaction.
	clock.advance(500 * time.Millisecond)
	a.Observe(evCanvasPress, Point{X: 100, Y: 100})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 100, Y: 100})
	require.True(t, a.ShouldCommitOnBackgroundClick())
}

func TestSelectionGuardSuppressesCommit(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evSelectionStart, Point{})
	clock.advance(300 * time.Millisecond)
	a.Observe(evSelectionEnd, Point{})

	a.Observe(evCanvasPress, Point{X: 50, Y: 50})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 50, Y: 50})
	require.False(t, a.ShouldCommitOnBackgroundClick())

	// Two seconds after selection activity the click counts again.
	clock.advance(selectionGuard)
	a.Observe(evCanvasPress, Point{X: 50, Y: 50})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 50, Y: 50})
	require.True(t, a.ShouldCommitOnBackgroundClick())
}

func TestLiveSelectionAlwaysSuppresses(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	a.Observe(evSelectionStart, Point{})
	clock.advance(10 * time.Second)

	a.Observe(evCanvasPress, Point{X: 50, Y: 50})
	clock.advance(100 * time.Millisecond)
	a.Observe(evCanvasRelease, Point{X: 50, Y: 50})
	require.False(t, a.ShouldCommitOnBackgroundClick())
}

func TestNoPressNoCommit(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)
	require.False(t, a.ShouldCommitOnBackgroundClick())

	a.Observe(evCanvasPress, Point{X: 1, Y: 1})
	require.False(t, a.ShouldCommitOnBackgroundClick())
}

func TestIsDoubleClick(t *testing.T) {
	clock := newFakeClock()
	a := newInteractionArbiter(clock.now)

	first := clock.now()
	pos := Point{X: 200, Y: 200}

	clock.advance(100 * time.Millisecond)
	require.True(t, a.IsDoubleClick(first, pos, Point{X: 202, Y: 201}))

	// Too slow, too far, or no prior click.
	clock.advance(clickMaxDuration)
	require.False(t, a.IsDoubleClick(first, pos, pos))
	require.False(t, a.IsDoubleClick(clock.now(), pos, Point{X: 300, Y: 200}))
	require.False(t, a.IsDoubleClick(time.Time{}, pos, pos))
}
