package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"korq/internal/store"
)

func visCard(id string, x, y float64) store.Card {
	return store.Card{ID: id, X: x, Y: y, Width: 300, Height: 200}
}

func TestOffscreenVisibility(t *testing.T) {
	// View covers world (0,0)-(1000,500) at zoom 1.
	cards := []store.Card{
		visCard("in", 100, 100),
		visCard("left", -400, 100),
		visCard("right", 1200, 100),
		visCard("up", 100, -300),
		visCard("down", 100, 600),
	}
	v := offscreenVisibility(cards, 0, 0, 1.0, 1000, 500)
	require.True(t, v.Left)
	require.True(t, v.Right)
	require.True(t, v.Up)
	require.True(t, v.Down)
	require.True(t, v.Any())
}

func TestOffscreenVisibilityPartialCardsCount(t *testing.T) {
	// A card straddling the edge is partially visible, not off-screen.
	cards := []store.Card{visCard("edge", -100, 100)}
	v := offscreenVisibility(cards, 0, 0, 1.0, 1000, 500)
	require.False(t, v.Any())

	// Zooming out brings it fully on screen; panning away pushes it
	// fully off.
	v = offscreenVisibility(cards, -600, 0, 1.0, 1000, 500)
	require.True(t, v.Left)
}

func TestOffscreenVisibilityRespectsZoom(t *testing.T) {
	// At zoom 2 the same viewport covers half the world span, so a card
	// at 600 falls off the right edge.
	cards := []store.Card{visCard("c", 600, 100)}
	require.False(t, offscreenVisibility(cards, 0, 0, 1.0, 1000, 500).Any())
	require.True(t, offscreenVisibility(cards, 0, 0, 2.0, 1000, 500).Right)
}

func TestNavigateTargetRight(t *testing.T) {
	cards := []store.Card{
		visCard("in", 100, 100),
		visCard("off", 2000, 300),
	}
	panX, panY, reset, ok := navigateTarget(cards, 0, 0, 1.0, 1000, 500, DirRight)
	require.True(t, ok)
	require.False(t, reset)
	// The off-screen card's left edge lands one grid unit inside the
	// viewport.
	require.Equal(t, (gridUnit-2000)*1.0, panX)
	require.Equal(t, 0.0, panY)
}

func TestNavigateTargetGroupsNearbyCards(t *testing.T) {
	cards := []store.Card{
		visCard("a", 2040, 0),
		visCard("b", 2000, 300),
		visCard("far", 5000, 0),
	}
	panX, _, reset, ok := navigateTarget(cards, 0, 0, 1.0, 1000, 500, DirRight)
	require.True(t, ok)
	require.False(t, reset)
	// a and b are within the tolerance band of each other; far is not.
	// The group lands at its leftmost member.
	require.Equal(t, gridUnit-2000, panX)
}

func TestNavigateTargetScalesWithZoom(t *testing.T) {
	// At zoom 0.5 the viewport covers world x 0..2000, so the card must
	// sit beyond that to be off-screen.
	cards := []store.Card{visCard("off", 2100, 0)}
	panX, _, _, ok := navigateTarget(cards, 0, 0, 0.5, 1000, 500, DirRight)
	require.True(t, ok)
	require.Equal(t, (gridUnit-2100)*0.5, panX)
}

func TestNavigateTargetNothingOffscreen(t *testing.T) {
	cards := []store.Card{visCard("in", 100, 100)}
	panX, panY, reset, ok := navigateTarget(cards, 0, 0, 1.0, 1000, 500, DirRight)
	require.False(t, ok)
	require.False(t, reset)
	require.Equal(t, 0.0, panX)
	require.Equal(t, 0.0, panY)
}

func TestNavigateLeftToExtremityResets(t *testing.T) {
	// View starts at world x=500; the leftmost card of the whole board
	// sits off-screen left, so navigating left is a reset.
	cards := []store.Card{
		visCard("leftmost", 0, 0),
		visCard("visible", 600, 100),
	}
	_, _, reset, ok := navigateTarget(cards, -500, 0, 1.0, 1000, 500, DirLeft)
	require.True(t, ok)
	require.True(t, reset)
}

func TestNavigateLeftMidwayDoesNotReset(t *testing.T) {
	// The leftmost card is a wide one still partially visible, so the
	// fully off-screen card is not the extremity and the navigation
	// pans normally instead of resetting.
	cards := []store.Card{
		{ID: "wide", X: -5000, Y: 1000, Width: 6000, Height: 200},
		visCard("near", 0, 0),
		visCard("visible", 600, 100),
	}
	panX, _, reset, ok := navigateTarget(cards, -500, 0, 1.0, 1000, 500, DirLeft)
	require.True(t, ok)
	require.False(t, reset)
	require.Equal(t, gridUnit-0.0, panX)
}

func TestResetViewTarget(t *testing.T) {
	panX, panY, zoom := resetViewTarget(nil)
	require.Equal(t, gridUnit, panX)
	require.Equal(t, gridUnit, panY)
	require.Equal(t, 1.0, zoom)

	cards := []store.Card{
		visCard("a", -100, 400),
		visCard("b", 300, 40),
	}
	panX, panY, zoom = resetViewTarget(cards)
	require.Equal(t, gridUnit+100, panX)
	require.Equal(t, gridUnit-40, panY)
	require.Equal(t, 1.0, zoom)
}

func TestFocusTarget(t *testing.T) {
	c := visCard("c", 100, 100) // center (250, 200)
	panX, panY := focusTarget(c, 2.0, 1000, 500)
	require.Equal(t, 0.0, panX)
	require.Equal(t, -150.0, panY)

	// The card center must land at the viewport center.
	screen := worldToScreen(cardRect(c).Center(), panX, panY, 2.0)
	require.Equal(t, Point{X: 500, Y: 250}, screen)
}
