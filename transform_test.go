package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScreenWorldRoundTrip(t *testing.T) {
	cases := []struct {
		panX, panY, zoom float64
	}{
		{0, 0, 1.0},
		{100, -250, 0.5},
		{-37.5, 12.25, 2.3},
		{5000, 5000, 0.1},
		{-1, -1, 3.0},
	}
	p := Point{X: 123.5, Y: -456.25}
	for _, tc := range cases {
		got := screenToWorld(worldToScreen(p, tc.panX, tc.panY, tc.zoom), tc.panX, tc.panY, tc.zoom)
		require.InDelta(t, p.X, got.X, 1e-9)
		require.InDelta(t, p.Y, got.Y, 1e-9)
	}
}

func TestClampZoom(t *testing.T) {
	require.Equal(t, minZoom, clampZoom(0.01))
	require.Equal(t, maxZoom, clampZoom(10))
	require.Equal(t, 1.5, clampZoom(1.5))
	require.Equal(t, minZoom, clampZoom(minZoom))
	require.Equal(t, maxZoom, clampZoom(maxZoom))
}

func TestZoomAboutKeepsAnchorFixed(t *testing.T) {
	anchor := Point{X: 123, Y: 456}
	panX, panY, zoom := 10.0, -20.0, 1.0

	before := screenToWorld(anchor, panX, panY, zoom)
	panX, panY, zoom = zoomAbout(anchor, panX, panY, zoom, 2.5)
	after := screenToWorld(anchor, panX, panY, zoom)

	require.Equal(t, 2.5, zoom)
	require.InDelta(t, before.X, after.X, 1e-9)
	require.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomAboutCenterStep(t *testing.T) {
	// One zoom-in step about the center of a 1280x720 viewport from the
	// home view shifts the pan up-left.
	panX, panY, zoom := zoomAbout(Point{X: 640, Y: 360}, 0, 0, 1.0, 1.1)
	require.InDelta(t, -64.0, panX, 1e-9)
	require.InDelta(t, -36.0, panY, 1e-9)
	require.InDelta(t, 1.1, zoom, 1e-9)
}

func TestZoomAboutClampedIsNoop(t *testing.T) {
	panX, panY, zoom := zoomAbout(Point{X: 50, Y: 50}, 7, 9, maxZoom, maxZoom+zoomStep)
	require.Equal(t, 7.0, panX)
	require.Equal(t, 9.0, panY)
	require.Equal(t, maxZoom, zoom)

	panX, panY, zoom = zoomAbout(Point{X: 50, Y: 50}, 7, 9, minZoom, minZoom-zoomStep)
	require.Equal(t, 7.0, panX)
	require.Equal(t, 9.0, panY)
	require.Equal(t, minZoom, zoom)
}

func TestSnapToGrid(t *testing.T) {
	require.Equal(t, 20.0, snapToGrid(29))
	require.Equal(t, 40.0, snapToGrid(30))
	require.Equal(t, 0.0, snapToGrid(9.99))
	require.Equal(t, -20.0, snapToGrid(-29))
	require.Equal(t, -40.0, snapToGrid(-30))
	require.Equal(t, 100.0, snapToGrid(100))
}
