package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionAnchorsHorizontal(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 200, Y: 0, W: 100, H: 100}

	pa, pb := connectionAnchors(a, b)
	require.Equal(t, Point{X: 100, Y: 50}, pa)
	require.Equal(t, Point{X: 200, Y: 50}, pb)
}

func TestConnectionAnchorsVertical(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 0, Y: 300, W: 100, H: 100}

	pa, pb := connectionAnchors(a, b)
	require.Equal(t, Point{X: 50, Y: 100}, pa)
	require.Equal(t, Point{X: 50, Y: 300}, pb)
}

func TestConnectionAnchorsDiagonalExitsAtCorner(t *testing.T) {
	// Square rectangles on a 45 degree diagonal exit exactly at their
	// facing corners.
	a := Rect{X: -50, Y: -50, W: 100, H: 100}
	b := Rect{X: 150, Y: 150, W: 100, H: 100}

	pa, pb := connectionAnchors(a, b)
	require.InDelta(t, 50, pa.X, 1e-9)
	require.InDelta(t, 50, pa.Y, 1e-9)
	require.InDelta(t, 150, pb.X, 1e-9)
	require.InDelta(t, 150, pb.Y, 1e-9)
}

func TestConnectionAnchorsCoincidentCenters(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 25, Y: 25, W: 50, H: 50}

	pa, pb := connectionAnchors(a, b)
	require.Equal(t, a.Center(), pa)
	require.Equal(t, b.Center(), pb)
	require.Equal(t, pa, pb)
}

func TestConnectionAnchorsLieOnBoundary(t *testing.T) {
	a := Rect{X: 10, Y: 20, W: 120, H: 80}
	targets := []Rect{
		{X: 400, Y: 20, W: 60, H: 60},
		{X: 10, Y: 500, W: 60, H: 60},
		{X: -300, Y: -250, W: 90, H: 40},
		{X: 333, Y: 77, W: 10, H: 10},
	}

	onBoundary := func(p Point, r Rect) bool {
		const eps = 1e-9
		inX := p.X >= r.X-eps && p.X <= r.X+r.W+eps
		inY := p.Y >= r.Y-eps && p.Y <= r.Y+r.H+eps
		onEdge := math.Abs(p.X-r.X) < eps || math.Abs(p.X-(r.X+r.W)) < eps ||
			math.Abs(p.Y-r.Y) < eps || math.Abs(p.Y-(r.Y+r.H)) < eps
		return inX && inY && onEdge
	}

	for _, b := range targets {
		pa, pb := connectionAnchors(a, b)
		require.True(t, onBoundary(pa, a), "anchor %+v not on %+v", pa, a)
		require.True(t, onBoundary(pb, b), "anchor %+v not on %+v", pb, b)
	}
}
