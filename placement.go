package main

import "korq/internal/store"

// rectsOverlap is a strict separating-axis test: rectangles that only
// touch along an edge do not count as overlapping.
func rectsOverlap(a, b Rect) bool {
	if a.X+a.W <= b.X || b.X+b.W <= a.X {
		return false
	}
	if a.Y+a.H <= b.Y || b.Y+b.H <= a.Y {
		return false
	}
	return true
}

func overlapsAny(r Rect, cards []store.Card) bool {
	for _, c := range cards {
		if rectsOverlap(r, cardRect(c)) {
			return true
		}
	}
	return false
}

// placementOffsets is the cascade: (dx, dy) candidates in multiples of
// twice the grid unit, spiraling outward. The first candidate after
// the desired position itself is (40, 40), diagonally down-right.
var placementOffsets = []Point{
	{placementStep, placementStep},
	{-placementStep, placementStep},
	{placementStep, -placementStep},
	{-placementStep, -placementStep},
	{2 * placementStep, 0},
	{0, 2 * placementStep},
	{-2 * placementStep, 0},
	{0, -2 * placementStep},
	{2 * placementStep, 2 * placementStep},
	{-2 * placementStep, 2 * placementStep},
	{2 * placementStep, -2 * placementStep},
	{-2 * placementStep, -2 * placementStep},
	{3 * placementStep, 0},
	{0, 3 * placementStep},
	{-3 * placementStep, 0},
	{0, -3 * placementStep},
	{3 * placementStep, 3 * placementStep},
	{-3 * placementStep, 3 * placementStep},
	{3 * placementStep, -3 * placementStep},
	{-3 * placementStep, -3 * placementStep},
}

// resolvePlacement finds a position for a new card of the given size
// near the desired world position that overlaps no existing card. The
// desired position wins if it is already free. The cascade is bounded;
// if every candidate overlaps, the last one tested is returned and the
// overlap is tolerated. The second return value reports whether the
// result is overlap-free.
func resolvePlacement(desired Point, cards []store.Card, w, h float64) (Point, bool) {
	candidate := Rect{X: desired.X, Y: desired.Y, W: w, H: h}
	if !overlapsAny(candidate, cards) {
		return desired, true
	}

	last := desired
	for i := 0; i < placementAttempts && i < len(placementOffsets); i++ {
		off := placementOffsets[i]
		p := Point{X: desired.X + off.X, Y: desired.Y + off.Y}
		last = p
		if !overlapsAny(Rect{X: p.X, Y: p.Y, W: w, H: h}, cards) {
			return p, true
		}
	}
	return last, false
}
