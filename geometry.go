package main

import "math"

// connectionAnchors returns the two points where the straight line
// between the rectangle centers exits each rectangle's boundary: the
// arrow is drawn between them. Coincident centers degenerate to a
// zero-length segment at the shared center.
func connectionAnchors(a, b Rect) (Point, Point) {
	ca := a.Center()
	cb := b.Center()

	dx := cb.X - ca.X
	dy := cb.Y - ca.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return ca, cb
	}
	dx /= length
	dy /= length

	pa := rayExit(ca, dx, dy, a)
	pb := rayExit(cb, -dx, -dy, b)
	return pa, pb
}

// rayExit finds where the ray from the rectangle's center along
// (dx, dy) first crosses the rectangle boundary: the smaller of the
// parametric distances to the vertical and horizontal edges wins.
func rayExit(center Point, dx, dy float64, r Rect) Point {
	halfW := r.W / 2
	halfH := r.H / 2

	tx := math.Inf(1)
	if dx != 0 {
		tx = halfW / math.Abs(dx)
	}
	ty := math.Inf(1)
	if dy != 0 {
		ty = halfH / math.Abs(dy)
	}

	t := tx
	if ty < tx {
		t = ty
	}
	return Point{X: center.X + dx*t, Y: center.Y + dy*t}
}
