package main

import "korq/internal/store"

type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Visibility reports which compass directions have at least one card
// entirely outside the viewport. The view layer turns these into
// directional navigation affordances.
type Visibility struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
}

func (v Visibility) Any() bool {
	return v.Left || v.Right || v.Up || v.Down
}

// viewportWorldBounds returns the world-space rectangle currently
// visible, given the screen-pixel viewport size.
func viewportWorldBounds(panX, panY, zoom, viewW, viewH float64) Rect {
	tl := screenToWorld(Point{X: 0, Y: 0}, panX, panY, zoom)
	br := screenToWorld(Point{X: viewW, Y: viewH}, panX, panY, zoom)
	return Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}

func offscreenIn(c store.Card, view Rect, dir Direction) bool {
	switch dir {
	case DirLeft:
		return c.X+c.Width < view.X
	case DirRight:
		return c.X > view.X+view.W
	case DirUp:
		return c.Y+c.Height < view.Y
	case DirDown:
		return c.Y > view.Y+view.H
	}
	return false
}

// offscreenVisibility classifies every card against the current view.
func offscreenVisibility(cards []store.Card, panX, panY, zoom, viewW, viewH float64) Visibility {
	view := viewportWorldBounds(panX, panY, zoom, viewW, viewH)
	var v Visibility
	for _, c := range cards {
		if offscreenIn(c, view, DirLeft) {
			v.Left = true
		}
		if offscreenIn(c, view, DirRight) {
			v.Right = true
		}
		if offscreenIn(c, view, DirUp) {
			v.Up = true
		}
		if offscreenIn(c, view, DirDown) {
			v.Down = true
		}
	}
	return v
}

// edgeDistance is the perpendicular distance from the viewport edge in
// the travel direction to the card's near edge. Non-negative for cards
// that are off-screen in that direction.
func edgeDistance(c store.Card, view Rect, dir Direction) float64 {
	switch dir {
	case DirLeft:
		return view.X - (c.X + c.Width)
	case DirRight:
		return c.X - (view.X + view.W)
	case DirUp:
		return view.Y - (c.Y + c.Height)
	case DirDown:
		return c.Y - (view.Y + view.H)
	}
	return 0
}

// navigateTarget computes the pan after navigating toward off-screen
// content in the given direction. Returns ok=false when no card is
// off-screen that way, and reset=true when the navigation reaches the
// absolute extremity and should behave like a full view reset instead.
//
// Among the off-screen cards, the ones within navTolerance of the
// closest form a group; the group's minimum x (horizontal travel) or
// minimum y (vertical travel) lands one grid unit inside the viewport's
// top-left corner. Zoom is unchanged.
func navigateTarget(cards []store.Card, panX, panY, zoom, viewW, viewH float64, dir Direction) (newPanX, newPanY float64, reset, ok bool) {
	view := viewportWorldBounds(panX, panY, zoom, viewW, viewH)

	var collected []store.Card
	for _, c := range cards {
		if offscreenIn(c, view, dir) {
			collected = append(collected, c)
		}
	}
	if len(collected) == 0 {
		return panX, panY, false, false
	}

	// Navigating left or up toward the global extremity is the same as
	// resetting the view, which already lands the extremity at the
	// corner.
	if dir == DirLeft || dir == DirUp {
		if containsExtremity(collected, cards, dir) {
			return panX, panY, true, true
		}
	}

	closest := edgeDistance(collected[0], view, dir)
	for _, c := range collected[1:] {
		if d := edgeDistance(c, view, dir); d < closest {
			closest = d
		}
	}

	var group []store.Card
	for _, c := range collected {
		if edgeDistance(c, view, dir) <= closest+navTolerance {
			group = append(group, c)
		}
	}

	newPanX, newPanY = panX, panY
	switch dir {
	case DirLeft, DirRight:
		minX := group[0].X
		for _, c := range group[1:] {
			if c.X < minX {
				minX = c.X
			}
		}
		newPanX = (gridUnit - minX) * zoom
	case DirUp, DirDown:
		minY := group[0].Y
		for _, c := range group[1:] {
			if c.Y < minY {
				minY = c.Y
			}
		}
		newPanY = (gridUnit - minY) * zoom
	}
	return newPanX, newPanY, false, true
}

// containsExtremity reports whether the collected set includes every
// card at the global minimum x (left travel) or minimum y (up travel).
func containsExtremity(collected, all []store.Card, dir Direction) bool {
	if len(all) == 0 {
		return false
	}
	coord := func(c store.Card) float64 {
		if dir == DirLeft {
			return c.X
		}
		return c.Y
	}

	min := coord(all[0])
	for _, c := range all[1:] {
		if v := coord(c); v < min {
			min = v
		}
	}

	collectedIDs := make(map[string]bool, len(collected))
	for _, c := range collected {
		collectedIDs[c.ID] = true
	}
	for _, c := range all {
		if coord(c) == min && !collectedIDs[c.ID] {
			return false
		}
	}
	return true
}

// resetViewTarget returns the pan and zoom of the reset view: zoom 1.0
// with the top-left-most card corner one grid unit inside the
// viewport's top-left corner, or world origin there when the workspace
// is empty.
func resetViewTarget(cards []store.Card) (panX, panY, zoom float64) {
	if len(cards) == 0 {
		return gridUnit, gridUnit, 1.0
	}
	minX := cards[0].X
	minY := cards[0].Y
	for _, c := range cards[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}
	return gridUnit - minX, gridUnit - minY, 1.0
}

// focusTarget returns the pan that centers the card in the viewport at
// the current zoom.
func focusTarget(c store.Card, zoom, viewW, viewH float64) (panX, panY float64) {
	center := cardRect(c).Center()
	return viewW/2 - center.X*zoom, viewH/2 - center.Y*zoom
}
