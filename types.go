package main

import "korq/internal/store"

// Point is a location in either world or screen space; the function
// signatures say which.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func cardRect(c store.Card) Rect {
	return Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// Action is one reversible mutation in the undo/redo log. Data holds a
// payload struct matching the Type; each payload carries everything
// needed to apply the mutation in both directions.
type Action struct {
	Type ActionType
	Data interface{}
}

type AddCardData struct {
	Card store.Card
}

// DeleteCardData captures the deleted card together with its incident
// connections so an undo restores both.
type DeleteCardData struct {
	Card        store.Card
	Connections []store.Connection
}

type UpdateCardData struct {
	Old store.Card
	New store.Card
}

type MoveCardData struct {
	ID   string
	OldX float64
	OldY float64
	NewX float64
	NewY float64
}

type AddConnectionData struct {
	Connection store.Connection
}

type DeleteConnectionData struct {
	Connection store.Connection
}
