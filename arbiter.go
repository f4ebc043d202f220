package main

import "time"

// arbiterEvent is a typed interaction observation with a timestamp.
type arbiterEvent int

const (
	evCardInteraction arbiterEvent = iota
	evSelectionStart
	evSelectionEnd
	evCanvasPress
	evCanvasRelease
)

const (
	// A press/release pair only counts as a click when it is quick and
	// nearly stationary.
	clickMaxDuration = 300 * time.Millisecond
	clickMaxTravel   = 5.0

	// Background clicks are suppressed while recent card or selection
	// activity suggests the user is mid-interaction.
	cardInteractionGuard = 1000 * time.Millisecond
	selectionGuard       = 2000 * time.Millisecond
)

// interactionArbiter decides whether a click on the canvas background
// should commit in-progress edits and clear the selection. A single
// "target was not a card" heuristic misfires during text selection
// inside an editor, so the arbiter folds several signals into one
// query. The clock is injected for tests.
type interactionArbiter struct {
	now func() time.Time

	lastCardInteraction time.Time
	lastSelection       time.Time
	selectionLive       bool

	pressAt  time.Time
	pressPos Point
	pressed  bool

	releaseAt  time.Time
	releasePos Point
	released   bool
}

func newInteractionArbiter(now func() time.Time) *interactionArbiter {
	if now == nil {
		now = time.Now
	}
	return &interactionArbiter{now: now}
}

// Observe records an event. Press/release positions are in screen
// pixels; other events ignore the position.
func (a *interactionArbiter) Observe(ev arbiterEvent, pos Point) {
	t := a.now()
	switch ev {
	case evCardInteraction:
		a.lastCardInteraction = t
	case evSelectionStart:
		a.selectionLive = true
		a.lastSelection = t
	case evSelectionEnd:
		a.selectionLive = false
		a.lastSelection = t
	case evCanvasPress:
		a.pressed = true
		a.released = false
		a.pressAt = t
		a.pressPos = pos
	case evCanvasRelease:
		a.released = true
		a.releaseAt = t
		a.releasePos = pos
	}
}

// ShouldCommitOnBackgroundClick reports whether the most recent canvas
// press/release pair is a genuine background click: no live selection,
// no card interaction within the last second, no selection activity
// within the last two, and a quick, nearly stationary press.
func (a *interactionArbiter) ShouldCommitOnBackgroundClick() bool {
	if !a.pressed || !a.released {
		return false
	}
	if a.selectionLive {
		return false
	}

	t := a.now()
	if !a.lastCardInteraction.IsZero() && t.Sub(a.lastCardInteraction) < cardInteractionGuard {
		return false
	}
	if !a.lastSelection.IsZero() && t.Sub(a.lastSelection) < selectionGuard {
		return false
	}

	if a.releaseAt.Sub(a.pressAt) >= clickMaxDuration {
		return false
	}
	dx := a.releasePos.X - a.pressPos.X
	dy := a.releasePos.Y - a.pressPos.Y
	return dx*dx+dy*dy < clickMaxTravel*clickMaxTravel
}

// IsDoubleClick reports whether a release at pos within the double
// click window of the previous release forms a double click.
func (a *interactionArbiter) IsDoubleClick(prevAt time.Time, prevPos, pos Point) bool {
	if prevAt.IsZero() {
		return false
	}
	if a.now().Sub(prevAt) >= clickMaxDuration {
		return false
	}
	dx := pos.X - prevPos.X
	dy := pos.Y - prevPos.Y
	return dx*dx+dy*dy < clickMaxTravel*clickMaxTravel
}
