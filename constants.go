package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeTitleInput
	ModeEditing
	ModeMove
	ModeResize
	ModeWorkspaceList
	ModeWorkspaceName
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmDeleteCard ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmDeleteWorkspace
	ConfirmQuit
)

type ActionType int

const (
	ActionAddCard ActionType = iota
	ActionDeleteCard
	ActionUpdateCard
	ActionMoveCard
	ActionAddConnection
	ActionDeleteConnection
)

// GridMode controls how the background grid is drawn.
type GridMode string

const (
	GridOff   GridMode = "off"
	GridDots  GridMode = "dots"
	GridLines GridMode = "lines"
)

const (
	// World-space geometry. The grid unit is fixed; snap-to-grid rounds
	// to multiples of it.
	gridUnit      = 20.0
	minCardWidth  = 200.0
	minCardHeight = 150.0

	defaultCardWidth  = 300.0
	defaultCardHeight = 200.0

	// Zoom is clamped to [minZoom, maxZoom] everywhere; zoom buttons
	// step by zoomStep.
	minZoom  = 0.1
	maxZoom  = 3.0
	zoomStep = 0.1

	// Placement cascade: candidate offsets are multiples of
	// placementStep, and the search gives up after placementAttempts.
	placementStep     = 2 * gridUnit
	placementAttempts = 20

	// Grouping tolerance for directional navigation: cards within this
	// band of the nearest off-screen card travel together.
	navTolerance = 50.0

	// Drag positions are clamped to the viewport expanded by this much
	// in every direction. A sanity bound, not an architectural limit.
	dragClampBuffer = 2000.0

	// Undo and redo stacks each hold this many records; the oldest is
	// evicted beyond it.
	historyLimit = 50

	// Terminal cell footprint in screen pixels. The transform works in
	// pixels; the renderer quantizes to cells.
	cellPxW = 10.0
	cellPxH = 20.0
)

const (
	connTypeArrow = "arrow"
)
