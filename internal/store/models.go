package store

import "errors"

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// User represents a row in the users table. There is normally exactly
// one row: the local profile standing in for an identity provider.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// Workspace represents a row in the workspaces table.
type Workspace struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Card represents a row in the cards table. X/Y/Width/Height are in
// world units; Content is an opaque blob the store never interprets.
type Card struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// Connection represents a row in the connections table. FromCard and
// ToCard are ordered; the order defines the arrow direction.
type Connection struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	FromCard    string `json:"from_card"`
	ToCard      string `json:"to_card"`
	Type        string `json:"type"`
	CreatedAt   int64  `json:"created_at"`
}

// Settings represents the persisted per-workspace view state. It lives
// outside the undo log.
type Settings struct {
	WorkspaceID string  `json:"workspace_id"`
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
	Zoom        float64 `json:"zoom"`
	GridMode    string  `json:"grid_mode"` // "off", "dots", "lines"
	SnapToGrid  bool    `json:"snap_to_grid"`
}
