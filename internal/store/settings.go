package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// DefaultSettings returns the view state a fresh workspace starts with.
func DefaultSettings(workspaceID string) Settings {
	return Settings{
		WorkspaceID: workspaceID,
		PanX:        0,
		PanY:        0,
		Zoom:        1.0,
		GridMode:    "dots",
		SnapToGrid:  false,
	}
}

// GetSettings returns the persisted view settings for a workspace, or
// the defaults if none have been saved yet.
func (s *Store) GetSettings(workspaceID string) (Settings, error) {
	row := s.conn.QueryRow(`
		SELECT workspace_id, pan_x, pan_y, zoom, grid_mode, snap_to_grid
		FROM settings WHERE workspace_id = ?
	`, workspaceID)

	var v Settings
	var snap int
	err := row.Scan(&v.WorkspaceID, &v.PanX, &v.PanY, &v.Zoom, &v.GridMode, &snap)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(workspaceID), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	v.SnapToGrid = snap != 0
	return v, nil
}

// SaveSettings upserts a workspace's view settings.
func (s *Store) SaveSettings(v Settings) error {
	snap := 0
	if v.SnapToGrid {
		snap = 1
	}
	_, err := s.conn.Exec(`
		INSERT INTO settings (workspace_id, pan_x, pan_y, zoom, grid_mode, snap_to_grid)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace_id) DO UPDATE SET
			pan_x = excluded.pan_x,
			pan_y = excluded.pan_y,
			zoom = excluded.zoom,
			grid_mode = excluded.grid_mode,
			snap_to_grid = excluded.snap_to_grid
	`, v.WorkspaceID, v.PanX, v.PanY, v.Zoom, v.GridMode, snap)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
