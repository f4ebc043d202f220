package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func scanWorkspace(scanner interface{ Scan(dest ...any) error }) (Workspace, error) {
	var w Workspace
	err := scanner.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// CreateWorkspace inserts a new workspace owned by the given user.
func (s *Store) CreateWorkspace(userID, name string) (*Workspace, error) {
	now := time.Now().UnixMilli()
	w := Workspace{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.conn.Exec(`
		INSERT INTO workspaces (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.UserID, w.Name, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &w, nil
}

// GetWorkspace returns a workspace by id.
func (s *Store) GetWorkspace(id string) (*Workspace, error) {
	row := s.conn.QueryRow(`
		SELECT id, user_id, name, created_at, updated_at
		FROM workspaces WHERE id = ?
	`, id)

	w, err := scanWorkspace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	return &w, nil
}

// WorkspacesByUser returns all workspaces owned by a user, oldest first.
func (s *Store) WorkspacesByUser(userID string) ([]Workspace, error) {
	rows, err := s.conn.Query(`
		SELECT id, user_id, name, created_at, updated_at
		FROM workspaces WHERE user_id = ? ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// RenameWorkspace updates a workspace's name.
func (s *Store) RenameWorkspace(id, name string) error {
	_, err := s.conn.Exec(`UPDATE workspaces SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("renaming workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace removes a workspace. Its cards, connections, and
// settings go with it via foreign key cascade.
func (s *Store) DeleteWorkspace(id string) error {
	_, err := s.conn.Exec(`DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	return nil
}
