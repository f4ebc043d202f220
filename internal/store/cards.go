package store

import (
	"database/sql"
	"errors"
	"fmt"
)

func scanCard(scanner interface{ Scan(dest ...any) error }) (Card, error) {
	var c Card
	err := scanner.Scan(
		&c.ID, &c.WorkspaceID, &c.Title, &c.Content,
		&c.X, &c.Y, &c.Width, &c.Height,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// AddCard inserts a card. The caller supplies the full record,
// including its id; undo restoration re-inserts deleted cards verbatim.
func (s *Store) AddCard(c Card) error {
	_, err := s.conn.Exec(`
		INSERT INTO cards (id, workspace_id, title, content, x, y, width, height, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.WorkspaceID, c.Title, c.Content, c.X, c.Y, c.Width, c.Height, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting card: %w", err)
	}
	return nil
}

// GetCard returns a card by id.
func (s *Store) GetCard(id string) (*Card, error) {
	row := s.conn.QueryRow(`
		SELECT id, workspace_id, title, content, x, y, width, height, created_at, updated_at
		FROM cards WHERE id = ?
	`, id)

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading card: %w", err)
	}
	return &c, nil
}

// UpdateCard writes back every mutable field of a card.
func (s *Store) UpdateCard(c Card) error {
	_, err := s.conn.Exec(`
		UPDATE cards SET title = ?, content = ?, x = ?, y = ?, width = ?, height = ?, updated_at = ?
		WHERE id = ?
	`, c.Title, c.Content, c.X, c.Y, c.Width, c.Height, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("updating card: %w", err)
	}
	return nil
}

// DeleteCard removes a card by id.
func (s *Store) DeleteCard(id string) error {
	_, err := s.conn.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	return nil
}

// CardsByWorkspace returns all cards in a workspace, oldest first.
func (s *Store) CardsByWorkspace(workspaceID string) ([]Card, error) {
	rows, err := s.conn.Query(`
		SELECT id, workspace_id, title, content, x, y, width, height, created_at, updated_at
		FROM cards WHERE workspace_id = ? ORDER BY created_at
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
