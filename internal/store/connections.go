package store

import "fmt"

func scanConnection(scanner interface{ Scan(dest ...any) error }) (Connection, error) {
	var c Connection
	err := scanner.Scan(&c.ID, &c.WorkspaceID, &c.FromCard, &c.ToCard, &c.Type, &c.CreatedAt)
	return c, err
}

// AddConnection inserts a connection record verbatim.
func (s *Store) AddConnection(c Connection) error {
	_, err := s.conn.Exec(`
		INSERT INTO connections (id, workspace_id, from_card, to_card, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.WorkspaceID, c.FromCard, c.ToCard, c.Type, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting connection: %w", err)
	}
	return nil
}

// DeleteConnection removes a connection by id.
func (s *Store) DeleteConnection(id string) error {
	_, err := s.conn.Exec(`DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}
	return nil
}

// ConnectionsByWorkspace returns all connections in a workspace.
func (s *Store) ConnectionsByWorkspace(workspaceID string) ([]Connection, error) {
	rows, err := s.conn.Query(`
		SELECT id, workspace_id, from_card, to_card, type, created_at
		FROM connections WHERE workspace_id = ?
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	defer rows.Close()

	var out []Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConnectionsForCard returns connections where the card is either
// endpoint. Used to capture incident connections before a card delete.
func (s *Store) ConnectionsForCard(cardID string) ([]Connection, error) {
	rows, err := s.conn.Query(`
		SELECT id, workspace_id, from_card, to_card, type, created_at
		FROM connections WHERE from_card = ? OR to_card = ?
	`, cardID, cardID)
	if err != nil {
		return nil, fmt.Errorf("listing card connections: %w", err)
	}
	defer rows.Close()

	var out []Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
