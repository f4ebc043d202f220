package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LocalUser returns the single local profile, creating it with the
// given display name on first run.
func (s *Store) LocalUser(name string) (*User, error) {
	row := s.conn.QueryRow(`SELECT id, name, created_at FROM users ORDER BY created_at LIMIT 1`)

	var u User
	err := row.Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading local user: %w", err)
	}

	u = User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err = s.conn.Exec(`INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Name, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating local user: %w", err)
	}
	return &u, nil
}
