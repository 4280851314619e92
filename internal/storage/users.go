package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User represents an account that can own and share deck folders.
type User struct {
	ID       int64
	Username string
	Email    string
	APIKey   string
}

// CreateUser inserts a new user and returns it with its assigned ID.
func (s *Service) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, api_key)
		VALUES (?, ?, ?)
	`

	result, err := s.db.Conn().ExecContext(ctx, query, user.Username, user.Email, user.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByAPIKey retrieves the user owning the given API key.
// Returns nil if no user matches.
func (s *Service) GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	query := `
		SELECT id, username, email, api_key
		FROM users
		WHERE api_key = ?
	`

	var user User
	err := s.db.Conn().QueryRowContext(ctx, query, apiKey).Scan(
		&user.ID, &user.Username, &user.Email, &user.APIKey,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by api key: %w", err)
	}

	return &user, nil
}
