package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Build session statuses.
const (
	BuildStatusActive    = "active"
	BuildStatusFinalized = "finalized"
	BuildStatusAbandoned = "abandoned"
)

// BuildSession is an in-progress deck under construction. Cards are tracked
// by oracle ID only; no catalog data is persisted.
type BuildSession struct {
	ID                int64
	OwnerUserID       int64
	BuildName         *string
	CommanderName     *string
	CommanderOracleID *string
	Status            string
}

// BuildSessionCard is one oracle-id/quantity pair inside a build session.
type BuildSessionCard struct {
	ID           int64
	SessionID    int64
	CardOracleID string
	Quantity     int
}

// CreateBuildSession inserts a new build session and returns it with its ID.
func (s *Service) CreateBuildSession(ctx context.Context, session *BuildSession) error {
	if session.Status == "" {
		session.Status = BuildStatusActive
	}

	query := `
		INSERT INTO build_sessions (owner_user_id, build_name, commander_name, commander_oracle_id, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.Conn().ExecContext(ctx, query,
		session.OwnerUserID, session.BuildName, session.CommanderName,
		session.CommanderOracleID, session.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create build session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get build session id: %w", err)
	}
	session.ID = id

	return nil
}

// AddBuildSessionCard inserts a card into a build session.
func (s *Service) AddBuildSessionCard(ctx context.Context, card *BuildSessionCard) error {
	query := `
		INSERT INTO build_session_cards (session_id, card_oracle_id, quantity)
		VALUES (?, ?, ?)
	`

	result, err := s.db.Conn().ExecContext(ctx, query, card.SessionID, card.CardOracleID, card.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add build session card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get build session card id: %w", err)
	}
	card.ID = id

	return nil
}

// GetActiveBuildSession retrieves an active build session owned by the given
// user. Returns nil if no such session exists.
func (s *Service) GetActiveBuildSession(ctx context.Context, sessionID, ownerID int64) (*BuildSession, error) {
	query := `
		SELECT id, owner_user_id, build_name, commander_name, commander_oracle_id, status
		FROM build_sessions
		WHERE id = ? AND owner_user_id = ? AND status = ?
	`

	var session BuildSession
	err := s.db.Conn().QueryRowContext(ctx, query, sessionID, ownerID, BuildStatusActive).Scan(
		&session.ID, &session.OwnerUserID, &session.BuildName,
		&session.CommanderName, &session.CommanderOracleID, &session.Status,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build session: %w", err)
	}

	return &session, nil
}

// ListBuildSessionCards retrieves the card rows of a build session, in
// insertion order.
func (s *Service) ListBuildSessionCards(ctx context.Context, sessionID int64) ([]*BuildSessionCard, error) {
	query := `
		SELECT id, session_id, card_oracle_id, quantity
		FROM build_session_cards
		WHERE session_id = ?
		ORDER BY id
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list build session cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*BuildSessionCard
	for rows.Next() {
		var card BuildSessionCard
		if err := rows.Scan(&card.ID, &card.SessionID, &card.CardOracleID, &card.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan build session card: %w", err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate build session cards: %w", err)
	}

	return cards, nil
}
