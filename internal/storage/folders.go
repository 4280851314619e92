package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Folder categories. Only deck folders appear in the opening-hand simulator.
const (
	CategoryDeck       = "deck"
	CategoryCollection = "collection"
)

// Folder represents a named group of cards, optionally designated as a deck
// with one or more commanders.
type Folder struct {
	ID                int64
	Name              string
	Category          string
	OwnerUserID       int64
	CommanderName     *string
	CommanderOracleID *string
}

// FolderCard is one card row inside a folder.
type FolderCard struct {
	ID              int64
	FolderID        int64
	Name            string
	SetCode         *string
	CollectorNumber *string
	OracleID        *string
	TypeLine        *string
	Quantity        int
}

// CreateFolder inserts a new folder and returns it with its assigned ID.
func (s *Service) CreateFolder(ctx context.Context, folder *Folder) error {
	query := `
		INSERT INTO folders (name, category, owner_user_id, commander_name, commander_oracle_id)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.Conn().ExecContext(ctx, query,
		folder.Name, folder.Category, folder.OwnerUserID, folder.CommanderName, folder.CommanderOracleID,
	)
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get folder id: %w", err)
	}
	folder.ID = id

	return nil
}

// GetFolder retrieves a folder by ID. Returns nil if it does not exist.
func (s *Service) GetFolder(ctx context.Context, id int64) (*Folder, error) {
	query := `
		SELECT id, name, category, owner_user_id, commander_name, commander_oracle_id
		FROM folders
		WHERE id = ?
	`

	var folder Folder
	err := s.db.Conn().QueryRowContext(ctx, query, id).Scan(
		&folder.ID, &folder.Name, &folder.Category, &folder.OwnerUserID,
		&folder.CommanderName, &folder.CommanderOracleID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return &folder, nil
}

// ListFolderCards retrieves all card rows in a folder, in insertion order.
func (s *Service) ListFolderCards(ctx context.Context, folderID int64) ([]*FolderCard, error) {
	query := `
		SELECT id, folder_id, name, set_code, collector_number, oracle_id, type_line, quantity
		FROM cards
		WHERE folder_id = ?
		ORDER BY id
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*FolderCard
	for rows.Next() {
		var card FolderCard
		if err := rows.Scan(
			&card.ID, &card.FolderID, &card.Name, &card.SetCode,
			&card.CollectorNumber, &card.OracleID, &card.TypeLine, &card.Quantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan folder card: %w", err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder cards: %w", err)
	}

	return cards, nil
}

// AddFolderCard inserts a card row into a folder.
func (s *Service) AddFolderCard(ctx context.Context, card *FolderCard) error {
	query := `
		INSERT INTO cards (folder_id, name, set_code, collector_number, oracle_id, type_line, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Conn().ExecContext(ctx, query,
		card.FolderID, card.Name, card.SetCode, card.CollectorNumber,
		card.OracleID, card.TypeLine, card.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to add folder card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card id: %w", err)
	}
	card.ID = id

	return nil
}

// ShareFolder grants a user read access to a folder.
func (s *Service) ShareFolder(ctx context.Context, folderID, userID int64) error {
	query := `
		INSERT INTO folder_shares (folder_id, shared_user_id)
		VALUES (?, ?)
		ON CONFLICT(folder_id, shared_user_id) DO NOTHING
	`

	if _, err := s.db.Conn().ExecContext(ctx, query, folderID, userID); err != nil {
		return fmt.Errorf("failed to share folder: %w", err)
	}

	return nil
}

// IsFolderSharedWith reports whether a folder has been shared with a user.
func (s *Service) IsFolderSharedWith(ctx context.Context, folderID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM folder_shares
			WHERE folder_id = ? AND shared_user_id = ?
		)
	`

	var shared bool
	if err := s.db.Conn().QueryRowContext(ctx, query, folderID, userID).Scan(&shared); err != nil {
		return false, fmt.Errorf("failed to check folder share: %w", err)
	}

	return shared, nil
}

// ListDeckFoldersForUser retrieves deck folders the user owns or has been
// granted access to, ordered by name.
func (s *Service) ListDeckFoldersForUser(ctx context.Context, userID int64) ([]*Folder, error) {
	query := `
		SELECT DISTINCT f.id, f.name, f.category, f.owner_user_id, f.commander_name, f.commander_oracle_id
		FROM folders f
		LEFT JOIN folder_shares fs ON fs.folder_id = f.id
		WHERE f.category = ? AND (f.owner_user_id = ? OR fs.shared_user_id = ?)
		ORDER BY f.name
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, CategoryDeck, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck folders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var folders []*Folder
	for rows.Next() {
		var folder Folder
		if err := rows.Scan(
			&folder.ID, &folder.Name, &folder.Category, &folder.OwnerUserID,
			&folder.CommanderName, &folder.CommanderOracleID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, &folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}

	return folders, nil
}
