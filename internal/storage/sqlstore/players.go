package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/handicap/internal/models"
	"github.com/mmynk/handicap/internal/storage"
)

// CreatePlayer inserts a new player into the database.
func (s *SQLStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.ID == "" {
		player.ID = uuid.New().String()
	}

	query := `
		INSERT INTO players (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.exec(ctx, query,
		player.ID,
		player.Name,
		nullString(player.Email),
		player.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetPlayer retrieves a player by ID.
func (s *queries) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	query := `
		SELECT id, name, email, handicap_index, low_handicap_index, low_handicap_index_date, created_at
		FROM players
		WHERE id = ?
	`

	var (
		player  models.Player
		email   sql.NullString
		index   sql.NullFloat64
		low     sql.NullFloat64
		lowDate sql.NullString
	)
	err := s.queryRow(ctx, query, playerID).Scan(
		&player.ID,
		&player.Name,
		&email,
		&index,
		&low,
		&lowDate,
		&player.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", playerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	player.Email = email.String
	if index.Valid {
		v := index.Float64
		player.Summary.HandicapIndex = &v
	}
	if low.Valid && lowDate.Valid {
		date, err := parseDate(lowDate.String)
		if err != nil {
			return nil, err
		}
		player.Summary.Low = &models.LowIndex{Value: low.Float64, Date: date}
	}

	return &player, nil
}

// UpdatePlayerSummary persists the index, low index and low index date.
func (s *queries) UpdatePlayerSummary(ctx context.Context, playerID string, summary models.Summary) error {
	var index, low, lowDate any
	if summary.HandicapIndex != nil {
		index = *summary.HandicapIndex
	}
	if summary.Low != nil {
		low = summary.Low.Value
		lowDate = formatDate(summary.Low.Date)
	}

	query := `
		UPDATE players
		SET handicap_index = ?, low_handicap_index = ?, low_handicap_index_date = ?
		WHERE id = ?
	`
	res, err := s.exec(ctx, query, index, low, lowDate, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player summary: %w", err)
	}
	return requireAffected(res, "player", playerID)
}

// lockPlayer bumps the player's revision, taking the row lock for the
// rest of the transaction.
func (s *queries) lockPlayer(ctx context.Context, playerID string) error {
	res, err := s.exec(ctx, `UPDATE players SET revision = revision + 1 WHERE id = ?`, playerID)
	if err != nil {
		return fmt.Errorf("failed to lock player: %w", err)
	}
	return requireAffected(res, "player", playerID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
