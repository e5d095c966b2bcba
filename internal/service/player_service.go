package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/handicap/internal/models"
)

// CreatePlayer registers a new player.
func (s *ScoringService) CreatePlayer(ctx context.Context, name, email string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	player := models.NewPlayer(name, strings.TrimSpace(email))
	if err := s.store.CreatePlayer(ctx, player); err != nil {
		slog.Error("CreatePlayer failed", "error", err)
		return nil, err
	}

	slog.Info("Player created", "player_id", player.ID, "name", player.Name)
	return player, nil
}

// GetPlayer retrieves a player with the stored handicap summary.
func (s *ScoringService) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	return s.store.GetPlayer(ctx, playerID)
}
