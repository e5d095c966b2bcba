// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/models"
)

// RoundHistory is the per-player persistence contract of the handicap engine.
type RoundHistory interface {
	// LoadRecord returns the player's rounds, pending nine, summary and
	// index history. Returns ErrNotFound if the player does not exist.
	LoadRecord(ctx context.Context, playerID string) (calculator.Record, error)

	// AppendRound persists a new round. An empty round.ID is assigned by the store.
	AppendRound(ctx context.Context, playerID string, round *models.Round) error

	// UpdateRound overwrites a recorded round.
	UpdateRound(ctx context.Context, playerID string, round models.Round) error

	// DeleteRound removes a recorded round.
	DeleteRound(ctx context.Context, playerID, roundID string) error

	// AppendPendingNine stores the player's single staged nine-hole round.
	AppendPendingNine(ctx context.Context, playerID string, round *models.NineHoleRound) error

	// DeletePendingNine removes the staged nine-hole round.
	DeletePendingNine(ctx context.Context, playerID, roundID string) error

	// AppendIndexEntry adds a (date, index) pair to the player's history.
	AppendIndexEntry(ctx context.Context, playerID string, entry *models.IndexEntry) error

	// UpdateIndexEntry rewrites the index of one history entry.
	UpdateIndexEntry(ctx context.Context, playerID, entryID string, index float64) error

	// PruneIndexHistory deletes history entries dated before the given day.
	PruneIndexHistory(ctx context.Context, playerID string, before time.Time) error

	// UpdatePlayerSummary persists the index, low index and low index date.
	UpdatePlayerSummary(ctx context.Context, playerID string, summary models.Summary) error
}

// Store defines the interface for handicap storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	RoundHistory

	// CreatePlayer persists a new player. The player.ID field will be populated by the store.
	CreatePlayer(ctx context.Context, player *models.Player) error

	// GetPlayer retrieves a player by ID, including the summary fields.
	GetPlayer(ctx context.Context, playerID string) (*models.Player, error)

	// RoundPage returns one page of the player's rounds ordered by play date.
	RoundPage(ctx context.Context, playerID string, req PageRequest) (*models.RoundPage, error)

	// InPlayerTx runs fn inside one transaction holding the player's row lock.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InPlayerTx(ctx context.Context, playerID string, fn func(ctx context.Context, tx RoundHistory) error) error

	// Close releases any resources held by the store.
	Close() error
}
