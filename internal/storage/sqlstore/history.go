package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/models"
)

// AppendIndexEntry adds a (date, index) pair to the player's history.
func (s *queries) AppendIndexEntry(ctx context.Context, playerID string, entry *models.IndexEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	var seq int64
	err := s.queryRow(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM index_history WHERE player_id = ?`, playerID).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to allocate history sequence: %w", err)
	}

	query := `
		INSERT INTO index_history (id, player_id, seq, entry_date, handicap_index)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.exec(ctx, query, entry.ID, playerID, seq, formatDate(entry.Date), entry.Index); err != nil {
		return fmt.Errorf("failed to insert index entry: %w", err)
	}
	return nil
}

// UpdateIndexEntry rewrites the index of one history entry.
func (s *queries) UpdateIndexEntry(ctx context.Context, playerID, entryID string, index float64) error {
	res, err := s.exec(ctx,
		`UPDATE index_history SET handicap_index = ? WHERE id = ? AND player_id = ?`,
		index, entryID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update index entry: %w", err)
	}
	return requireAffected(res, "index entry", entryID)
}

// PruneIndexHistory deletes history entries dated before the given day.
func (s *queries) PruneIndexHistory(ctx context.Context, playerID string, before time.Time) error {
	_, err := s.exec(ctx,
		`DELETE FROM index_history WHERE player_id = ? AND entry_date < ?`,
		playerID, formatDate(before))
	if err != nil {
		return fmt.Errorf("failed to prune index history: %w", err)
	}
	return nil
}

func (s *queries) loadHistory(ctx context.Context, playerID string) ([]models.IndexEntry, error) {
	rows, err := s.query(ctx,
		`SELECT id, entry_date, handicap_index FROM index_history WHERE player_id = ? ORDER BY seq`,
		playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query index history: %w", err)
	}
	defer rows.Close()

	var history []models.IndexEntry
	for rows.Next() {
		var (
			e    models.IndexEntry
			date string
		)
		if err := rows.Scan(&e.ID, &date, &e.Index); err != nil {
			return nil, fmt.Errorf("failed to scan index entry: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate index history: %w", err)
	}
	return history, nil
}

// LoadRecord returns the player's full scoring record.
func (s *queries) LoadRecord(ctx context.Context, playerID string) (calculator.Record, error) {
	player, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return calculator.Record{}, err
	}

	rounds, err := s.loadRounds(ctx, playerID)
	if err != nil {
		return calculator.Record{}, err
	}

	pending, err := s.loadPending(ctx, playerID)
	if err != nil {
		return calculator.Record{}, err
	}

	history, err := s.loadHistory(ctx, playerID)
	if err != nil {
		return calculator.Record{}, err
	}

	return calculator.Record{
		PlayerID: playerID,
		Rounds:   rounds,
		Pending:  pending,
		Summary:  player.Summary,
		History:  history,
	}, nil
}
