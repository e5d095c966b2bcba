package service

import (
	"context"
	"fmt"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/storage"
)

// applyEffects persists engine effects in order. The first failure aborts
// the remaining effects.
func applyEffects(ctx context.Context, tx storage.RoundHistory, playerID string, effects []calculator.Effect) error {
	for _, effect := range effects {
		var err error
		switch e := effect.(type) {
		case calculator.AppendRound:
			round := e.Round
			err = tx.AppendRound(ctx, playerID, &round)
		case calculator.ReplaceRound:
			err = tx.UpdateRound(ctx, playerID, e.Round)
		case calculator.DeleteRound:
			err = tx.DeleteRound(ctx, playerID, e.RoundID)
		case calculator.StagePendingNine:
			nine := e.Round
			err = tx.AppendPendingNine(ctx, playerID, &nine)
		case calculator.ClearPendingNine:
			err = tx.DeletePendingNine(ctx, playerID, e.RoundID)
		case calculator.AppendIndexEntry:
			entry := e.Entry
			err = tx.AppendIndexEntry(ctx, playerID, &entry)
		case calculator.ReviseIndexEntry:
			err = tx.UpdateIndexEntry(ctx, playerID, e.EntryID, e.Index)
		case calculator.PruneIndexHistory:
			err = tx.PruneIndexHistory(ctx, playerID, e.Before)
		case calculator.UpdateSummary:
			err = tx.UpdatePlayerSummary(ctx, playerID, e.Summary)
		default:
			err = fmt.Errorf("%w: unknown effect", calculator.ErrInvariantViolation)
		}
		if err != nil {
			return fmt.Errorf("apply %T: %w", effect, err)
		}
	}
	return nil
}
