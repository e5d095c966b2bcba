package calculator

import (
	"time"

	"github.com/mmynk/handicap/internal/models"
)

// Effect is a persistence step produced by the engine. Effects are applied
// in order, inside one transaction, by the caller.
type Effect interface {
	effect()
}

// AppendRound records a new eighteen-hole round.
type AppendRound struct{ Round models.Round }

// ReplaceRound overwrites a recorded round.
type ReplaceRound struct{ Round models.Round }

// DeleteRound deletes a recorded round.
type DeleteRound struct{ RoundID string }

// StagePendingNine stores a nine-hole round awaiting a partner.
type StagePendingNine struct{ Round models.NineHoleRound }

// ClearPendingNine deletes the staged nine-hole round.
type ClearPendingNine struct{ RoundID string }

// AppendIndexEntry adds a (date, index) pair to the rolling history.
type AppendIndexEntry struct{ Entry models.IndexEntry }

// ReviseIndexEntry rewrites the index of one history entry.
type ReviseIndexEntry struct {
	EntryID string
	Index   float64
}

// PruneIndexHistory deletes history entries dated before Before.
type PruneIndexHistory struct{ Before time.Time }

// UpdateSummary persists the player's index and low index.
type UpdateSummary struct{ Summary models.Summary }

func (AppendRound) effect() {}
func (ReplaceRound) effect() {}
func (DeleteRound) effect() {}
func (StagePendingNine) effect() {}
func (ClearPendingNine) effect() {}
func (AppendIndexEntry) effect() {}
func (ReviseIndexEntry) effect() {}
func (PruneIndexHistory) effect() {}
func (UpdateSummary) effect() {}
