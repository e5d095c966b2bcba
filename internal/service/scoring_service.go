// Package service runs the handicap engine against stored player records.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/metrics"
	"github.com/mmynk/handicap/internal/models"
	"github.com/mmynk/handicap/internal/storage"
)

// ErrInvalidInput is returned when a request fails validation before it
// reaches the engine.
var ErrInvalidInput = errors.New("invalid input")

// ScoringService records rounds and reports handicap indexes.
type ScoringService struct {
	store   storage.Store
	metrics metrics.Recorder
	perPage int
	locks   *playerLocks
}

// Option configures a ScoringService.
type Option func(*ScoringService)

// WithMetrics sets the recorder for scoring events.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *ScoringService) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithPerPage sets the default page size for round listings.
func WithPerPage(n int) Option {
	return func(s *ScoringService) {
		if n > 0 {
			s.perPage = n
		}
	}
}

// NewScoringService creates a new ScoringService with the given storage backend.
func NewScoringService(store storage.Store, opts ...Option) *ScoringService {
	s := &ScoringService{
		store:   store,
		metrics: metrics.Nop{},
		perPage: storage.DefaultPerPage,
		locks:   newPlayerLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RoundResult reports what a round submission, revision or removal did.
type RoundResult struct {
	Disposition calculator.Disposition

	// Round is the recorded round. It is zero for a staged nine.
	Round models.Round

	// Rated is false while the player has fewer than three rounds.
	Rated bool
	Index float64

	// Discount is the exceptional-score reduction applied to Index.
	Discount float64
	LowReset calculator.LowReset
	Summary  models.Summary
}

func newRoundResult(out calculator.Outcome) *RoundResult {
	return &RoundResult{
		Disposition: out.Disposition,
		Round:       out.Round,
		Rated:       out.Rated,
		Index:       out.Index,
		Discount:    out.Discount,
		LowReset:    out.LowReset,
		Summary:     out.Record.Summary,
	}
}

// AddRound submits a round played by the player. Nine-hole rounds may be
// staged, merged with a staged nine or inflated to eighteen holes.
func (s *ScoringService) AddRound(ctx context.Context, playerID string, round models.Round) (*RoundResult, error) {
	if err := validateRound(round); err != nil {
		return nil, err
	}
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	round.Played = models.Day(round.Played)

	slog.Debug("AddRound request received",
		"player_id", playerID,
		"holes", round.Holes,
		"played", round.Played.Format(models.DateLayout),
	)

	out, err := s.mutate(ctx, "add_round", playerID, func(rec calculator.Record) (calculator.Outcome, error) {
		return calculator.AddRound(rec, round)
	})
	if err != nil {
		return nil, err
	}

	s.recordOutcome(out)
	logOutcome(playerID, out)
	if prior := len(out.Record.Rounds) - 1; out.Disposition == calculator.Merged && prior >= calculator.RatedMinimum {
		slog.Warn("Merged a nine-hole round staged before the rating minimum",
			"player_id", playerID,
			"round_id", out.Round.ID,
			"prior_rounds", prior,
		)
	}
	return newRoundResult(out), nil
}

// ReviseRound replaces a recorded round and recalculates the index.
func (s *ScoringService) ReviseRound(ctx context.Context, playerID string, round models.Round) (*RoundResult, error) {
	if round.ID == "" {
		return nil, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}
	if err := validateRound(round); err != nil {
		return nil, err
	}
	round.Played = models.Day(round.Played)

	out, err := s.mutate(ctx, "revise_round", playerID, func(rec calculator.Record) (calculator.Outcome, error) {
		return calculator.ReviseRound(rec, round)
	})
	if err != nil {
		return nil, err
	}

	s.recordOutcome(out)
	logOutcome(playerID, out)
	return newRoundResult(out), nil
}

// RemoveRound deletes a recorded round and recalculates the index.
func (s *ScoringService) RemoveRound(ctx context.Context, playerID, roundID string) (*RoundResult, error) {
	if roundID == "" {
		return nil, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	out, err := s.mutate(ctx, "remove_round", playerID, func(rec calculator.Record) (calculator.Outcome, error) {
		return calculator.RemoveRound(rec, roundID)
	})
	if err != nil {
		return nil, err
	}

	s.recordOutcome(out)
	logOutcome(playerID, out)
	return newRoundResult(out), nil
}

// ImportRounds submits rounds in order. It stops at the first failure and
// returns the results of the rounds submitted before it.
func (s *ScoringService) ImportRounds(ctx context.Context, playerID string, rounds []models.Round) ([]*RoundResult, error) {
	results := make([]*RoundResult, 0, len(rounds))
	for i, r := range rounds {
		res, err := s.AddRound(ctx, playerID, r)
		if err != nil {
			return results, fmt.Errorf("round %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	slog.Info("Rounds imported", "player_id", playerID, "count", len(results))
	return results, nil
}

// HandicapIndex recomputes the player's index from the stored rounds alone.
// The exceptional-score reduction of the latest round is not part of it.
func (s *ScoringService) HandicapIndex(ctx context.Context, playerID string) (calculator.Result, error) {
	rec, err := s.store.LoadRecord(ctx, playerID)
	if err != nil {
		return calculator.Result{}, err
	}

	res, err := calculator.ComputeIndex(rec.Rounds, rec.Summary.Low)
	if err != nil {
		slog.Warn("HandicapIndex failed", "player_id", playerID, "error", err)
		return calculator.Result{}, err
	}
	return res, nil
}

// CountingRounds returns the rounds currently counting toward the index,
// most recent first.
func (s *ScoringService) CountingRounds(ctx context.Context, playerID string) ([]calculator.CountingRound, error) {
	rec, err := s.store.LoadRecord(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return calculator.SelectCountingRounds(rec.Rounds), nil
}

// ScorePage returns one page of the player's rounds. Pages start at 1; an
// unset PerPage takes the service default.
func (s *ScoringService) ScorePage(ctx context.Context, playerID string, req storage.PageRequest) (*models.RoundPage, error) {
	if req.PerPage == 0 {
		req.PerPage = s.perPage
	}
	return s.store.RoundPage(ctx, playerID, req)
}

// mutate runs one engine step for the player: it loads the record, applies
// step and persists the resulting effects in a single transaction.
func (s *ScoringService) mutate(ctx context.Context, op, playerID string, step func(calculator.Record) (calculator.Outcome, error)) (calculator.Outcome, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(op, time.Since(start))
	}()

	unlock := s.locks.lock(playerID)
	defer unlock()

	var out calculator.Outcome
	err := s.store.InPlayerTx(ctx, playerID, func(ctx context.Context, tx storage.RoundHistory) error {
		rec, err := tx.LoadRecord(ctx, playerID)
		if err != nil {
			return err
		}
		out, err = step(rec)
		if err != nil {
			return err
		}
		return applyEffects(ctx, tx, playerID, out.Effects)
	})
	if err != nil {
		s.metrics.RecordOperationFailure(op)
		logFailure(op, playerID, err)
		return calculator.Outcome{}, err
	}
	return out, nil
}

func (s *ScoringService) recordOutcome(out calculator.Outcome) {
	s.metrics.RecordRound(string(out.Disposition))
	if out.Discount > 0 {
		s.metrics.RecordDiscount(out.Discount)
	}
	if out.LowReset != calculator.LowUnchanged {
		s.metrics.RecordLowReset(string(out.LowReset))
	}
}

func logOutcome(playerID string, out calculator.Outcome) {
	attrs := []any{
		"player_id", playerID,
		"disposition", out.Disposition,
	}
	if out.Round.ID != "" {
		attrs = append(attrs, "round_id", out.Round.ID, "differential", out.Round.Differential)
	}
	if out.Rated {
		attrs = append(attrs, "index", out.Index)
	}
	if out.Discount > 0 {
		attrs = append(attrs, "discount", out.Discount)
	}
	if out.LowReset != calculator.LowUnchanged {
		attrs = append(attrs, "low_reset", out.LowReset)
	}
	slog.Info("Round "+string(out.Disposition), attrs...)
}

func logFailure(op, playerID string, err error) {
	switch {
	case errors.Is(err, calculator.ErrInvariantViolation):
		slog.Warn(op+" failed: inconsistent record", "player_id", playerID, "error", err)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, calculator.ErrRoundNotFound),
		errors.Is(err, calculator.ErrUnsupportedHoles):
		slog.Info(op+" rejected", "player_id", playerID, "error", err)
	default:
		slog.Error(op+" failed", "player_id", playerID, "error", err)
	}
}

// validateRound rejects values the differential formula cannot use.
func validateRound(r models.Round) error {
	switch {
	case r.Played.IsZero():
		return fmt.Errorf("%w: play date is required", ErrInvalidInput)
	case r.Slope <= 0:
		return fmt.Errorf("%w: slope must be positive, got %d", ErrInvalidInput, r.Slope)
	case r.CourseRating <= 0:
		return fmt.Errorf("%w: course rating must be positive, got %.1f", ErrInvalidInput, r.CourseRating)
	case r.AdjustedScore <= 0:
		return fmt.Errorf("%w: adjusted score must be positive, got %d", ErrInvalidInput, r.AdjustedScore)
	}
	return nil
}
