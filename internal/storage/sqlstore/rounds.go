package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/handicap/internal/calculator"
	"github.com/mmynk/handicap/internal/models"
	"github.com/mmynk/handicap/internal/storage"
)

const roundColumns = `id, played, holes, course_rating, course_slope, adjusted_score, course, score_differential`

// AppendRound persists a new round after the player's existing rounds.
func (s *queries) AppendRound(ctx context.Context, playerID string, round *models.Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	var seq int64
	err := s.queryRow(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM rounds WHERE player_id = ?`, playerID).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to allocate round sequence: %w", err)
	}

	query := `
		INSERT INTO rounds (id, player_id, seq, played, holes, course_rating, course_slope, adjusted_score, course, score_differential)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.exec(ctx, query,
		round.ID,
		playerID,
		seq,
		formatDate(round.Played),
		round.Holes,
		round.CourseRating,
		round.Slope,
		round.AdjustedScore,
		round.Course,
		round.Differential,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

// UpdateRound overwrites a recorded round, keeping its position.
func (s *queries) UpdateRound(ctx context.Context, playerID string, round models.Round) error {
	query := `
		UPDATE rounds
		SET played = ?, holes = ?, course_rating = ?, course_slope = ?, adjusted_score = ?, course = ?, score_differential = ?
		WHERE id = ? AND player_id = ?
	`
	res, err := s.exec(ctx, query,
		formatDate(round.Played),
		round.Holes,
		round.CourseRating,
		round.Slope,
		round.AdjustedScore,
		round.Course,
		round.Differential,
		round.ID,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	return requireAffected(res, "round", round.ID)
}

// DeleteRound removes a recorded round.
func (s *queries) DeleteRound(ctx context.Context, playerID, roundID string) error {
	res, err := s.exec(ctx, `DELETE FROM rounds WHERE id = ? AND player_id = ?`, roundID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return requireAffected(res, "round", roundID)
}

// loadRounds returns the player's rounds in insertion order.
func (s *queries) loadRounds(ctx context.Context, playerID string) ([]models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE player_id = ? ORDER BY seq`
	return s.scanRounds(ctx, query, playerID)
}

func (s *queries) scanRounds(ctx context.Context, query string, args ...any) ([]models.Round, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		var (
			r      models.Round
			played string
		)
		if err := rows.Scan(
			&r.ID,
			&played,
			&r.Holes,
			&r.CourseRating,
			&r.Slope,
			&r.AdjustedScore,
			&r.Course,
			&r.Differential,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if r.Played, err = parseDate(played); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	return rounds, nil
}

// RoundPage returns one page of the player's rounds ordered by play date.
func (s *SQLStore) RoundPage(ctx context.Context, playerID string, req storage.PageRequest) (*models.RoundPage, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	var total int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM rounds WHERE player_id = ?`, playerID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rounds: %w", err)
	}

	req, pages, err := req.Normalize(total)
	if err != nil {
		return nil, err
	}

	order := "played DESC, seq DESC"
	if req.Ascending {
		order = "played ASC, seq ASC"
	}
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE player_id = ? ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rounds, err := s.scanRounds(ctx, query, playerID, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}

	return &models.RoundPage{
		Rounds:  rounds,
		Page:    req.Page,
		PerPage: req.PerPage,
		Total:   total,
		Pages:   pages,
		Links:   storage.PageLinks(req.Page, pages),
	}, nil
}

// AppendPendingNine stores the player's staged nine-hole round. A second
// pending nine for the same player is rejected.
func (s *queries) AppendPendingNine(ctx context.Context, playerID string, round *models.NineHoleRound) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	var count int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM pending_nines WHERE player_id = ?`, playerID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count pending nines: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: player %s already has a pending nine-hole round", calculator.ErrInvariantViolation, playerID)
	}

	query := `
		INSERT INTO pending_nines (id, player_id, played, course_rating, course_slope, adjusted_score, course)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, query,
		round.ID,
		playerID,
		formatDate(round.Played),
		round.CourseRating,
		round.Slope,
		round.AdjustedScore,
		round.Course,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pending nine: %w", err)
	}
	return nil
}

// DeletePendingNine removes the staged nine-hole round.
func (s *queries) DeletePendingNine(ctx context.Context, playerID, roundID string) error {
	res, err := s.exec(ctx, `DELETE FROM pending_nines WHERE id = ? AND player_id = ?`, roundID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete pending nine: %w", err)
	}
	return requireAffected(res, "pending nine", roundID)
}

// loadPending returns the staged nine, failing if more than one exists.
func (s *queries) loadPending(ctx context.Context, playerID string) (calculator.Pending, error) {
	query := `
		SELECT id, played, course_rating, course_slope, adjusted_score, course
		FROM pending_nines
		WHERE player_id = ?
	`
	rows, err := s.query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending nines: %w", err)
	}
	defer rows.Close()

	var nines []models.NineHoleRound
	for rows.Next() {
		var (
			n      models.NineHoleRound
			played string
		)
		if err := rows.Scan(&n.ID, &played, &n.CourseRating, &n.Slope, &n.AdjustedScore, &n.Course); err != nil {
			return nil, fmt.Errorf("failed to scan pending nine: %w", err)
		}
		if n.Played, err = parseDate(played); err != nil {
			return nil, err
		}
		nines = append(nines, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending nines: %w", err)
	}

	switch len(nines) {
	case 0:
		return calculator.NoPending{}, nil
	case 1:
		return calculator.PendingNine{Round: nines[0]}, nil
	default:
		return nil, fmt.Errorf("%w: player %s has %d pending nine-hole rounds", calculator.ErrInvariantViolation, playerID, len(nines))
	}
}
