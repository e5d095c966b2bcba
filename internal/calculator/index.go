package calculator

import (
	"fmt"

	"github.com/mmynk/handicap/internal/models"
)

// Result is the outcome of an index calculation.
type Result struct {
	// Rated is false when fewer than three rounds exist; Index is then zero.
	Rated bool

	// Index is the handicap index, rounded to one decimal and at most 54.
	Index float64

	// Low is the low index in effect after the calculation. It is the
	// freshly established baseline when exactly twenty rounds exist,
	// otherwise the low index passed in.
	Low *models.LowIndex

	// Counting are the rounds whose differentials were averaged.
	Counting []CountingRound
}

// smallSampleAdjustment returns the fixed adjustment applied while fewer
// than twenty rounds exist.
func smallSampleAdjustment(roundsPlayed int) float64 {
	switch roundsPlayed {
	case 3:
		return -2.0
	case 4, 6:
		return -1.0
	default:
		return 0
	}
}

// ComputeIndex calculates the handicap index over rounds.
//
// Algorithm:
//   - Average the counting differentials and round to one decimal
//   - Fewer than 20 rounds: apply the small-sample adjustment
//   - Exactly 20 rounds and no low index yet: establish it at the current
//     index, dated at the most recently played round
//   - 20 or more rounds: compress any rise above low+3 by half, then
//     clamp at low+5
//   - Clamp at 54
//
// With twenty-one or more rounds a nil low index is an invariant violation.
func ComputeIndex(rounds []models.Round, low *models.LowIndex) (Result, error) {
	counting := SelectCountingRounds(rounds)
	if counting == nil {
		return Result{Low: low}, nil
	}

	var sum float64
	for _, c := range counting {
		sum += c.Round.Differential
	}
	index := round1(sum / float64(len(counting)))

	played := len(rounds)
	if played == LowIndexMinimum && low == nil {
		low = &models.LowIndex{Value: index, Date: byRecency(rounds)[0].Played}
	}

	if played >= LowIndexMinimum {
		if low == nil {
			return Result{}, fmt.Errorf("%w: %d rounds recorded without a low handicap index", ErrInvariantViolation, played)
		}
		index = applyCaps(index, low.Value)
	} else {
		index = round1(index + smallSampleAdjustment(played))
	}

	if index > MaxHandicapIndex {
		index = MaxHandicapIndex
	}

	return Result{Rated: true, Index: index, Low: low, Counting: counting}, nil
}

// applyCaps limits upward movement relative to the low index: the soft cap
// halves any excess above low+3 and the hard cap stops at low+5.
func applyCaps(index, low float64) float64 {
	if round1(index-low) > 3 {
		index += (index - (low + 3)) / 2
	}
	if index-low > 5 {
		index = low + 5
	}
	return round1(index)
}
