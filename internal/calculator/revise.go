package calculator

import (
	"fmt"

	"github.com/mmynk/handicap/internal/models"
)

// ReviseRound replaces a recorded round, recomputing its differential and
// the index. The first history entry dated on the round's previous play
// date takes the new index.
func ReviseRound(rec Record, revised models.Round) (Outcome, error) {
	if revised.Holes != 18 {
		return Outcome{}, fmt.Errorf("%w: recorded rounds are 18 holes, got %d", ErrUnsupportedHoles, revised.Holes)
	}

	next := rec.clone()
	pos := findRound(next.Rounds, revised.ID)
	if pos < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrRoundNotFound, revised.ID)
	}
	previous := next.Rounds[pos]

	revised.Differential = Differential(float64(revised.AdjustedScore), revised.CourseRating, revised.Slope)
	next.Rounds[pos] = revised

	out := Outcome{
		Disposition: Revised,
		Round:       revised,
		Effects:     []Effect{ReplaceRound{Round: revised}},
	}

	res, err := ComputeIndex(next.Rounds, next.Summary.Low)
	if err != nil {
		return Outcome{}, err
	}
	if res.Rated {
		for i := range next.History {
			if next.History[i].Date.Equal(previous.Played) {
				next.History[i].Index = res.Index
				out.Effects = append(out.Effects, ReviseIndexEntry{EntryID: next.History[i].ID, Index: res.Index})
				break
			}
		}
	}

	return settle(out, next, res), nil
}

// RemoveRound deletes a recorded round and recomputes the index. Dropping
// below twenty rounds clears the low index.
func RemoveRound(rec Record, roundID string) (Outcome, error) {
	next := rec.clone()
	pos := findRound(next.Rounds, roundID)
	if pos < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	removed := next.Rounds[pos]
	next.Rounds = append(next.Rounds[:pos], next.Rounds[pos+1:]...)

	if len(next.Rounds) < LowIndexMinimum {
		next.Summary.Low = nil
	}

	out := Outcome{
		Disposition: Removed,
		Round:       removed,
		Effects:     []Effect{DeleteRound{RoundID: roundID}},
	}

	res, err := ComputeIndex(next.Rounds, next.Summary.Low)
	if err != nil {
		return Outcome{}, err
	}
	return settle(out, next, res), nil
}

// settle stores the recalculated summary on next and records it as the
// final effect of out.
func settle(out Outcome, next Record, res Result) Outcome {
	next.Summary = models.Summary{Low: res.Low}
	if res.Rated {
		index := res.Index
		next.Summary.HandicapIndex = &index
		out.Rated = true
		out.Index = index
	}
	out.Effects = append(out.Effects, UpdateSummary{Summary: next.Summary})
	out.Record = next
	return out
}

func findRound(rounds []models.Round, id string) int {
	for i, r := range rounds {
		if r.ID == id {
			return i
		}
	}
	return -1
}
