package calculator

import (
	"fmt"
	"math"
	"time"

	"github.com/mmynk/handicap/internal/models"
)

// Pending is the nine-hole staging slot of a record: NoPending or PendingNine.
type Pending interface {
	pending()
}

// NoPending means no nine-hole round is waiting.
type NoPending struct{}

// PendingNine holds the nine-hole round waiting for a partner.
type PendingNine struct {
	Round models.NineHoleRound
}

func (NoPending) pending() {}
func (PendingNine) pending() {}

// Record is an in-memory snapshot of one player's scoring record.
type Record struct {
	PlayerID string

	// Rounds are the recorded rounds in the order they were recorded.
	Rounds []models.Round

	Pending Pending
	Summary models.Summary

	// History is the rolling index history in the order it was recorded.
	History []models.IndexEntry
}

// clone copies the slices of r so a new state never aliases the old one.
func (r Record) clone() Record {
	out := r
	out.Rounds = append([]models.Round(nil), r.Rounds...)
	out.History = append([]models.IndexEntry(nil), r.History...)
	if out.Pending == nil {
		out.Pending = NoPending{}
	}
	if r.Summary.HandicapIndex != nil {
		v := *r.Summary.HandicapIndex
		out.Summary.HandicapIndex = &v
	}
	if r.Summary.Low != nil {
		low := *r.Summary.Low
		out.Summary.Low = &low
	}
	return out
}

// Disposition describes what happened to a submitted round.
type Disposition string

const (
	Recorded Disposition = "recorded" // eighteen holes, appended as submitted
	Staged   Disposition = "staged"   // nine holes, waiting for a partner
	Merged   Disposition = "merged"   // nine holes, combined with the staged nine
	Inflated Disposition = "inflated" // nine holes, doubled to an eighteen-hole equivalent
	Revised  Disposition = "revised"
	Removed  Disposition = "removed"
)

// Outcome is the result of a workflow step: the new record, the effects
// that persist it and the resulting index.
type Outcome struct {
	Record  Record
	Effects []Effect

	// Rated is false while fewer than three rounds exist.
	Rated bool
	Index float64

	Disposition Disposition

	// Round is the round that was recorded; zero when the submission was staged.
	Round models.Round

	// Discount is the exceptional-score reduction applied, 0, 1 or 2.
	Discount float64

	// LowReset is set when the low index changed during the step.
	LowReset LowReset
}

// LowReset names why the low index changed.
type LowReset string

const (
	LowUnchanged   LowReset = ""
	LowEstablished LowReset = "established"
	LowExpired     LowReset = "expired"
	LowImproved    LowReset = "improved"
)

// AddRound applies one submitted round to the record.
//
// Eighteen-hole rounds are appended directly. A nine-hole round is merged
// with the staged nine when there is one, staged when fewer than three
// rounds exist, and otherwise inflated to an eighteen-hole equivalent.
// Once a round is appended the index is recalculated, the history is
// extended and pruned to 52 weeks, and from twenty rounds on the low index
// is refreshed and exceptional scores are discounted.
func AddRound(rec Record, submitted models.Round) (Outcome, error) {
	next := rec.clone()
	out := Outcome{}

	var round models.Round
	switch submitted.Holes {
	case 18:
		round = submitted
		round.Differential = Differential(float64(round.AdjustedScore), round.CourseRating, round.Slope)
		out.Disposition = Recorded
	case 9:
		if staged, ok := next.Pending.(PendingNine); ok {
			round = mergeNines(staged.Round, submitted)
			next.Pending = NoPending{}
			out.Effects = append(out.Effects, ClearPendingNine{RoundID: staged.Round.ID})
			out.Disposition = Merged
		} else if len(next.Rounds) < RatedMinimum {
			nine := models.NineHoleRound{
				ID:            submitted.ID,
				Played:        submitted.Played,
				CourseRating:  submitted.CourseRating,
				Slope:         submitted.Slope,
				AdjustedScore: submitted.AdjustedScore,
				Course:        submitted.Course,
			}
			next.Pending = PendingNine{Round: nine}
			out.Record = next
			out.Effects = []Effect{StagePendingNine{Round: nine}}
			out.Disposition = Staged
			return out, nil
		} else {
			round = inflateNine(submitted)
			out.Disposition = Inflated
		}
	default:
		return Outcome{}, fmt.Errorf("%w: got %d", ErrUnsupportedHoles, submitted.Holes)
	}

	next.Rounds = append(next.Rounds, round)
	out.Round = round
	out.Effects = append(out.Effects, AppendRound{Round: round})

	res, err := ComputeIndex(next.Rounds, next.Summary.Low)
	if err != nil {
		return Outcome{}, err
	}
	if !res.Rated {
		next.Summary = models.Summary{}
		out.Record = next
		out.Effects = append(out.Effects, UpdateSummary{Summary: next.Summary})
		return out, nil
	}
	if next.Summary.Low == nil && res.Low != nil {
		out.LowReset = LowEstablished
	}
	low := res.Low
	index := res.Index

	entry := models.IndexEntry{Date: round.Played, Index: index}
	next.History = pruneHistory(append(next.History, entry), round.Played)
	out.Effects = append(out.Effects,
		AppendIndexEntry{Entry: entry},
		PruneIndexHistory{Before: round.Played.Add(-HistoryWindow)},
	)

	if len(next.Rounds) >= LowIndexMinimum {
		low = &models.LowIndex{Value: low.Value, Date: low.Date}

		if absDuration(round.Played.Sub(low.Date)) > HistoryWindow {
			lowest := lowestEntry(next.History)
			low.Value, low.Date = lowest.Index, lowest.Date
			out.LowReset = LowExpired
		}

		out.Discount = exceptionalDiscount(round.Differential, index)
		index = round1(index - out.Discount)

		if index < low.Value {
			low.Value, low.Date = index, round.Played
			out.LowReset = LowImproved
		}
	}

	next.Summary = models.Summary{HandicapIndex: &index, Low: low}
	out.Effects = append(out.Effects, UpdateSummary{Summary: next.Summary})
	out.Record = next
	out.Rated = true
	out.Index = index
	return out, nil
}

// mergeNines combines the staged nine with a second nine into one
// eighteen-hole round dated on the second nine.
func mergeNines(first models.NineHoleRound, second models.Round) models.Round {
	rating := first.CourseRating + second.CourseRating
	slope := roundSlope(float64(first.Slope+second.Slope) / 2)
	score := first.AdjustedScore + second.AdjustedScore
	return models.Round{
		ID:            second.ID,
		Played:        second.Played,
		Holes:         18,
		CourseRating:  rating,
		Slope:         slope,
		AdjustedScore: score,
		Course:        fmt.Sprintf("Front 9: %s, back 9: %s.", first.Course, second.Course),
		Differential:  Differential(float64(score), rating, slope),
	}
}

// inflateNine doubles a nine-hole round into an eighteen-hole equivalent,
// adding one stroke for the unplayed nine.
func inflateNine(nine models.Round) models.Round {
	rating := nine.CourseRating * 2
	score := float64(nine.AdjustedScore)*2 + 1
	return models.Round{
		ID:            nine.ID,
		Played:        nine.Played,
		Holes:         18,
		CourseRating:  rating,
		Slope:         nine.Slope,
		AdjustedScore: int(score),
		Course:        fmt.Sprintf("9 holes converted to 18: %s.", nine.Course),
		Differential:  Differential(score, rating, nine.Slope),
	}
}

// roundSlope rounds an averaged slope to the nearest integer, halves away from zero.
func roundSlope(avg float64) int {
	return int(math.Round(avg))
}

// exceptionalDiscount returns the reduction for a round whose differential
// beats the index by 7.0 or more.
func exceptionalDiscount(differential, index float64) float64 {
	delta := round1(differential - index)
	switch {
	case delta >= 10:
		return 2.0
	case delta >= 7.0:
		return 1.0
	default:
		return 0
	}
}

// pruneHistory keeps entries dated no more than 52 weeks before ref.
func pruneHistory(history []models.IndexEntry, ref time.Time) []models.IndexEntry {
	kept := history[:0:0]
	for _, e := range history {
		if withinWindow(ref, e.Date) {
			kept = append(kept, e)
		}
	}
	return kept
}

// lowestEntry returns the first entry holding the minimum index.
func lowestEntry(history []models.IndexEntry) models.IndexEntry {
	lowest := history[0]
	for _, e := range history[1:] {
		if e.Index < lowest.Index {
			lowest = e
		}
	}
	return lowest
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
