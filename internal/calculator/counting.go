package calculator

import (
	"sort"

	"github.com/mmynk/handicap/internal/models"
)

// Window describes which rounds feed the index: the Count lowest
// differentials among the Size most recently played rounds.
type Window struct {
	Size  int
	Count int
}

// CountingRound is a round that contributes to the handicap index.
type CountingRound struct {
	Round models.Round

	// Rank is the round's 1-based position in the window, most recent first.
	Rank int

	// WindowSize is the number of rounds the window considered.
	WindowSize int
}

// WindowFor returns the selection window for the given number of rounds
// played. It reports false when fewer than three rounds exist.
func WindowFor(roundsPlayed int) (Window, bool) {
	switch {
	case roundsPlayed < RatedMinimum:
		return Window{}, false
	case roundsPlayed < 6:
		return Window{Size: roundsPlayed, Count: 1}, true
	case roundsPlayed < 9:
		return Window{Size: roundsPlayed, Count: 2}, true
	case roundsPlayed < 12:
		return Window{Size: roundsPlayed, Count: 3}, true
	case roundsPlayed < 15:
		return Window{Size: roundsPlayed, Count: 4}, true
	case roundsPlayed < 17:
		return Window{Size: roundsPlayed, Count: 5}, true
	case roundsPlayed < 19:
		return Window{Size: roundsPlayed, Count: 6}, true
	case roundsPlayed < LowIndexMinimum:
		return Window{Size: roundsPlayed, Count: 7}, true
	default:
		return Window{Size: 20, Count: 8}, true
	}
}

// byRecency returns a copy of rounds ordered most recent first. Rounds
// played on the same day keep their recorded order.
func byRecency(rounds []models.Round) []models.Round {
	sorted := make([]models.Round, len(rounds))
	copy(sorted, rounds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Played.After(sorted[j].Played)
	})
	return sorted
}

// SelectCountingRounds returns the rounds counting towards the index,
// ordered by play date, most recent first. It returns nil when fewer than
// three rounds exist. Ties between equal differentials keep window order.
//
// Both the index calculation and counting-round display go through here.
func SelectCountingRounds(rounds []models.Round) []CountingRound {
	window, ok := WindowFor(len(rounds))
	if !ok {
		return nil
	}

	recent := byRecency(rounds)[:window.Size]

	ranked := make([]CountingRound, len(recent))
	for i, r := range recent {
		ranked[i] = CountingRound{Round: r, Rank: i + 1, WindowSize: window.Size}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Round.Differential < ranked[j].Round.Differential
	})
	best := ranked[:window.Count]

	// Restore play-date order for display.
	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Round.Played.After(best[j].Round.Played)
	})
	return best
}
