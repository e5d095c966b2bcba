package calculator

import (
	"math"
	"time"
)

const (
	// StandardSlope is the slope rating of a course of standard difficulty.
	StandardSlope = 113

	// MaxHandicapIndex is the highest index the engine reports.
	MaxHandicapIndex = 54.0

	// HistoryWindow is how far back the rolling index history reaches.
	HistoryWindow = 52 * 7 * 24 * time.Hour

	// RatedMinimum is the number of rounds needed before an index exists.
	RatedMinimum = 3

	// LowIndexMinimum is the number of rounds at which the low index is established.
	LowIndexMinimum = 20
)

// Differential computes the course-independent score differential:
// (adjusted gross score - course rating) * 113 / slope rating.
func Differential(adjustedScore float64, courseRating float64, slope int) float64 {
	return (adjustedScore - courseRating) * StandardSlope / float64(slope)
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// withinWindow reports whether then lies no more than HistoryWindow before ref.
// Dates after ref are always within.
func withinWindow(ref, then time.Time) bool {
	return ref.Sub(then) <= HistoryWindow
}
