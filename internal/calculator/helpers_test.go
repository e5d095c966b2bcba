package calculator

import (
	"fmt"
	"math"
	"time"

	"github.com/mmynk/handicap/internal/models"
)

var baseDay = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseDay.AddDate(0, 0, n)
}

// scored builds an 18-hole round on a standard-slope course so the
// differential equals the strokes over the rating.
func scored(n int, over int) models.Round {
	return models.Round{
		ID:            fmt.Sprintf("r%02d", n),
		Played:        day(n),
		Holes:         18,
		CourseRating:  72,
		Slope:         StandardSlope,
		AdjustedScore: 72 + over,
		Course:        "Newbattle",
		Differential:  float64(over),
	}
}

// withDifferential builds a recorded round carrying an arbitrary differential.
func withDifferential(n int, diff float64) models.Round {
	r := scored(n, 0)
	r.Differential = diff
	return r
}

// history returns n rounds played on consecutive days, all with the same differential.
func history(n int, over int) []models.Round {
	rounds := make([]models.Round, n)
	for i := range rounds {
		rounds[i] = scored(i, over)
	}
	return rounds
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
