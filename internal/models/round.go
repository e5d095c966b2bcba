package models

import "time"

// DateLayout is the display and import format for play dates.
const DateLayout = "02-01-2006"

// Round represents one recorded score. Recorded rounds are always eighteen
// holes or an eighteen-hole equivalent built from nine-hole scores.
type Round struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// Played is the calendar day the round was played.
	Played time.Time

	// Holes is 18 for recorded rounds, or 9 for a submission not yet merged.
	Holes int

	// CourseRating is the rating of the tees played.
	CourseRating float64

	// Slope is the slope rating of the tees played.
	Slope int

	// AdjustedScore is the adjusted gross score.
	AdjustedScore int

	// Course is the course name.
	Course string

	// Differential is (AdjustedScore - CourseRating) * 113 / Slope.
	Differential float64
}

// NineHoleRound is a nine-hole score waiting for a second nine.
type NineHoleRound struct {
	ID            string
	Played        time.Time
	CourseRating  float64
	Slope         int
	AdjustedScore int
	Course        string
}

// IndexEntry is one (date, index) pair of a player's rolling index history.
type IndexEntry struct {
	ID    string
	Date  time.Time
	Index float64
}

// Day truncates t to a calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DD-MM-YYYY date, falling back to YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	if iso, isoErr := time.Parse(time.DateOnly, s); isoErr == nil {
		return iso, nil
	}
	return time.Time{}, err
}
