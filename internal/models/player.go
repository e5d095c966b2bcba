package models

import "time"

// Player represents a golfer whose rounds are tracked.
type Player struct {
	// ID is the unique identifier for the player (UUID format).
	ID string

	// Name is the display name of the player.
	Name string

	// Email is an optional contact address (unique when set).
	Email string

	// Summary holds the persisted handicap fields.
	Summary Summary

	// CreatedAt is the Unix timestamp when the player was created.
	CreatedAt int64
}

// NewPlayer creates a new Player with the creation timestamp set.
// The ID is assigned by the store.
func NewPlayer(name, email string) *Player {
	return &Player{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().Unix(),
	}
}

// Summary is the per-player handicap state persisted alongside the player.
type Summary struct {
	// HandicapIndex is nil until the player has three rounds.
	HandicapIndex *float64

	// Low is nil until the player has twenty rounds.
	Low *LowIndex
}

// LowIndex is the lowest handicap index attained in the trailing 52 weeks.
type LowIndex struct {
	Value float64
	Date  time.Time
}

// Rated reports whether the summary carries a handicap index.
func (s Summary) Rated() bool {
	return s.HandicapIndex != nil
}
