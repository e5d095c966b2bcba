package models

// RoundPage is one page of a player's rounds ordered by play date.
type RoundPage struct {
	Rounds  []Round
	Page    int
	PerPage int
	Total   int
	Pages   int

	// Links lists the page numbers to offer for navigation.
	// A zero marks an elided run of pages.
	Links []int
}

// HasPrev reports whether a previous page exists.
func (p RoundPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p RoundPage) HasNext() bool {
	return p.Page < p.Pages
}
