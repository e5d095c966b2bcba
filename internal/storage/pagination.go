package storage

import "fmt"

// DefaultPerPage is the number of rounds shown per page when unset.
const DefaultPerPage = 5

// PageRequest selects one page of a player's rounds.
type PageRequest struct {
	Page    int
	PerPage int

	// Ascending lists the oldest rounds first; the default is most recent first.
	Ascending bool
}

// Normalize fills the default page size and validates the page number
// against total rows. Pages start at 1; page 1 is always valid, even for an
// empty history.
func (r PageRequest) Normalize(total int) (PageRequest, int, error) {
	if r.PerPage <= 0 {
		r.PerPage = DefaultPerPage
	}
	pages := (total + r.PerPage - 1) / r.PerPage
	if r.Page < 1 || (r.Page > pages && r.Page != 1) {
		return r, pages, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, r.Page, pages)
	}
	return r, pages, nil
}

// Offset returns the number of rows preceding the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Navigation edge widths used for round listings.
const (
	leftEdge     = 4
	leftCurrent  = 1
	rightCurrent = 2
	rightEdge    = 1
)

// PageLinks returns the page numbers to offer for navigation around page.
// It always shows the first four pages, the last page and a band from one
// before to two after the current page; a 0 marks each elided run.
func PageLinks(page, pages int) []int {
	var links []int
	end := pages + 1
	if end == 1 {
		return links
	}

	leftEnd := min(1+leftEdge, end)
	for p := 1; p < leftEnd; p++ {
		links = append(links, p)
	}
	if leftEnd == end {
		return links
	}

	midStart := max(leftEnd, page-leftCurrent)
	midEnd := min(page+rightCurrent+1, end)
	if midStart-leftEnd > 0 {
		links = append(links, 0)
	}
	for p := midStart; p < midEnd; p++ {
		links = append(links, p)
	}
	if midEnd == end {
		return links
	}

	rightStart := max(midEnd, end-rightEdge)
	if rightStart-midEnd > 0 {
		links = append(links, 0)
	}
	for p := rightStart; p < end; p++ {
		links = append(links, p)
	}
	return links
}
