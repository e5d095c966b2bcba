package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLinks(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		pages int
		want  []int
	}{
		{name: "no pages", page: 1, pages: 0, want: nil},
		{name: "single page", page: 1, pages: 1, want: []int{1}},
		{name: "fits in left edge", page: 2, pages: 4, want: []int{1, 2, 3, 4}},
		{name: "first page of many", page: 1, pages: 12, want: []int{1, 2, 3, 4, 0, 12}},
		{name: "middle page", page: 8, pages: 12, want: []int{1, 2, 3, 4, 0, 7, 8, 9, 10, 0, 12}},
		{name: "band touches left edge", page: 5, pages: 12, want: []int{1, 2, 3, 4, 5, 6, 7, 0, 12}},
		{name: "band reaches the end", page: 10, pages: 12, want: []int{1, 2, 3, 4, 0, 9, 10, 11, 12}},
		{name: "last page", page: 12, pages: 12, want: []int{1, 2, 3, 4, 0, 11, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageLinks(tt.page, tt.pages))
		})
	}
}

func TestPageRequestNormalize(t *testing.T) {
	req, pages, err := PageRequest{Page: 1}.Normalize(12)
	require.NoError(t, err)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPerPage, req.PerPage)
	assert.Equal(t, 3, pages)
	assert.Equal(t, 0, req.Offset())

	req, _, err = PageRequest{Page: 3, PerPage: 5}.Normalize(12)
	require.NoError(t, err)
	assert.Equal(t, 10, req.Offset())

	_, pages, err = PageRequest{Page: 1}.Normalize(0)
	require.NoError(t, err, "page 1 of an empty history is valid")
	assert.Equal(t, 0, pages)

	_, _, err = PageRequest{Page: 4, PerPage: 5}.Normalize(12)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	_, _, err = PageRequest{Page: -1}.Normalize(12)
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	_, _, err = PageRequest{Page: 0}.Normalize(12)
	assert.ErrorIs(t, err, ErrPageOutOfRange, "pages start at 1")

	_, _, err = PageRequest{}.Normalize(0)
	assert.ErrorIs(t, err, ErrPageOutOfRange, "an unset page is not page 1")
}
