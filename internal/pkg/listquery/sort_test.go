package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortOrderBy(t *testing.T) {
	byTitle := Sort{Column: "title"}

	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "asc", want: []string{"title ASC", "id DESC"}},
		{raw: "DESC", want: []string{"title DESC", "id DESC"}},
		{raw: "default", want: []string{"id DESC"}},
		{raw: "", want: []string{"id DESC"}},
		{raw: "title; DROP TABLE members", want: []string{"id DESC"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, byTitle.OrderBy(tt.raw))
		})
	}
}

func TestSortOrderBy_JoinedColumn(t *testing.T) {
	s := Sort{Column: "r.research_title", IDColumn: "u.id"}
	assert.Equal(t, []string{"r.research_title ASC", "u.id DESC"}, s.OrderBy("asc"))
	assert.Equal(t, []string{"u.id DESC"}, s.OrderBy("sideways"))
}

func TestSortWithoutColumnIgnoresDirection(t *testing.T) {
	assert.Equal(t, []string{"id DESC"}, Sort{}.OrderBy("asc"))
}
