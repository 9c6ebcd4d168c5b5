package listquery

import (
	"math"
	"net/url"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	assert.Equal(t, Request{Page: 1, PerPage: 10}, NewRequest("", 10))
	assert.Equal(t, Request{Page: 1, PerPage: 10}, NewRequest("-3", 10))
	assert.Equal(t, Request{Page: 1, PerPage: 5}, NewRequest("abc", 5))
	assert.Equal(t, Request{Page: 4, PerPage: 10}, NewRequest("4", 10))
}

func TestNewRequest_HugePageStaysPastTheEnd(t *testing.T) {
	for _, raw := range []string{"1000000000000000000", "99999999999999999999999"} {
		req := NewRequest(raw, 10)
		assert.Greater(t, req.Page, 1, raw)
		assert.LessOrEqual(t, req.Offset(), uint64(math.MaxInt64), raw)
		assert.Greater(t, req.Offset(), uint64(1_000_000_000_000), raw)

		page := NewPage([]int{}, 42, req, &url.URL{Path: "/api/v1/members"})
		assert.Empty(t, page.Data)
		assert.Equal(t, 5, page.LastPage)
		assert.Nil(t, page.NextPageURL)
		assert.Nil(t, page.From)
	}
}

func TestRequestApply(t *testing.T) {
	sql, _, err := NewRequest("3", 10).Apply(squirrel.Select("id").From("members")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM members LIMIT 10 OFFSET 20", sql)
}

// Walking every page window over N rows must visit each row exactly once.
func TestPageWindowsCoverAllRows(t *testing.T) {
	for _, perPage := range []int{1, 5, 10} {
		for _, n := range []int{0, 1, 9, 10, 11, 57} {
			rows := lo.Range(n)
			req := Request{Page: 1, PerPage: perPage}
			last := req.LastPage(int64(n))

			seen := []int{}
			for page := 1; page <= last+1; page++ {
				r := Request{Page: page, PerPage: perPage}
				start := min(int(r.Offset()), n)
				end := min(start+int(r.Limit()), n)
				seen = append(seen, rows[start:end]...)
			}
			assert.Equal(t, rows, seen, "n=%d perPage=%d", n, perPage)
		}
	}
}

func TestNewPage_MetaAndLinksKeepFilters(t *testing.T) {
	u, _ := url.Parse("/research?status=ongoing&program=BSIT&page=2")
	page := NewPage([]string{"k", "l"}, 12, Request{Page: 2, PerPage: 10}, u)

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	require.NotNil(t, page.From)
	assert.Equal(t, 11, *page.From)
	assert.Equal(t, 12, *page.To)
	assert.Nil(t, page.NextPageURL)
	require.NotNil(t, page.PrevPageURL)
	assert.Equal(t, "/research?page=1&program=BSIT&status=ongoing", *page.PrevPageURL)

	for _, l := range page.Links {
		if l.URL == nil {
			continue
		}
		parsed, err := url.Parse(*l.URL)
		require.NoError(t, err)
		assert.Equal(t, "ongoing", parsed.Query().Get("status"))
		assert.Equal(t, "BSIT", parsed.Query().Get("program"))
	}

	labels := lo.Map(page.Links, func(l Link, _ int) string { return l.Label })
	assert.Equal(t, []string{"&laquo; Previous", "1", "2", "Next &raquo;"}, labels)
	assert.True(t, page.Links[2].Active)
}

func TestNewPage_BeyondLastPageIsEmpty(t *testing.T) {
	page := NewPage[int](nil, 3, Request{Page: 9, PerPage: 10}, nil)

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Nil(t, page.From)
	assert.Nil(t, page.NextPageURL)
}

func TestNewPage_EmptyResult(t *testing.T) {
	page := NewPage([]int{}, 0, Request{Page: 1, PerPage: 10}, nil)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, int64(0), page.Total)
	assert.Nil(t, page.PrevPageURL)
}

func TestBuildLinks_SlidingWindow(t *testing.T) {
	u, _ := url.Parse("/members")
	labels := func(current int) []string {
		p := NewPage([]int{1}, 300, Request{Page: current, PerPage: 10}, u)
		return lo.Map(p.Links, func(l Link, _ int) string { return l.Label })
	}

	assert.Equal(t,
		[]string{"&laquo; Previous", "1", "2", "3", "4", "5", "6", "7", "8", "...", "29", "30", "Next &raquo;"},
		labels(2))
	assert.Equal(t,
		[]string{"&laquo; Previous", "1", "2", "...", "12", "13", "14", "15", "16", "17", "18", "...", "29", "30", "Next &raquo;"},
		labels(15))
	assert.Equal(t,
		[]string{"&laquo; Previous", "1", "2", "...", "23", "24", "25", "26", "27", "28", "29", "30", "Next &raquo;"},
		labels(29))
}
