package listquery

import (
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/Masterminds/squirrel"
)

// Request is a 1-based page of a fixed size.
type Request struct {
	Page    int
	PerPage int
}

// NewRequest parses the raw page parameter. Missing or invalid pages read
// as the first page. Pages too large for their offset to fit an int are
// clamped; they lie past the end of any result set either way.
func NewRequest(rawPage string, perPage int) Request {
	if perPage < 1 {
		perPage = 10
	}
	page, err := strconv.Atoi(rawPage)
	switch {
	case errors.Is(err, strconv.ErrRange) && page > 0:
		page = math.MaxInt
	case err != nil || page < 1:
		page = 1
	}
	if maxPage := math.MaxInt / perPage; page > maxPage {
		page = maxPage
	}
	return Request{Page: page, PerPage: perPage}
}

// Offset is the number of rows before the page.
func (r Request) Offset() uint64 {
	return uint64((r.Page - 1) * r.PerPage)
}

// Limit is the page size.
func (r Request) Limit() uint64 {
	return uint64(r.PerPage)
}

// Apply adds LIMIT and OFFSET to q.
func (r Request) Apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.Limit(r.Limit()).Offset(r.Offset())
}

// LastPage is the number of pages total rows fill, at least one.
func (r Request) LastPage(total int64) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(r.PerPage) - 1) / int64(r.PerPage))
}

// Link is one entry of the page navigation. URL is nil for the disabled
// previous/next entries and for the "..." separators.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	CurrentPage  int     `json:"current_page"`
	LastPage     int     `json:"last_page"`
	PerPage      int     `json:"per_page"`
	Total        int64   `json:"total"`
	From         *int    `json:"from"`
	To           *int    `json:"to"`
	Path         string  `json:"path"`
	FirstPageURL string  `json:"first_page_url"`
	LastPageURL  string  `json:"last_page_url"`
	PrevPageURL  *string `json:"prev_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Links        []Link  `json:"links"`
}

// Page is one page of rows plus its navigation.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta
}

// NewPage assembles a page. Requesting a page past the last one yields an
// empty Data slice, never an error. Every link keeps the other query
// parameters of u, so filters survive navigation.
func NewPage[T any](rows []T, total int64, req Request, u *url.URL) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	last := req.LastPage(total)
	meta := Meta{
		CurrentPage: req.Page,
		LastPage:    last,
		PerPage:     req.PerPage,
		Total:       total,
	}

	if len(rows) > 0 {
		from := int(req.Offset()) + 1
		to := int(req.Offset()) + len(rows)
		meta.From, meta.To = &from, &to
	}

	link := linker(u)
	meta.Path = link.path
	meta.FirstPageURL = link.url(1)
	meta.LastPageURL = link.url(last)
	if req.Page > 1 {
		prev := link.url(min(req.Page-1, last))
		meta.PrevPageURL = &prev
	}
	if req.Page < last {
		next := link.url(req.Page + 1)
		meta.NextPageURL = &next
	}
	meta.Links = buildLinks(link, req.Page, last, meta.PrevPageURL, meta.NextPageURL)

	return Page[T]{Data: rows, Meta: meta}
}

type pageLinker struct {
	path  string
	query url.Values
}

func linker(u *url.URL) pageLinker {
	if u == nil {
		return pageLinker{query: url.Values{}}
	}
	q := url.Values{}
	for k, v := range u.Query() {
		q[k] = append([]string(nil), v...)
	}
	return pageLinker{path: u.Path, query: q}
}

func (l pageLinker) url(page int) string {
	q := url.Values{}
	for k, v := range l.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return l.path + "?" + q.Encode()
}

// onEachSide pages are shown around the current one once the page count no
// longer fits in a single row.
const onEachSide = 3

func buildLinks(l pageLinker, current, last int, prev, next *string) []Link {
	links := []Link{{URL: prev, Label: "&laquo; Previous"}}

	appendRange := func(from, to int) {
		for p := from; p <= to; p++ {
			u := l.url(p)
			links = append(links, Link{URL: &u, Label: strconv.Itoa(p), Active: p == current})
		}
	}
	gap := func() { links = append(links, Link{Label: "..."}) }

	window := onEachSide * 2
	switch {
	case last < window+8:
		appendRange(1, last)
	case current <= window:
		appendRange(1, window+2)
		gap()
		appendRange(last-1, last)
	case current > last-window:
		appendRange(1, 2)
		gap()
		appendRange(last-(window+2)+1, last)
	default:
		appendRange(1, 2)
		gap()
		appendRange(current-onEachSide, current+onEachSide)
		gap()
		appendRange(last-1, last)
	}

	return append(links, Link{URL: next, Label: "Next &raquo;"})
}
