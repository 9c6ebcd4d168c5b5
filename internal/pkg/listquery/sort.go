package listquery

import "strings"

// Direction is an SQL sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts "asc" and "desc" in any case. Everything else,
// including "default", is not a direction.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

// Sort resolves a requested direction into ORDER BY terms. The identifier
// column is always the last term, so equal sort keys still page
// deterministically, and it alone (descending) is the fallback.
type Sort struct {
	// Column is ordered by when an explicit direction is requested. It may
	// name a joined column such as "r.research_title".
	Column string
	// IDColumn defaults to "id".
	IDColumn string
}

// OrderBy returns the ORDER BY terms for raw.
func (s Sort) OrderBy(raw string) []string {
	id := s.IDColumn
	if id == "" {
		id = "id"
	}
	fallback := id + " " + string(Desc)
	if dir, ok := ParseDirection(raw); ok && s.Column != "" {
		return []string{s.Column + " " + string(dir), fallback}
	}
	return []string{fallback}
}
