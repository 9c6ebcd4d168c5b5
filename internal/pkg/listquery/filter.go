// Package listquery turns raw list-screen parameters into SQL fragments:
// optional typed filters, a deterministic ORDER BY and page windows.
package listquery

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// Any is the value a filter control sends for "no constraint".
const Any = "any"

// DateLayout is the wire format of date filters and date fields.
const DateLayout = "2006-01-02"

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Opt normalises a raw filter value. Empty, blank and "any" collapse to nil.
func Opt(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, Any) {
		return nil
	}
	return &v
}

// OneOf is Opt restricted to a closed set. Matching ignores case and the
// canonical spelling is returned; unknown values collapse to nil.
func OneOf[T ~string](raw string, allowed ...T) *T {
	v := Opt(raw)
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(string(a), *v) {
			match := a
			return &match
		}
	}
	return nil
}

// Year accepts a four digit year and collapses anything else to nil.
func Year(raw string) *string {
	v := Opt(raw)
	if v == nil || !yearPattern.MatchString(*v) {
		return nil
	}
	return v
}

// Date accepts YYYY-MM-DD and collapses anything else to nil.
func Date(raw string) *time.Time {
	v := Opt(raw)
	if v == nil {
		return nil
	}
	t, err := time.Parse(DateLayout, *v)
	if err != nil {
		return nil
	}
	return &t
}

// Bool accepts 1/0 and true/false.
func Bool(raw string) *bool {
	v := Opt(raw)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil
	}
	return &b
}

// Predicate accumulates the WHERE clause of a list query. Absent (nil)
// filters add nothing, so an untouched Predicate matches every row.
type Predicate struct {
	and squirrel.And
}

// Where starts an empty predicate.
func Where() *Predicate {
	return &Predicate{}
}

// Eq adds column = value when value is present.
func (p *Predicate) Eq(column string, value any) *Predicate {
	if v, ok := present(value); ok {
		p.and = append(p.and, squirrel.Eq{column: v})
	}
	return p
}

// Gte adds column >= value when value is present.
func (p *Predicate) Gte(column string, value any) *Predicate {
	if v, ok := present(value); ok {
		p.and = append(p.and, squirrel.GtOrEq{column: v})
	}
	return p
}

// Lte adds column <= value when value is present.
func (p *Predicate) Lte(column string, value any) *Predicate {
	if v, ok := present(value); ok {
		p.and = append(p.and, squirrel.LtOrEq{column: v})
	}
	return p
}

// Search adds a case-insensitive substring match of term over any of the
// given columns or expressions.
func (p *Predicate) Search(term *string, columns ...string) *Predicate {
	if term == nil || len(columns) == 0 {
		return p
	}
	pattern := "%" + EscapeLike(*term) + "%"
	or := make(squirrel.Or, 0, len(columns))
	for _, c := range columns {
		or = append(or, squirrel.ILike{c: pattern})
	}
	p.and = append(p.and, or)
	return p
}

// Empty reports whether no constraint was added.
func (p *Predicate) Empty() bool {
	return len(p.and) == 0
}

// Sqlizer returns the accumulated conjunction. An empty predicate renders
// as "(1=1)".
func (p *Predicate) Sqlizer() squirrel.Sqlizer {
	return p.and
}

// EscapeLike escapes the LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return value, true
}
