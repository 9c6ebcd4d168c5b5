package dto

import (
	"net/url"
	"strings"
	"time"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// Fixed page sizes per list screen.
const (
	ResearchPerPage    = 10
	ProposalPerPage    = 10
	MemberPerPage      = 10
	PublicationPerPage = 10
	UtilizationPerPage = 10
	UserPerPage        = 5
)

const dashboardAllSentinel = "all"

// ListResponse is one page of a list screen plus the raw filters that
// produced it.
type ListResponse[T any] struct {
	listquery.Page[T]
	Filters map[string]string `json:"filters"`
}

// NewListResponse pairs a page with its echoed filters.
func NewListResponse[T any](page listquery.Page[T], filters map[string]string) ListResponse[T] {
	if filters == nil {
		filters = map[string]string{}
	}
	return ListResponse[T]{Page: page, Filters: filters}
}

// EchoFilters returns the raw values of the given keys that the request
// actually carried.
func EchoFilters(q url.Values, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if q.Has(k) {
			out[k] = q.Get(k)
		}
	}
	return out
}

// ResearchFilter narrows GET /research.
type ResearchFilter struct {
	Type          *models.ResearchType
	Status        *models.ResearchStatus
	YearCompleted *string
	Program       *models.Program
	Search        *string
	Page          listquery.Request
}

// ResearchFilterKeys are echoed back with the research list.
var ResearchFilterKeys = []string{"type", "status", "year_completed", "program", "search"}

// ParseResearchFilter reads the research list parameters.
func ParseResearchFilter(q url.Values) ResearchFilter {
	return ResearchFilter{
		Type:          listquery.OneOf(q.Get("type"), models.ResearchTypes...),
		Status:        listquery.OneOf(q.Get("status"), models.ResearchStatuses...),
		YearCompleted: listquery.Opt(q.Get("year_completed")),
		Program:       listquery.OneOf(q.Get("program"), models.Programs...),
		Search:        listquery.Opt(q.Get("search")),
		Page:          listquery.NewRequest(q.Get("page"), ResearchPerPage),
	}
}

// ProposalFilter narrows GET /proposals.
type ProposalFilter struct {
	Program       *models.Program
	YearCompleted *string
	Search        *string
	Sort          string
	Page          listquery.Request
}

var ProposalFilterKeys = []string{"program", "year_completed", "search", "sort"}

func ParseProposalFilter(q url.Values) ProposalFilter {
	return ProposalFilter{
		Program:       listquery.OneOf(q.Get("program"), models.Programs...),
		YearCompleted: listquery.Opt(q.Get("year_completed")),
		Search:        listquery.Opt(q.Get("search")),
		Sort:          q.Get("sort"),
		Page:          listquery.NewRequest(q.Get("page"), ProposalPerPage),
	}
}

// MemberFilter narrows GET /members.
type MemberFilter struct {
	Rank              *models.Rank
	Program           *models.Program
	TeachesGradSchool *bool
	Search            *string
	Sort              string
	Page              listquery.Request
}

var MemberFilterKeys = []string{"rank", "member_program", "sort", "search", "teaches_grad_school"}

func ParseMemberFilter(q url.Values) MemberFilter {
	return MemberFilter{
		Rank:              listquery.OneOf(q.Get("rank"), models.Ranks...),
		Program:           listquery.OneOf(q.Get("member_program"), models.Programs...),
		TeachesGradSchool: listquery.Bool(q.Get("teaches_grad_school")),
		Search:            listquery.Opt(q.Get("search")),
		Sort:              q.Get("sort"),
		Page:              listquery.NewRequest(q.Get("page"), MemberPerPage),
	}
}

// PublicationFilter narrows GET /publications. Year bounds are inclusive
// and independent.
type PublicationFilter struct {
	Program  *models.Program
	YearFrom *string
	YearTo   *string
	Search   *string
	Sort     string
	Page     listquery.Request
}

var PublicationFilterKeys = []string{"publication_program", "year_from", "year_to", "search", "sort"}

func ParsePublicationFilter(q url.Values) PublicationFilter {
	return PublicationFilter{
		Program:  listquery.OneOf(q.Get("publication_program"), models.Programs...),
		YearFrom: listquery.Year(q.Get("year_from")),
		YearTo:   listquery.Year(q.Get("year_to")),
		Search:   listquery.Opt(q.Get("search")),
		Sort:     q.Get("sort"),
		Page:     listquery.NewRequest(q.Get("page"), PublicationPerPage),
	}
}

// UtilizationFilter narrows GET /utilizations.
type UtilizationFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Search   *string
	Sort     string
	Page     listquery.Request
}

var UtilizationFilterKeys = []string{"search", "date_from", "date_to", "sort"}

func ParseUtilizationFilter(q url.Values) UtilizationFilter {
	return UtilizationFilter{
		DateFrom: listquery.Date(q.Get("date_from")),
		DateTo:   listquery.Date(q.Get("date_to")),
		Search:   listquery.Opt(q.Get("search")),
		Sort:     q.Get("sort"),
		Page:     listquery.NewRequest(q.Get("page"), UtilizationPerPage),
	}
}

// UserFilter narrows GET /admin/users.
type UserFilter struct {
	Role   *models.Role
	Search *string
	Sort   string
	Page   listquery.Request
}

var UserFilterKeys = []string{"search", "role", "sort"}

func ParseUserFilter(q url.Values) UserFilter {
	return UserFilter{
		Role:   listquery.OneOf(q.Get("role"), models.Roles...),
		Search: listquery.Opt(q.Get("search")),
		Sort:   q.Get("sort"),
		Page:   listquery.NewRequest(q.Get("page"), UserPerPage),
	}
}

// DashboardFilter narrows GET /dashboard. The dashboard spells its
// wildcard "all".
type DashboardFilter struct {
	Program *models.Program
	Year    *string
}

func ParseDashboardFilter(q url.Values) DashboardFilter {
	return DashboardFilter{
		Program: listquery.OneOf(withoutAll(q.Get("program")), models.Programs...),
		Year:    listquery.Year(withoutAll(q.Get("year"))),
	}
}

// Echo reports the dashboard filters, defaulting both to "all".
func (f DashboardFilter) Echo() map[string]string {
	out := map[string]string{"program": dashboardAllSentinel, "year": dashboardAllSentinel}
	if f.Program != nil {
		out["program"] = string(*f.Program)
	}
	if f.Year != nil {
		out["year"] = *f.Year
	}
	return out
}

func withoutAll(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), dashboardAllSentinel) {
		return ""
	}
	return raw
}
