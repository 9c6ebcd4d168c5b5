package dto

import (
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
)

// URLResolver turns a stored relative path into a public URL.
type URLResolver interface {
	URL(path string) string
}

func fileURL(urls URLResolver, path *string) *string {
	if path == nil || *path == "" || urls == nil {
		return nil
	}
	u := urls.URL(*path)
	return &u
}

// MemberSummary is a member as listed under a research or publication.
type MemberSummary struct {
	ID              int64           `json:"id" example:"4"`
	FullName        string          `json:"full_name" example:"Maria Santos"`
	Rank            models.Rank     `json:"rank" example:"Instructor"`
	Program         *models.Program `json:"member_program" example:"BSIT"`
	ProfilePhotoURL *string         `json:"profile_photo_url"`
}

func summarizeMembers(members []models.Member, urls URLResolver) []MemberSummary {
	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		out = append(out, MemberSummary{
			ID:              m.ID,
			FullName:        m.FullName,
			Rank:            m.Rank,
			Program:         m.Program,
			ProfilePhotoURL: fileURL(urls, m.ProfilePhoto),
		})
	}
	return out
}

// ResearchItem is a research row with its team.
type ResearchItem struct {
	models.Research
	SpecialOrderURL   *string         `json:"special_order_url"`
	TerminalReportURL *string         `json:"terminal_report_url"`
	Members           []MemberSummary `json:"members"`
}

// ProjectResearch builds the display record of r from its already loaded
// members.
func ProjectResearch(r models.Research, members []models.Member, urls URLResolver) ResearchItem {
	return ResearchItem{
		Research:          r,
		SpecialOrderURL:   fileURL(urls, r.SpecialOrder),
		TerminalReportURL: fileURL(urls, r.TerminalReport),
		Members:           summarizeMembers(members, urls),
	}
}

// ProjectResearchList projects a page of research using members eager
// loaded per research id.
func ProjectResearchList(rows []models.Research, members map[int64][]models.Member, urls URLResolver) []ResearchItem {
	return lo.Map(rows, func(r models.Research, _ int) ResearchItem {
		return ProjectResearch(r, members[r.ID], urls)
	})
}

// ResearchDetail is GET /research/{id}.
type ResearchDetail struct {
	ResearchItem
	Utilization *UtilizationItem `json:"utilization"`
}

// ResearchList is GET /research.
type ResearchList struct {
	ListResponse[ResearchItem]
	Programs []models.Program `json:"programs"`
}

// MemberItem is a member row with research and publication counts.
type MemberItem struct {
	models.Member
	ProfilePhotoURL  *string `json:"profile_photo_url"`
	Ongoing          int     `json:"ongoing" example:"2"`
	Completed        int     `json:"completed" example:"5"`
	PublicationCount int     `json:"publication_count" example:"3"`
}

// ProjectMember counts from already loaded links; it never queries.
func ProjectMember(m models.Member, research []models.ResearchMembership, authorships []models.Authorship, urls URLResolver) MemberItem {
	return MemberItem{
		Member:          m,
		ProfilePhotoURL: fileURL(urls, m.ProfilePhoto),
		Ongoing: lo.CountBy(research, func(r models.ResearchMembership) bool {
			return r.Status == models.StatusOngoing
		}),
		Completed: lo.CountBy(research, func(r models.ResearchMembership) bool {
			return r.Status == models.StatusCompleted
		}),
		PublicationCount: len(lo.UniqBy(authorships, func(a models.Authorship) int64 {
			return a.PublicationID
		})),
	}
}

// ProjectMemberList projects a page of members using links eager loaded
// per member id.
func ProjectMemberList(rows []models.Member, research map[int64][]models.ResearchMembership, authorships map[int64][]models.Authorship, urls URLResolver) []MemberItem {
	return lo.Map(rows, func(m models.Member, _ int) MemberItem {
		return ProjectMember(m, research[m.ID], authorships[m.ID], urls)
	})
}

// MemberDetail is GET /members/{id}.
type MemberDetail struct {
	MemberItem
	Research     []models.ResearchMembership `json:"research"`
	Publications []models.Authorship         `json:"publications"`
}

// ProjectMemberDetail adds the linked records to the member counts.
func ProjectMemberDetail(m models.Member, research []models.ResearchMembership, authorships []models.Authorship, urls URLResolver) MemberDetail {
	if research == nil {
		research = []models.ResearchMembership{}
	}
	if authorships == nil {
		authorships = []models.Authorship{}
	}
	return MemberDetail{
		MemberItem:   ProjectMember(m, research, authorships, urls),
		Research:     research,
		Publications: authorships,
	}
}

// PublicationItem is a publication row with its authors.
type PublicationItem struct {
	models.Publication
	IncentiveFileURL *string         `json:"incentive_file_url"`
	ProductFileURL   *string         `json:"product_file_url"`
	PatentFileURL    *string         `json:"patent_file_url"`
	Members          []MemberSummary `json:"members"`
}

func ProjectPublication(p models.Publication, members []models.Member, urls URLResolver) PublicationItem {
	return PublicationItem{
		Publication:      p,
		IncentiveFileURL: fileURL(urls, p.IncentiveFile),
		ProductFileURL:   fileURL(urls, p.ProductFile),
		PatentFileURL:    fileURL(urls, p.PatentFile),
		Members:          summarizeMembers(members, urls),
	}
}

func ProjectPublicationList(rows []models.Publication, members map[int64][]models.Member, urls URLResolver) []PublicationItem {
	return lo.Map(rows, func(p models.Publication, _ int) PublicationItem {
		return ProjectPublication(p, members[p.ID], urls)
	})
}

// UtilizationItem is a utilization row. The program flags are 1 for the
// program of the related research and 0 otherwise.
type UtilizationItem struct {
	models.Utilization
	CertificateURL *string `json:"certificate_url"`
	BSIT           int     `json:"bsit" example:"1"`
	BLIS           int     `json:"blis" example:"0"`
	BSCS           int     `json:"bscs" example:"0"`
}

func ProjectUtilization(u models.Utilization, urls URLResolver) UtilizationItem {
	flag := func(p models.Program) int {
		if u.ResearchProgram == p {
			return 1
		}
		return 0
	}
	return UtilizationItem{
		Utilization:    u,
		CertificateURL: fileURL(urls, u.Certificate),
		BSIT:           flag(models.ProgramBSIT),
		BLIS:           flag(models.ProgramBLIS),
		BSCS:           flag(models.ProgramBSCS),
	}
}

// UtilizationList is GET /utilizations.
type UtilizationList struct {
	ListResponse[UtilizationItem]
	TotalUtilizations int64            `json:"total_utilizations" example:"12"`
	ProgramTotals     map[string]int64 `json:"program_totals"`
	Researches        []Option         `json:"researches"`
}

// ProposalItem is the proposal view of a research record.
type ProposalItem struct {
	ID                   int64          `json:"id" example:"1"`
	Program              models.Program `json:"program" example:"BSIT"`
	Title                string         `json:"research_title"`
	StartDate            *string        `json:"start_date" example:"2024-06-01"`
	Duration             *string        `json:"duration"`
	YearCompleted        *string        `json:"year_completed"`
	CompletionPercentage *int           `json:"completion_percentage"`
	EstimatedBudget      *float64       `json:"estimated_budget"`
	BudgetUtilized       *float64       `json:"budget_utilized"`
	SpecialOrder         *string        `json:"special_order"`
	TerminalReport       *string        `json:"terminal_report"`
	SpecialOrderURL      *string        `json:"special_order_url"`
	TerminalReportURL    *string        `json:"terminal_report_url"`
}

func ProjectProposal(r models.Research, urls URLResolver) ProposalItem {
	var start *string
	if r.StartDate != nil {
		s := r.StartDate.Format("2006-01-02")
		start = &s
	}
	return ProposalItem{
		ID:                   r.ID,
		Program:              r.Program,
		Title:                r.Title,
		StartDate:            start,
		Duration:             r.Duration,
		YearCompleted:        r.YearCompleted,
		CompletionPercentage: r.CompletionPercentage,
		EstimatedBudget:      r.EstimatedBudget,
		BudgetUtilized:       r.BudgetUtilized,
		SpecialOrder:         r.SpecialOrder,
		TerminalReport:       r.TerminalReport,
		SpecialOrderURL:      fileURL(urls, r.SpecialOrder),
		TerminalReportURL:    fileURL(urls, r.TerminalReport),
	}
}
