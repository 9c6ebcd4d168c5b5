package dto

import (
	"mime/multipart"
	"net/url"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// Research attachment columns.
const (
	ResearchSpecialOrder   = "special_order"
	ResearchTerminalReport = "terminal_report"
)

// ResearchForm is the multipart body of POST /research/store and
// PATCH /research/{id}. Numeric fields bind as text so an empty value stays
// NULL instead of becoming zero.
type ResearchForm struct {
	Title               string `form:"research_title" binding:"required,max=255"`
	FundingSource       string `form:"funding_source" binding:"omitempty,max=255"`
	CollaboratingAgency string `form:"collaborating_agency" binding:"omitempty,max=255"`
	Type                string `form:"type" binding:"required,research_type"`
	Program             string `form:"program" binding:"required,program"`
	Status              string `form:"status" binding:"required,research_status"`

	StartDate       string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Duration        string `form:"duration" binding:"omitempty,max=255"`
	EstimatedBudget string `form:"estimated_budget" binding:"omitempty,numeric"`

	BudgetUtilized       string `form:"budget_utilized" binding:"omitempty,numeric"`
	CompletionPercentage string `form:"completion_percentage" binding:"omitempty,number"`
	YearCompleted        string `form:"year_completed" binding:"omitempty,max=120"`

	Publication         string `form:"publication"`
	Patent              string `form:"patent"`
	Product             string `form:"product"`
	PeopleService       string `form:"people_service"`
	PlaceAndPartnership string `form:"place_and_partnership"`
	Policy              string `form:"policy"`

	SpecialOrder   *multipart.FileHeader `form:"special_order" swaggerignore:"true"`
	TerminalReport *multipart.FileHeader `form:"terminal_report" swaggerignore:"true"`
}

// ResearchInput is a validated research write.
type ResearchInput struct {
	Research models.Research
	Uploads  Uploads
	// MemberIDs is nil when the request did not mention members.
	MemberIDs *[]int64
}

// ToInput finishes validation of a bound form. bindErr is the result of
// binding; values are the raw form values, read for member_ids.
func (f *ResearchForm) ToInput(bindErr error, values url.Values) (*ResearchInput, error) {
	v := startValidation(bindErr)

	r := models.Research{
		Title:                f.Title,
		FundingSource:        optString(f.FundingSource),
		CollaboratingAgency:  optString(f.CollaboratingAgency),
		Type:                 models.ResearchType(f.Type),
		Program:              models.Program(f.Program),
		Status:               models.ResearchStatus(f.Status),
		StartDate:            optDate(v, "start_date", f.StartDate),
		Duration:             optString(f.Duration),
		EstimatedBudget:      optFloat(v, "estimated_budget", f.EstimatedBudget),
		BudgetUtilized:       optFloat(v, "budget_utilized", f.BudgetUtilized),
		CompletionPercentage: optIntRange(v, "completion_percentage", f.CompletionPercentage, 0, 100),
		YearCompleted:        optString(f.YearCompleted),
		Impacts: models.Impacts{
			Publication:         optString(f.Publication),
			Patent:              optString(f.Patent),
			Product:             optString(f.Product),
			PeopleService:       optString(f.PeopleService),
			PlaceAndPartnership: optString(f.PlaceAndPartnership),
			Policy:              optString(f.Policy),
		},
	}

	uploads := collectUploads(v,
		fileCheck{ResearchSpecialOrder, f.SpecialOrder, validation.DocumentRule},
		fileCheck{ResearchTerminalReport, f.TerminalReport, validation.DocumentRule},
	)
	memberIDs := ParseMemberIDs(values, v)

	if v.HasErrors() {
		return nil, v
	}
	return &ResearchInput{Research: r, Uploads: uploads, MemberIDs: memberIDs}, nil
}
