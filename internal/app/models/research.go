package models

import "time"

// Impacts are the free-text narratives describing a research project's
// outcomes (publication, patent, product, people service, place and
// partnership, policy).
type Impacts struct {
	Publication         *string `json:"publication" db:"publication"`
	Patent              *string `json:"patent" db:"patent"`
	Product             *string `json:"product" db:"product"`
	PeopleService       *string `json:"people_service" db:"people_service"`
	PlaceAndPartnership *string `json:"place_and_partnership" db:"place_and_partnership"`
	Policy              *string `json:"policy" db:"policy"`
}

// Research is a study, program or project run by the department.
type Research struct {
	ID                   int64          `json:"id" db:"id" example:"1"`
	Title                string         `json:"research_title" db:"research_title" example:"Rice yield forecasting"`
	FundingSource        *string        `json:"funding_source" db:"funding_source"`
	CollaboratingAgency  *string        `json:"collaborating_agency" db:"collaborating_agency"`
	Type                 ResearchType   `json:"type" db:"type" example:"study"`
	Program              Program        `json:"program" db:"program" example:"BSCS"`
	Status               ResearchStatus `json:"status" db:"status" example:"ongoing"`
	StartDate            *time.Time     `json:"start_date" db:"start_date"`
	Duration             *string        `json:"duration" db:"duration" example:"12 months"`
	EstimatedBudget      *float64       `json:"estimated_budget" db:"estimated_budget"`
	BudgetUtilized       *float64       `json:"budget_utilized" db:"budget_utilized"`
	CompletionPercentage *int           `json:"completion_percentage" db:"completion_percentage"`
	YearCompleted        *string        `json:"year_completed" db:"year_completed" example:"2024"`
	SpecialOrder         *string        `json:"special_order" db:"special_order"`
	TerminalReport       *string        `json:"terminal_report" db:"terminal_report"`
	Impacts
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
