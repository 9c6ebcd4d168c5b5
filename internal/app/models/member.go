package models

import "time"

// Member is a faculty member, staff member, student or alumnus who may take
// part in research and author publications.
type Member struct {
	ID                    int64     `json:"id" db:"id" example:"1"`
	FullName              string    `json:"full_name" db:"full_name" example:"Maria Santos"`
	Rank                  Rank      `json:"rank" db:"rank" example:"Associate Professor"`
	Designation           *string   `json:"designation" db:"designation"`
	Program               *Program  `json:"member_program" db:"member_program" example:"BSIT"`
	Email                 *string   `json:"member_email" db:"member_email" example:"msantos@university.edu"`
	ORCID                 *string   `json:"orcid" db:"orcid" example:"0000-0002-1825-0097"`
	Telephone             *string   `json:"telephone" db:"telephone"`
	EducationalAttainment *string   `json:"educational_attainment" db:"educational_attainment"`
	Specialization        *string   `json:"specialization" db:"specialization"`
	ResearchInterest      *string   `json:"research_interest" db:"research_interest"`
	ProfilePhoto          *string   `json:"profile_photo" db:"profile_photo"`
	TeachesGradSchool     bool      `json:"teaches_grad_school" db:"teaches_grad_school"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}
