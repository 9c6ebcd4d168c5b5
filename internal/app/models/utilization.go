package models

import "time"

// Utilization certifies that a beneficiary put a research output to use.
// A research record has at most one.
type Utilization struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	ResearchID  int64     `json:"research_id" db:"research_id" example:"3"`
	Beneficiary string    `json:"beneficiary" db:"beneficiary"`
	CertDate    time.Time `json:"cert_date" db:"cert_date"`
	Certificate *string   `json:"certificate_of_utilization" db:"certificate_of_utilization"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Joined from research, filled by list and detail queries.
	ResearchTitle   string  `json:"research_title,omitempty" db:"-"`
	ResearchProgram Program `json:"research_program,omitempty" db:"-"`
}
