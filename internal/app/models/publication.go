package models

import "time"

// Publication is a journal article or book authored by members.
type Publication struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Title         string    `json:"title" db:"title"`
	Journal       string    `json:"journal" db:"journal"`
	Year          string    `json:"publication_year" db:"publication_year" example:"2023"`
	Program       *Program  `json:"publication_program" db:"publication_program" example:"BLIS"`
	ISBN          *string   `json:"isbn" db:"isbn"`
	PISSN         *string   `json:"p_issn" db:"p_issn"`
	EISSN         *string   `json:"e_issn" db:"e_issn"`
	Publisher     string    `json:"publisher" db:"publisher"`
	OnlineView    string    `json:"online_view" db:"online_view"`
	IncentiveFile *string   `json:"incentive_file" db:"incentive_file"`
	ProductFile   *string   `json:"product_file" db:"product_file"`
	PatentFile    *string   `json:"patent_file" db:"patent_file"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
