package models

// ResearchMembership is one row of the research/member join table together
// with the research fields member projections need.
type ResearchMembership struct {
	MemberID   int64          `json:"member_id"`
	ResearchID int64          `json:"research_id"`
	Title      string         `json:"research_title"`
	Status     ResearchStatus `json:"status"`
	Program    Program        `json:"program"`
}

// Authorship is one row of the publication/member join table together with
// the publication fields member projections need.
type Authorship struct {
	MemberID      int64  `json:"member_id"`
	PublicationID int64  `json:"publication_id"`
	Title         string `json:"title"`
	Year          string `json:"publication_year"`
}
