package models

// Program is an academic program code.
type Program string

const (
	ProgramBSIT Program = "BSIT"
	ProgramBLIS Program = "BLIS"
	ProgramBSCS Program = "BSCS"
)

// Programs lists every program in display order.
var Programs = []Program{ProgramBSIT, ProgramBLIS, ProgramBSCS}

// ResearchType classifies a research record.
type ResearchType string

const (
	ResearchTypeStudy   ResearchType = "study"
	ResearchTypeProgram ResearchType = "program"
	ResearchTypeProject ResearchType = "project"
)

var ResearchTypes = []ResearchType{ResearchTypeStudy, ResearchTypeProgram, ResearchTypeProject}

// ResearchStatus is the lifecycle state of a research record.
type ResearchStatus string

const (
	StatusOngoing    ResearchStatus = "ongoing"
	StatusCompleted  ResearchStatus = "completed"
	StatusTerminated ResearchStatus = "terminated"
)

var ResearchStatuses = []ResearchStatus{StatusCompleted, StatusOngoing, StatusTerminated}

// Rank is a member's academic or staff rank.
type Rank string

var Ranks = []Rank{
	"Professor",
	"Assistant Professor",
	"Associate Professor",
	"Instructor",
	"Technical Staff",
	"Administrative Aide",
	"Technician",
	"Student",
	"Alumnus",
	"Alumna",
	"Other",
}

// Role is an operator's permission tier.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var Roles = []Role{RoleAdmin, RoleUser}

// Contains reports whether v is one of set.
func Contains[T ~string](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Strings converts a closed set to plain strings, e.g. for "oneof" params
// and option lists.
func Strings[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}
