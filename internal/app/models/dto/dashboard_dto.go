package dto

import "github.com/yigit/researchdesk/internal/pkg/aggregate"

// DashboardCounts are the headline numbers of the dashboard.
type DashboardCounts struct {
	Ongoing      int64 `json:"ongoing" example:"14"`
	Completed    int64 `json:"completed" example:"31"`
	Publications int64 `json:"publications" example:"22"`
}

// YearlyTrend is one calendar year of the dashboard trend chart.
type YearlyTrend struct {
	Year         string `json:"year" example:"2024"`
	Publications int64  `json:"publications" example:"4"`
	Completed    int64  `json:"completed" example:"6"`
}

// YearlyTrendsFrom turns zipped yearly rows into trend points.
func YearlyTrendsFrom(rows []aggregate.Row, publications, completed string) []YearlyTrend {
	out := make([]YearlyTrend, len(rows))
	for i, r := range rows {
		out[i] = YearlyTrend{Year: r.Key, Publications: r.Values[publications], Completed: r.Values[completed]}
	}
	return out
}

// DashboardResponse is GET /dashboard.
type DashboardResponse struct {
	Counts         DashboardCounts   `json:"counts"`
	YearlyTrends   []YearlyTrend     `json:"yearly_trends"`
	Filters        map[string]string `json:"filters"`
	ProgramOptions []string          `json:"program_options"`
}
