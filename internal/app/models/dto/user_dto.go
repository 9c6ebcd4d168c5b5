package dto

import (
	"time"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/aggregate"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID           int64       `json:"id" example:"1"`
	Name         string      `json:"name" example:"Jane Cruz"`
	Email        string      `json:"email" example:"jcruz@university.edu"`
	Role         models.Role `json:"role" example:"admin"`
	LastLoginAt  *time.Time  `json:"last_login_at"`
	LastLogoutAt *time.Time  `json:"last_logout_at"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewUserResponse drops the credential columns of u.
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		LastLoginAt:  u.LastLoginAt,
		LastLogoutAt: u.LastLogoutAt,
		CreatedAt:    u.CreatedAt,
	}
}

// DailyCount is one day of login traffic.
type DailyCount struct {
	Date  string `json:"date" example:"2025-03-14"`
	Count int64  `json:"count" example:"3"`
}

// MonthlyStats is one month of record creation across the system.
type MonthlyStats struct {
	Month        string `json:"month" example:"Mar"`
	Research     int64  `json:"research"`
	Members      int64  `json:"members"`
	Publications int64  `json:"publications"`
	Utilizations int64  `json:"utilizations"`
	Users        int64  `json:"users"`
}

// Half-year series names.
const (
	SeriesResearch     = "research"
	SeriesMembers      = "members"
	SeriesPublications = "publications"
	SeriesUtilizations = "utilizations"
	SeriesUsers        = "users"
)

// DailyCountsFrom converts zero-filled day points.
func DailyCountsFrom(points []aggregate.Point) []DailyCount {
	out := make([]DailyCount, len(points))
	for i, p := range points {
		out[i] = DailyCount{Date: p.Key, Count: p.Count}
	}
	return out
}

// MonthlyStatsFrom converts zipped month rows.
func MonthlyStatsFrom(rows []aggregate.Row) []MonthlyStats {
	out := make([]MonthlyStats, len(rows))
	for i, r := range rows {
		out[i] = MonthlyStats{
			Month:        r.Label,
			Research:     r.Values[SeriesResearch],
			Members:      r.Values[SeriesMembers],
			Publications: r.Values[SeriesPublications],
			Utilizations: r.Values[SeriesUtilizations],
			Users:        r.Values[SeriesUsers],
		}
	}
	return out
}

// UserActivity is the analytics block of the user dashboard.
type UserActivity struct {
	ActiveToday     int64          `json:"active_today" example:"4"`
	ActiveTodayPrev int64          `json:"active_today_prev" example:"2"`
	NewThisWeek     int64          `json:"new_this_week" example:"1"`
	Past7DaysCount  int64          `json:"past_7_days_count" example:"9"`
	LoginTraffic    []DailyCount   `json:"login_traffic"`
	HalfYearStats   []MonthlyStats `json:"half_year_stats"`
	TotalUsers      int64          `json:"total_users" example:"17"`
	Timezone        string         `json:"timezone" example:"Asia/Manila"`
}

// UserDashboard is GET /admin/users.
type UserDashboard struct {
	ListResponse[UserResponse]
	UserActivity
}
