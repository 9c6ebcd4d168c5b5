package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/config"
	"github.com/yigit/researchdesk/internal/pkg/aggregate"
)

// Analytics fixes the calendar every trend and activity figure is computed in.
type Analytics struct {
	Location         *time.Location
	TrendYears       int
	HalfYearMonths   int
	LoginTrafficDays int
}

// AnalyticsFromConfig reads the analytics section.
func AnalyticsFromConfig(cfg *config.Config) Analytics {
	return Analytics{
		Location:         cfg.Location(),
		TrendYears:       cfg.Analytics.TrendYears,
		HalfYearMonths:   cfg.Analytics.HalfYearMonths,
		LoginTrafficDays: cfg.Analytics.LoginTrafficDays,
	}
}

const (
	trendPublications = "publications"
	trendCompleted    = "completed"
)

// DashboardService builds the dashboard counts and yearly trends
type DashboardService interface {
	Get(ctx context.Context, f dto.DashboardFilter) (*dto.DashboardResponse, error)
}

type dashboardResearch interface {
	CountByStatus(ctx context.Context, program *models.Program, year *string) (map[string]int64, error)
	CompletedPerYear(ctx context.Context, program *models.Program) (map[string]int64, error)
}

type dashboardPublications interface {
	Count(ctx context.Context, program *models.Program, year *string) (int64, error)
	CountPerYear(ctx context.Context, program *models.Program) (map[string]int64, error)
}

type dashboardServiceImpl struct {
	research     dashboardResearch
	publications dashboardPublications
	analytics    Analytics
	now          Clock
	logger       zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(research dashboardResearch, publications dashboardPublications, analytics Analytics, now Clock, logger zerolog.Logger) DashboardService {
	return &dashboardServiceImpl{
		research:     research,
		publications: publications,
		analytics:    analytics,
		now:          now,
		logger:       logger,
	}
}

// Get counts research by status and publications within the filter, and
// lays completed research and publications over the trend window. The
// trend follows the program filter only.
func (s *dashboardServiceImpl) Get(ctx context.Context, f dto.DashboardFilter) (*dto.DashboardResponse, error) {
	byStatus, err := s.research.CountByStatus(ctx, f.Program, f.Year)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count research by status")
		return nil, fmt.Errorf("error counting research: %w", err)
	}
	publications, err := s.publications.Count(ctx, f.Program, f.Year)
	if err != nil {
		return nil, fmt.Errorf("error counting publications: %w", err)
	}

	completedPerYear, err := s.research.CompletedPerYear(ctx, f.Program)
	if err != nil {
		return nil, fmt.Errorf("error counting completed research per year: %w", err)
	}
	publicationsPerYear, err := s.publications.CountPerYear(ctx, f.Program)
	if err != nil {
		return nil, fmt.Errorf("error counting publications per year: %w", err)
	}

	now := s.now().In(s.analytics.Location)
	years := aggregate.Years(now.Year(), s.analytics.TrendYears, s.analytics.Location)
	rows := aggregate.Zip(years, map[string]map[string]int64{
		trendPublications: publicationsPerYear,
		trendCompleted:    completedPerYear,
	})

	return &dto.DashboardResponse{
		Counts: dto.DashboardCounts{
			Ongoing:      byStatus[string(models.StatusOngoing)],
			Completed:    byStatus[string(models.StatusCompleted)],
			Publications: publications,
		},
		YearlyTrends:   dto.YearlyTrendsFrom(rows, trendPublications, trendCompleted),
		Filters:        f.Echo(),
		ProgramOptions: append([]string{"all"}, models.Strings(models.Programs)...),
	}, nil
}
