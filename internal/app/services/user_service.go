package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/aggregate"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/auth"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// UserService defines the interface for operator account administration
type UserService interface {
	Dashboard(ctx context.Context, f dto.UserFilter, u *url.URL) (*dto.UserDashboard, error)
	Activity(ctx context.Context) (*dto.UserActivity, error)
	Create(ctx context.Context, name, email, password string, role models.Role) (*dto.UserResponse, error)
	Delete(ctx context.Context, principalID, id int64) error
}

type userStore interface {
	List(ctx context.Context, f dto.UserFilter) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
	LoginTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error)
}

type userServiceImpl struct {
	users     userStore
	series    map[string]MonthlyCounter
	analytics Analytics
	now       Clock
	logger    zerolog.Logger
}

// NewUserService creates a new UserService. series are the record kinds,
// besides users, charted per month, keyed by series name.
func NewUserService(users userStore, series map[string]MonthlyCounter, analytics Analytics, now Clock, logger zerolog.Logger) UserService {
	all := make(map[string]MonthlyCounter, len(series)+1)
	for name, c := range series {
		all[name] = c
	}
	all[dto.SeriesUsers] = users
	return &userServiceImpl{
		users:     users,
		series:    all,
		analytics: analytics,
		now:       now,
		logger:    logger,
	}
}

// Dashboard returns one page of users together with the activity block
func (s *userServiceImpl) Dashboard(ctx context.Context, f dto.UserFilter, u *url.URL) (*dto.UserDashboard, error) {
	rows, total, err := s.users.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	activity, err := s.Activity(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(rows, func(user models.User, _ int) dto.UserResponse { return dto.NewUserResponse(user) })
	return &dto.UserDashboard{
		ListResponse: dto.NewListResponse(
			listquery.NewPage(items, total, f.Page, u),
			dto.EchoFilters(u.Query(), dto.UserFilterKeys...),
		),
		UserActivity: *activity,
	}, nil
}

// Activity computes login and creation analytics. "Now" is read once and
// every cutoff derives from it in the configured time zone.
func (s *userServiceImpl) Activity(ctx context.Context) (*dto.UserActivity, error) {
	loc := s.analytics.Location
	now := s.now().In(loc)
	weekAgo := now.AddDate(0, 0, -7)

	days := aggregate.Days(now, s.analytics.LoginTrafficDays)
	since := aggregate.Since(days)
	if weekAgo.Before(since) {
		since = weekAgo
	}
	if yesterday := aggregate.StartOfDay(now).AddDate(0, 0, -1); yesterday.Before(since) {
		since = yesterday
	}

	logins, err := s.users.LoginTimesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("error loading logins: %w", err)
	}
	perDay := aggregate.CountBy(logins, func(t time.Time) string { return aggregate.DayKey(t, loc) })

	newThisWeek, err := s.users.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("error counting new users: %w", err)
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}

	months := aggregate.Months(now, s.analytics.HalfYearMonths)
	monthly := make(map[string]map[string]int64, len(s.series))
	for name, counter := range s.series {
		counts, err := counter.CreatedPerMonth(ctx, aggregate.Since(months), loc.String())
		if err != nil {
			return nil, fmt.Errorf("error counting %s per month: %w", name, err)
		}
		monthly[name] = counts
	}

	return &dto.UserActivity{
		ActiveToday:     perDay[aggregate.DayKey(now, loc)],
		ActiveTodayPrev: perDay[aggregate.DayKey(now.AddDate(0, 0, -1), loc)],
		NewThisWeek:     newThisWeek,
		Past7DaysCount: int64(lo.CountBy(logins, func(t time.Time) bool {
			return !t.Before(weekAgo)
		})),
		LoginTraffic:  dto.DailyCountsFrom(aggregate.ZeroFill(days, perDay)),
		HalfYearStats: dto.MonthlyStatsFrom(aggregate.Zip(months, monthly)),
		TotalUsers:    totalUsers,
		Timezone:      loc.String(),
	}, nil
}

// Create adds an operator account with a hashed password
func (s *userServiceImpl) Create(ctx context.Context, name, email, password string, role models.Role) (*dto.UserResponse, error) {
	v := apperrors.NewValidationError()
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		v.Add("name", "The name field is required.")
	}
	if email == "" {
		v.Add("email", "The email field is required.")
	}
	if len(password) < 8 {
		v.Add("password", "The password field must be at least 8 characters.")
	}
	if !models.Contains(models.Roles, role) {
		v.Add("role", "The selected role is invalid.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user := &models.User{Name: name, Email: email, Password: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", user.ID).Str("role", string(role)).Msg("User created")
	resp := dto.NewUserResponse(*user)
	return &resp, nil
}

// Delete removes an account. Admins cannot remove their own.
func (s *userServiceImpl) Delete(ctx context.Context, principalID, id int64) error {
	if principalID == id {
		return apperrors.NewConflictError("You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Int64("by", principalID).Msg("User deleted")
	return nil
}
