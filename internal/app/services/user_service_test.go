package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/auth"
)

func TestUserActivity_PinnedClock(t *testing.T) {
	loc := manila(t)
	// 10:00 on 2024-06-15 in Manila.
	now := time.Date(2024, 6, 15, 2, 0, 0, 0, time.UTC)

	users := newFakeUsers(models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin})
	users.logins = []time.Time{
		time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), // 07:00 today
		time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC),  // 09:00 today
		time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC), // 18:00 yesterday
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	users.created = 2
	users.monthly = map[string]int64{"2024-06": 3}

	svc := NewUserService(users, map[string]MonthlyCounter{
		dto.SeriesResearch: fixedMonthly{"2024-01": 2, "2023-12": 9},
	}, Analytics{Location: loc, HalfYearMonths: 6, LoginTrafficDays: 30}, func() time.Time { return now }, zerolog.Nop())

	a, err := svc.Activity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), a.ActiveToday)
	assert.Equal(t, int64(1), a.ActiveTodayPrev)
	assert.Equal(t, int64(4), a.Past7DaysCount)
	assert.Equal(t, int64(2), a.NewThisWeek)
	assert.Equal(t, int64(1), a.TotalUsers)
	assert.Equal(t, "Asia/Manila", a.Timezone)

	require.Len(t, a.LoginTraffic, 30)
	assert.Equal(t, dto.DailyCount{Date: "2024-06-15", Count: 2}, a.LoginTraffic[29])
	assert.Equal(t, dto.DailyCount{Date: "2024-06-14", Count: 1}, a.LoginTraffic[28])
	assert.Equal(t, "2024-05-17", a.LoginTraffic[0].Date)
	var total int64
	for _, d := range a.LoginTraffic {
		total += d.Count
	}
	assert.Equal(t, int64(5), total)

	require.Len(t, a.HalfYearStats, 6)
	assert.Equal(t, dto.MonthlyStats{Month: "Jan", Research: 2}, a.HalfYearStats[0])
	assert.Equal(t, dto.MonthlyStats{Month: "Jun", Users: 3}, a.HalfYearStats[5])
	assert.Equal(t, dto.MonthlyStats{Month: "Mar"}, a.HalfYearStats[2])
}

func TestUserDashboard_ListsAndEchoes(t *testing.T) {
	users := newFakeUsers(
		models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin},
		models.User{ID: 2, Name: "Staff", Role: models.RoleUser},
	)
	svc := NewUserService(users, nil, Analytics{Location: time.UTC, HalfYearMonths: 6, LoginTrafficDays: 30}, time.Now, zerolog.Nop())

	u, _ := url.Parse("/api/v1/admin/users?role=user&page=1")
	resp, err := svc.Dashboard(context.Background(), dto.ParseUserFilter(u.Query()), u)
	require.NoError(t, err)

	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Data[0].ID)
	assert.Equal(t, map[string]string{"role": "user"}, resp.Filters)
	assert.Equal(t, int64(2), resp.TotalUsers)
}

func TestUserCreate(t *testing.T) {
	users := newFakeUsers()
	svc := NewUserService(users, nil, Analytics{Location: time.UTC}, time.Now, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, " ", "a@b.c", "short", "root")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "role")

	created, err := svc.Create(ctx, "Jane Cruz", "jcruz@uni.edu", "correct horse", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)

	stored := users.rows[created.ID]
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "correct horse"))
}

func TestUserDelete_NotSelf(t *testing.T) {
	users := newFakeUsers(
		models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin},
		models.User{ID: 2, Name: "Staff", Role: models.RoleUser},
	)
	svc := NewUserService(users, nil, Analytics{Location: time.UTC}, time.Now, zerolog.Nop())
	ctx := context.Background()

	err := svc.Delete(ctx, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, users.rows, int64(1))

	require.NoError(t, svc.Delete(ctx, 1, 2))
	assert.NotContains(t, users.rows, int64(2))

	assert.ErrorIs(t, svc.Delete(ctx, 1, 2), apperrors.ErrResourceNotFound)
}
