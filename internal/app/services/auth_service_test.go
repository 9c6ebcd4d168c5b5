package services

import (
	"context"
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

func newAuthFixture(t *testing.T, now time.Time) (*AuthService, *fakeUsers, *auth.JWTService) {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	users := newFakeUsers(models.User{ID: 1, Name: "Admin", Email: "admin@uni.edu", Password: hash, Role: models.RoleAdmin})
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "researchdesk"})
	return NewAuthService(users, jwt, func() time.Time { return now }, zerolog.Nop()), users, jwt
}

func TestLogin(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	svc, users, jwt := newAuthFixture(t, now)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ADMIN@uni.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
	assert.Equal(t, int64(1), resp.User.ID)
	require.NotNil(t, users.rows[1].LastLoginAt)
	assert.True(t, users.rows[1].LastLoginAt.Equal(now))

	claims, err := jwt.ValidateToken(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, users, _ := newAuthFixture(t, time.Now())
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@uni.edu", Password: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Nil(t, users.rows[1].LastLoginAt)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@uni.edu", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutAndMe(t *testing.T) {
	now := time.Now()
	svc, users, _ := newAuthFixture(t, now)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, 1))
	require.NotNil(t, users.rows[1].LastLogoutAt)

	me, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin@uni.edu", me.Email)

	_, err = svc.Me(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
