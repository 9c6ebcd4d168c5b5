package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/researchdesk/internal/app/auth"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userTable map[int64]*models.User

func (u userTable) GetByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, apperrors.NewResourceNotFoundError("User not found")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.NewResourceNotFoundError("Research not found"), http.StatusNotFound, "Research not found"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, "Resource not found"},
		{apperrors.NewConflictError("You cannot delete your own account"), http.StatusConflict, "You cannot delete your own account"},
		{appauth.ErrNotAdmin, http.StatusForbidden, "Only administrators can perform this action"},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "These credentials do not match our records."},
		{auth.ErrExpiredToken, http.StatusUnauthorized, "Token has expired"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		resp := decode(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, tc.message, resp.Message)
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	verr := apperrors.NewValidationError().
		Add("type", "The selected type is invalid.").
		Add("research_title", "The research title field is required.")
	HandleAPIError(c, fmt.Errorf("create: %w", verr))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "The research title field is required.", resp.Message)
	assert.Equal(t, "research_title", resp.Error.Field)
	assert.Equal(t, map[string]interface{}{
		"type":           "The selected type is invalid.",
		"research_title": "The research title field is required.",
	}, resp.Error.Details)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "researchdesk"})
	users := userTable{
		1: {ID: 1, Email: "admin@uni.edu", Role: models.RoleAdmin},
		2: {ID: 2, Email: "staff@uni.edu", Role: models.RoleUser},
	}
	m := NewAuthMiddleware(jwtService, appauth.NewAuthorizationService(users))

	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Metrics())
	authed := r.Group("/", m.JWTAuth())
	authed.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": Role(c)})
	})
	authed.DELETE("/thing/:id", m.AdminRequired(), func(c *gin.Context) {
		id, ok := ParseIDParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
	return r, jwtService
}

func bearer(t *testing.T, s *auth.JWTService, user *models.User) string {
	t.Helper()
	token, _, err := s.GenerateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTAuth(t *testing.T) {
	r, jwtService := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decode(t, w).Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decode(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 2, Email: "staff@uni.edu", Role: models.RoleUser}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"role":"user"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAdminRequired_ChecksStoredRole(t *testing.T) {
	r, jwtService := newAuthRouter(t)

	// The token claims admin, but the stored account is a plain user.
	forged := bearer(t, jwtService, &models.User{ID: 2, Email: "staff@uni.edu", Role: models.RoleAdmin})
	req := httptest.NewRequest(http.MethodDelete, "/thing/5", nil)
	req.Header.Set("Authorization", forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := bearer(t, jwtService, &models.User{ID: 1, Email: "admin@uni.edu", Role: models.RoleAdmin})
	req = httptest.NewRequest(http.MethodDelete, "/thing/5", nil)
	req.Header.Set("Authorization", admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":5}`, w.Body.String())

	req = httptest.NewRequest(http.MethodDelete, "/thing/abc", nil)
	req.Header.Set("Authorization", admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
