package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/auth"
)

type authUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	TouchLogout(ctx context.Context, id int64, at time.Time) error
}

// AuthService handles authentication operations
type AuthService struct {
	users      authUserStore
	jwtService *auth.JWTService
	now        Clock
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users authUserStore, jwtService *auth.JWTService, now Clock, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		now:        now,
		logger:     logger,
	}
}

// Login authenticates a user and records the login time
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Info().Int64("userID", user.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	at := s.now()
	if err := s.users.TouchLogin(ctx, user.ID, at); err != nil {
		return nil, fmt.Errorf("error recording login: %w", err)
	}
	user.LastLoginAt = &at

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.NewUserResponse(*user),
	}, nil
}

// Logout records the logout time. Tokens are stateless and simply expire.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.users.TouchLogout(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("error recording logout: %w", err)
	}
	s.logger.Info().Int64("userID", userID).Msg("User logged out")
	return nil
}

// Me returns the principal's account
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(*user)
	return &resp, nil
}
