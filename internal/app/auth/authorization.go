package auth

import (
	"context"
	"errors"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/logger"
)

// ErrNotAdmin is returned when a write is attempted without the admin role.
var ErrNotAdmin = apperrors.NewForbiddenError("Only administrators can perform this action")

// UserLookup reads operator accounts.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService decides what an authenticated principal may do.
// Roles are read from the store on every check, so a demoted admin loses
// write access before their token expires.
type AuthorizationService struct {
	users UserLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserLookup) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// IsAdmin checks if the user currently holds the admin role
func (s *AuthorizationService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in IsAdmin")
		return false, err
	}
	return user.IsAdmin(), nil
}

// ValidateAdmin returns ErrNotAdmin unless the user is an admin
func (s *AuthorizationService) ValidateAdmin(ctx context.Context, userID int64) error {
	ok, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}
