// Package seed creates the data a fresh installation needs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
)

// Admin is the account created on first start.
type Admin struct {
	Name     string
	Email    string
	Password string
}

type accountLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type accountCreator interface {
	Create(ctx context.Context, name, email, password string, role models.Role) (*dto.UserResponse, error)
}

// CreateDefaultData creates the admin account unless one with the same email
// exists. An empty password skips the step.
func CreateDefaultData(ctx context.Context, users accountLookup, creator accountCreator, admin Admin, lgr zerolog.Logger) error {
	if admin.Password == "" {
		lgr.Warn().Msg("Admin password not configured, skipping admin seed")
		return nil
	}

	_, err := users.GetByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		lgr.Info().Str("email", admin.Email).Msg("Admin user already exists, skipping creation")
		return nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return fmt.Errorf("error checking admin user: %w", err)
	}

	created, err := creator.Create(ctx, admin.Name, admin.Email, admin.Password, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("error creating admin user: %w", err)
	}
	lgr.Info().Int64("adminID", created.ID).Msg("Default admin user created successfully")
	return nil
}
