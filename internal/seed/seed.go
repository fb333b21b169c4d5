package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/twaaos/examscheduler/internal/app/models"
	appRepos "github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
)

// AdminAccount describes the administrator created on first start
type AdminAccount struct {
	Email    string
	Password string
}

// CreateDefaultData creates the administrator account if no user with its email exists.
// An existing account is left untouched, including its password.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Default admin credentials not configured, skipping seed")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Checking default admin account...")
	existing, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		lgr.Debug().Int64("userId", existing.ID).Msg("Default admin already present")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := &appModels.User{
		FirstName:    "Admin",
		LastName:     "USV",
		Email:        email,
		Role:         appModels.RoleAdmin,
		PasswordHash: &hash,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}
	lgr.Info().Int64("userId", user.ID).Msg("Default admin created")
	return nil
}
