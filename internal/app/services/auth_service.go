package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
	"github.com/twaaos/examscheduler/internal/pkg/google"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// Auth errors shown to clients
var (
	ErrIncorrectCredentials = apperrors.NewUnauthorizedError("Incorrect username or password")
	ErrPasswordLoginAdmin   = apperrors.NewForbiddenError("Only admin users can use password login")
	ErrInvalidGoogleToken   = apperrors.NewUnauthorizedError("Invalid Google token")
	ErrDomainNotAllowed     = apperrors.NewForbiddenError("Email domain is not allowed")
	ErrAdminAutoCreate      = apperrors.NewForbiddenError("Administrator accounts cannot be created through Google login")
	ErrIncorrectPassword    = apperrors.NewValidationError("Incorrect current password")
	ErrPasswordChangeAdmin  = apperrors.NewForbiddenError("Only admin users can change their password")
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo       repositories.IUserRepository
	groupRepo      repositories.IGroupRepository
	jwtService     *auth.JWTService
	verifier       google.Verifier
	allowedDomains []string
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	groupRepo repositories.IGroupRepository,
	jwtService *auth.JWTService,
	verifier google.Verifier,
	allowedDomains []string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		jwtService:     jwtService,
		verifier:       verifier,
		allowedDomains: allowedDomains,
		logger:         logger,
	}
}

// ToAuthUser maps a user to the summary returned with tokens
func ToAuthUser(user *models.User) dto.AuthUser {
	return dto.AuthUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
		GroupID:   user.GroupID,
	}
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      ToAuthUser(user),
	}, nil
}

// Login authenticates an administrator with email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Username))
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().Str("email", emailAddr).Msg("Login attempt for unknown user")
			return nil, ErrIncorrectCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", emailAddr).Msg("Login attempt with wrong password")
		return nil, ErrIncorrectCredentials
	}
	if user.Role != models.RoleAdmin {
		return nil, ErrPasswordLoginAdmin
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	s.logger.Info().Int64("userId", user.ID).Msg("Admin logged in")
	return s.tokenResponse(user)
}

// resolveRole decides the role of a Google identity. Development tokens may name a role,
// production roles come from the email domain.
func (s *AuthService) resolveRole(identity *google.Identity) (models.Role, error) {
	if identity.Dev {
		if identity.Role == "" {
			return models.RoleStudentGroup, nil
		}
		role, err := models.ParseRole(identity.Role)
		if err != nil {
			return "", apperrors.NewValidationError(err.Error())
		}
		return role, nil
	}
	role, ok := validation.RoleForEmail(identity.Email, s.allowedDomains)
	if !ok {
		return "", ErrDomainNotAllowed
	}
	return role, nil
}

// GoogleLogin authenticates a Google identity, creating the user on first login
func (s *AuthService) GoogleLogin(ctx context.Context, token string) (*dto.TokenResponse, error) {
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google token rejected")
		return nil, ErrInvalidGoogleToken
	}
	if !identity.Dev && !validation.DomainAllowed(identity.Email, s.allowedDomains) {
		return nil, ErrDomainNotAllowed
	}

	user, err := s.findGoogleUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if user, err = s.createGoogleUser(ctx, identity); err != nil {
			return nil, err
		}
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.tokenResponse(user)
}

// findGoogleUser looks the identity up by Google id, then by email. A user found by
// email gets the Google id attached. It returns nil when no user matches.
func (s *AuthService) findGoogleUser(ctx context.Context, identity *google.Identity) (*models.User, error) {
	if identity.GoogleID != "" {
		user, err := s.userRepo.GetByGoogleID(ctx, identity.GoogleID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
	}

	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if identity.GoogleID != "" && user.GoogleID == nil {
		if err := s.userRepo.AttachGoogleID(ctx, user.ID, identity.GoogleID); err != nil {
			s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to attach Google ID")
		} else {
			user.GoogleID = &identity.GoogleID
		}
	}
	return user, nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, identity *google.Identity) (*models.User, error) {
	role, err := s.resolveRole(identity)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		return nil, ErrAdminAutoCreate
	}

	user := &models.User{
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		IsActive:  true,
	}
	if identity.GoogleID != "" {
		user.GoogleID = &identity.GoogleID
	}
	if role == models.RoleStudentGroup {
		if identity.GroupID != nil {
			exists, err := s.groupRepo.Exists(ctx, *identity.GroupID)
			if err != nil {
				return nil, fmt.Errorf("error checking group: %w", err)
			}
			if exists {
				user.GroupID = identity.GroupID
			}
		}
		if user.GroupID == nil {
			return nil, apperrors.NewForbiddenError(fmt.Sprintf(
				"Student account %s is not registered with a group", identity.Email))
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating Google user: %w", err)
	}
	s.logger.Info().Int64("userId", user.ID).Str("role", string(role)).Str("email", user.Email).Msg("User created from Google login")
	return user, nil
}

// ChangePassword replaces an administrator's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return describeNotFound(err, apperrors.ErrUserNotFound, "User with ID %d not found", userID)
	}
	if user.Role != models.RoleAdmin {
		return ErrPasswordChangeAdmin
	}
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.CurrentPassword) {
		return ErrIncorrectPassword
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	s.logger.Info().Int64("userId", user.ID).Msg("Password changed")
	return nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrUserNotFound, "User with ID %d not found", userID)
	}
	return user, nil
}
