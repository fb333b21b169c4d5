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
)

// UserService defines user management operations
type UserService interface {
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRole(ctx context.Context, role string) ([]*models.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type userServiceImpl struct {
	userRepo  repositories.IUserRepository
	groupRepo repositories.IGroupRepository
	logger    zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.IUserRepository, groupRepo repositories.IGroupRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// validateGroupRole enforces that a group is set exactly when the role is SG, and that it exists
func validateGroupRole(ctx context.Context, groups repositories.IGroupRepository, role models.Role, groupID *int64) error {
	if role == models.RoleStudentGroup {
		if groupID == nil {
			return invalidf("Group ID is required for users with role 'SG'")
		}
		exists, err := groups.Exists(ctx, *groupID)
		if err != nil {
			return fmt.Errorf("error checking group: %w", err)
		}
		if !exists {
			return invalidf("Group with ID %d not found", *groupID)
		}
		return nil
	}
	if groupID != nil {
		return invalidf("Only users with role 'SG' can be assigned to a group")
	}
	return nil
}

func (s *userServiceImpl) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrUserNotFound, "User with ID %d not found", id)
	}
	return user, nil
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrUserNotFound, "User with email %s not found", email)
	}
	return user, nil
}

func (s *userServiceImpl) GetByRole(ctx context.Context, role string) ([]*models.User, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return s.userRepo.GetByRole(ctx, r)
}

func (s *userServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validateGroupRole(ctx, s.groupRepo, role, req.GroupID); err != nil {
		return nil, err
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
			fmt.Sprintf("User with email %s already exists", emailAddr))
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      emailAddr,
		Role:       role,
		GroupID:    req.GroupID,
		Phone:      req.Phone,
		Department: req.Department,
		GoogleID:   req.GoogleID,
		IsActive:   true,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = &hash
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
				fmt.Sprintf("User with email %s already exists", emailAddr))
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		emailAddr := strings.ToLower(strings.TrimSpace(*req.Email))
		if emailAddr != user.Email {
			if other, err := s.userRepo.GetByEmail(ctx, emailAddr); err == nil && other.ID != user.ID {
				return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
					fmt.Sprintf("User with email %s already exists", emailAddr))
			}
		}
		user.Email = emailAddr
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		user.Role = role
	}
	if req.ClearGroup {
		user.GroupID = nil
	} else if req.GroupID != nil {
		user.GroupID = req.GroupID
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = &hash
	}

	if err := validateGroupRole(ctx, s.groupRepo, user.Role, user.GroupID); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
				fmt.Sprintf("User with email %s already exists", user.Email))
		}
		return nil, describeNotFound(err, apperrors.ErrUserNotFound, "User with ID %d not found", id)
	}
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrUserNotFound, "User with ID %d not found", id)
	}
	return nil
}

func (s *userServiceImpl) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.userRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error deleting users: %w", err)
	}
	s.logger.Warn().Int64("count", n).Msg("All users deleted")
	return n, nil
}
