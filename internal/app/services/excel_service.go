package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/excel"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// ExcelService imports users from spreadsheets
type ExcelService interface {
	ImportGroupLeaders(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

type excelServiceImpl struct {
	userRepo  repositories.IUserRepository
	groupRepo repositories.IGroupRepository
	logger    zerolog.Logger
}

// NewExcelService creates a new excel service instance
func NewExcelService(userRepo repositories.IUserRepository, groupRepo repositories.IGroupRepository, logger zerolog.Logger) ExcelService {
	return &excelServiceImpl{userRepo: userRepo, groupRepo: groupRepo, logger: logger}
}

func (s *excelServiceImpl) ImportGroupLeaders(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	leaders, err := excel.ParseGroupLeaders(r)
	if err != nil {
		return nil, invalidf("Could not read group leaders: %v", err)
	}

	result := &dto.ImportResult{Errors: []string{}}
	groups := make(map[string]*models.Group)
	for _, leader := range leaders {
		emailAddr := strings.ToLower(strings.TrimSpace(leader.Email))
		if !validation.IsEmail(emailAddr) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid email '%s'", leader.Row, leader.Email))
			continue
		}

		if _, err := s.userRepo.GetByEmail(ctx, emailAddr); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("error checking user %s: %w", emailAddr, err)
		}

		group, ok := groups[leader.GroupName]
		if !ok {
			group, err = s.groupRepo.GetByName(ctx, leader.GroupName)
			if err != nil && !errors.Is(err, apperrors.ErrGroupNotFound) {
				return nil, fmt.Errorf("error loading group %s: %w", leader.GroupName, err)
			}
			groups[leader.GroupName] = group
		}
		if group == nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: group '%s' not found", leader.Row, leader.GroupName))
			continue
		}

		groupID := group.ID
		user := &models.User{
			FirstName: leader.FirstName,
			LastName:  leader.LastName,
			Email:     emailAddr,
			Role:      models.RoleStudentGroup,
			GroupID:   &groupID,
			IsActive:  true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
				result.Skipped++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", leader.Row, err))
			continue
		}
		result.Created++
	}

	result.Success = result.Failed == 0
	result.Message = fmt.Sprintf("Imported %d group leaders (%d skipped, %d failed)", result.Created, result.Skipped, result.Failed)
	s.logger.Info().Int("created", result.Created).Int("skipped", result.Skipped).Int("failed", result.Failed).Msg("Group leader import finished")
	return result, nil
}
