package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// GroupService defines group operations
type GroupService interface {
	GetAll(ctx context.Context) ([]*models.Group, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByName(ctx context.Context, name string) (*models.Group, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, req *dto.GroupRequest) (*models.Group, error)
	Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type groupServiceImpl struct {
	groupRepo repositories.IGroupRepository
}

// NewGroupService creates a new group service instance
func NewGroupService(groupRepo repositories.IGroupRepository) GroupService {
	return &groupServiceImpl{groupRepo: groupRepo}
}

func (s *groupServiceImpl) GetAll(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.GetAll(ctx)
}

func (s *groupServiceImpl) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrGroupNotFound, "Group with ID %d not found", id)
	}
	return group, nil
}

func (s *groupServiceImpl) GetByName(ctx context.Context, name string) (*models.Group, error) {
	group, err := s.groupRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrGroupNotFound, "Group with name '%s' not found", name)
	}
	return group, nil
}

func (s *groupServiceImpl) Exists(ctx context.Context, id int64) (bool, error) {
	return s.groupRepo.Exists(ctx, id)
}

func (s *groupServiceImpl) Create(ctx context.Context, req *dto.GroupRequest) (*models.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("Group name cannot be empty")
	}
	group := &models.Group{
		Name:                    name,
		StudyYear:               req.StudyYear,
		SpecializationShortName: strings.TrimSpace(req.SpecializationShortName),
		GroupIDs:                req.GroupIDs,
	}
	if group.GroupIDs == nil {
		group.GroupIDs = []string{}
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	return group, nil
}

func (s *groupServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, invalidf("Group name cannot be empty")
		}
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.StudyYear != nil {
		group.StudyYear = req.StudyYear
	}
	if req.SpecializationShortName != nil {
		group.SpecializationShortName = strings.TrimSpace(*req.SpecializationShortName)
	}
	if req.GroupIDs != nil {
		group.GroupIDs = *req.GroupIDs
	}
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, describeNotFound(err, apperrors.ErrGroupNotFound, "Group with ID %d not found", id)
	}
	return group, nil
}

func (s *groupServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrGroupNotFound, "Group with ID %d not found", id)
	}
	return nil
}

func (s *groupServiceImpl) DeleteAll(ctx context.Context) (int64, error) {
	return s.groupRepo.DeleteAll(ctx)
}
