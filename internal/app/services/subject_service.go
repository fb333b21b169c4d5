package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// SubjectService defines subject operations
type SubjectService interface {
	GetAll(ctx context.Context) ([]*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error)
	GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	GetByAssistant(ctx context.Context, assistantID int64) ([]*models.Subject, error)
	Create(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
}

type subjectServiceImpl struct {
	subjectRepo repositories.ISubjectRepository
	userRepo    repositories.IUserRepository
	groupRepo   repositories.IGroupRepository
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjectRepo repositories.ISubjectRepository, userRepo repositories.IUserRepository, groupRepo repositories.IGroupRepository) SubjectService {
	return &subjectServiceImpl{
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
	}
}

// requireTeacher checks that id references a CD user. label names the field in messages.
func requireTeacher(ctx context.Context, users repositories.IUserRepository, id int64, label string) error {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return invalidf("%s with ID %d not found", label, id)
		}
		return fmt.Errorf("error loading %s: %w", strings.ToLower(label), err)
	}
	if user.Role != models.RoleTeacher {
		return invalidf("User with ID %d is not a teacher (role 'CD')", id)
	}
	return nil
}

func (s *subjectServiceImpl) validateReferences(ctx context.Context, subject *models.Subject) error {
	if err := requireTeacher(ctx, s.userRepo, subject.TeacherID, "Teacher"); err != nil {
		return err
	}
	exists, err := s.groupRepo.Exists(ctx, subject.GroupID)
	if err != nil {
		return fmt.Errorf("error checking group: %w", err)
	}
	if !exists {
		return invalidf("Group with ID %d not found", subject.GroupID)
	}
	for _, id := range subject.AssistantIDs {
		if err := requireTeacher(ctx, s.userRepo, id, "Assistant"); err != nil {
			return err
		}
	}
	return nil
}

func (s *subjectServiceImpl) GetAll(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

func (s *subjectServiceImpl) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", id)
	}
	return subject, nil
}

func (s *subjectServiceImpl) GetByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error) {
	return s.subjectRepo.GetByGroup(ctx, groupID)
}

func (s *subjectServiceImpl) GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	return s.subjectRepo.GetByTeacher(ctx, teacherID)
}

func (s *subjectServiceImpl) GetByAssistant(ctx context.Context, assistantID int64) ([]*models.Subject, error) {
	return s.subjectRepo.GetByAssistant(ctx, assistantID)
}

func (s *subjectServiceImpl) Create(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		Name:         strings.TrimSpace(req.Name),
		ShortName:    strings.TrimSpace(req.ShortName),
		StudyProgram: req.StudyProgram,
		StudyYear:    req.StudyYear,
		GroupID:      req.GroupID,
		TeacherID:    req.TeacherID,
		AssistantIDs: req.AssistantIDs,
	}
	if subject.Name == "" {
		return nil, invalidf("Subject name cannot be empty")
	}
	if subject.AssistantIDs == nil {
		subject.AssistantIDs = []int64{}
	}
	if err := s.validateReferences(ctx, subject); err != nil {
		return nil, err
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("error creating subject: %w", err)
	}
	return subject, nil
}

func (s *subjectServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
		if subject.Name == "" {
			return nil, invalidf("Subject name cannot be empty")
		}
	}
	if req.ShortName != nil {
		subject.ShortName = strings.TrimSpace(*req.ShortName)
	}
	if req.StudyProgram != nil {
		subject.StudyProgram = req.StudyProgram
	}
	if req.StudyYear != nil {
		subject.StudyYear = req.StudyYear
	}
	if req.GroupID != nil {
		subject.GroupID = *req.GroupID
	}
	if req.TeacherID != nil {
		subject.TeacherID = *req.TeacherID
	}
	if req.AssistantIDs != nil {
		subject.AssistantIDs = *req.AssistantIDs
	}
	if err := s.validateReferences(ctx, subject); err != nil {
		return nil, err
	}
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, describeNotFound(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", id)
	}
	return subject, nil
}

func (s *subjectServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", id)
	}
	return nil
}
