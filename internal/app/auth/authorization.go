package auth

import (
	"context"
	"errors"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// Common authorization errors
var (
	ErrNotGroupMember      = apperrors.NewForbiddenError("You can only schedule exams for your own group")
	ErrNotSubjectTeacher   = apperrors.NewForbiddenError("You can only review exams of your own subjects")
	ErrStudentCannotReview = apperrors.NewForbiddenError("Group representatives cannot approve or reject exams")
	ErrAdminAccountsOnly   = apperrors.NewForbiddenError("Only administrators can manage administrator accounts")
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID  int64
	Role    models.Role
	GroupID *int64
}

// IsStaff reports whether the actor manages data for everyone
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSecretariat
}

// CanManageUser allows staff to write user accounts. Any account whose current or requested
// role is ADM can only be written by an administrator.
func CanManageUser(actor Actor, roles ...models.Role) error {
	if !actor.IsStaff() {
		return apperrors.ErrPermissionDenied
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	for _, role := range roles {
		if role == models.RoleAdmin {
			return ErrAdminAccountsOnly
		}
	}
	return nil
}

// AuthorizationService checks ownership of exam schedules
type AuthorizationService struct {
	subjectRepo  repositories.ISubjectRepository
	scheduleRepo repositories.IScheduleRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(subjectRepo repositories.ISubjectRepository, scheduleRepo repositories.IScheduleRepository) *AuthorizationService {
	return &AuthorizationService{
		subjectRepo:  subjectRepo,
		scheduleRepo: scheduleRepo,
	}
}

func (s *AuthorizationService) subject(ctx context.Context, subjectID int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSubjectNotFound) {
			logger.Error().Err(err).Int64("subjectID", subjectID).Msg("Error loading subject for authorization")
		}
		return nil, err
	}
	return subject, nil
}

// CanPropose allows staff, the SG of the subject's group and the subject's teacher
func (s *AuthorizationService) CanPropose(ctx context.Context, actor Actor, subjectID int64) error {
	if actor.IsStaff() {
		return nil
	}
	subject, err := s.subject(ctx, subjectID)
	if err != nil {
		return err
	}
	switch actor.Role {
	case models.RoleStudentGroup:
		if actor.GroupID != nil && *actor.GroupID == subject.GroupID {
			return nil
		}
		return ErrNotGroupMember
	case models.RoleTeacher:
		if subject.TeacherID == actor.UserID {
			return nil
		}
		return ErrNotSubjectTeacher
	}
	return apperrors.ErrPermissionDenied
}

// CanUpdate checks a schedule change. SG users may only move their group's schedules
// between pending and proposed; teachers may change their subjects' schedules freely.
func (s *AuthorizationService) CanUpdate(ctx context.Context, actor Actor, scheduleID int64, newStatus models.ScheduleStatus) error {
	if actor.IsStaff() {
		return nil
	}
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleStudentGroup && (newStatus == models.StatusApproved || newStatus == models.StatusRejected) {
		return ErrStudentCannotReview
	}
	return s.CanPropose(ctx, actor, schedule.SubjectID)
}
