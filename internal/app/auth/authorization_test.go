package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

type stubSubjects struct {
	repositories.ISubjectRepository
	subjects map[int64]*models.Subject
}

func (s stubSubjects) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	if sub, ok := s.subjects[id]; ok {
		return sub, nil
	}
	return nil, apperrors.ErrSubjectNotFound
}

type stubSchedules struct {
	repositories.IScheduleRepository
	schedules map[int64]*models.Schedule
}

func (s stubSchedules) GetByID(_ context.Context, id int64) (*models.Schedule, error) {
	if sch, ok := s.schedules[id]; ok {
		return sch, nil
	}
	return nil, apperrors.ErrScheduleNotFound
}

func newStubService() *AuthorizationService {
	return NewAuthorizationService(
		stubSubjects{subjects: map[int64]*models.Subject{1: {ID: 1, GroupID: 7, TeacherID: 42}}},
		stubSchedules{schedules: map[int64]*models.Schedule{10: {ID: 10, SubjectID: 1}}},
	)
}

func TestCanPropose(t *testing.T) {
	group7, group8 := int64(7), int64(8)
	s := newStubService()

	tests := []struct {
		name    string
		actor   Actor
		want    error
		wantErr bool
	}{
		{name: "admin", actor: Actor{UserID: 1, Role: models.RoleAdmin}},
		{name: "secretariat", actor: Actor{UserID: 2, Role: models.RoleSecretariat}},
		{name: "own group", actor: Actor{UserID: 3, Role: models.RoleStudentGroup, GroupID: &group7}},
		{name: "other group", actor: Actor{UserID: 4, Role: models.RoleStudentGroup, GroupID: &group8}, want: ErrNotGroupMember, wantErr: true},
		{name: "teacher of subject", actor: Actor{UserID: 42, Role: models.RoleTeacher}},
		{name: "other teacher", actor: Actor{UserID: 43, Role: models.RoleTeacher}, want: ErrNotSubjectTeacher, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CanPropose(context.Background(), tt.actor, 1)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanUpdate(t *testing.T) {
	group7 := int64(7)
	s := newStubService()
	sg := Actor{UserID: 3, Role: models.RoleStudentGroup, GroupID: &group7}

	assert.NoError(t, s.CanUpdate(context.Background(), sg, 10, models.StatusProposed))
	assert.ErrorIs(t, s.CanUpdate(context.Background(), sg, 10, models.StatusApproved), ErrStudentCannotReview)
	assert.NoError(t, s.CanUpdate(context.Background(), Actor{UserID: 42, Role: models.RoleTeacher}, 10, models.StatusRejected))

	err := s.CanUpdate(context.Background(), Actor{UserID: 42, Role: models.RoleTeacher}, 99, models.StatusApproved)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCanManageUser(t *testing.T) {
	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	secretariat := Actor{UserID: 2, Role: models.RoleSecretariat}
	teacher := Actor{UserID: 3, Role: models.RoleTeacher}

	assert.NoError(t, CanManageUser(admin, models.RoleAdmin))
	assert.NoError(t, CanManageUser(secretariat, models.RoleTeacher, models.RoleStudentGroup))
	assert.ErrorIs(t, CanManageUser(secretariat, models.RoleTeacher, models.RoleAdmin), ErrAdminAccountsOnly)
	assert.ErrorIs(t, CanManageUser(teacher, models.RoleTeacher), apperrors.ErrPermissionDenied)
}
