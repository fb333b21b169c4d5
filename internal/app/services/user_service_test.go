package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
)

func newUserFixture() (UserService, *fakeUsers) {
	users := newFakeUsers(&models.User{ID: 1, FirstName: "Ana", LastName: "Pop", Email: "ana@usv.ro", Role: models.RoleTeacher})
	groups := newFakeGroups(&models.Group{ID: 7, Name: "3141"})
	return NewUserService(users, groups, testLogger), users
}

func TestUserService_CreateGroupRoleInvariant(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		req      dto.CreateUserRequest
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{
			name:     "SG without group",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "a@student.usv.ro", Role: "SG"},
			wantKind: apperrors.KindInvalid,
			wantMsg:  "Group ID is required for users with role 'SG'",
		},
		{
			name:     "SG with missing group",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "a@student.usv.ro", Role: "SG", GroupID: int64Ptr(9)},
			wantKind: apperrors.KindInvalid,
			wantMsg:  "Group with ID 9 not found",
		},
		{
			name:     "CD with group",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "b@usv.ro", Role: "CD", GroupID: int64Ptr(7)},
			wantKind: apperrors.KindInvalid,
		},
		{
			name:     "unknown role",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "c@usv.ro", Role: "XX"},
			wantKind: apperrors.KindInvalid,
		},
		{
			name:     "duplicate email",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "ANA@usv.ro", Role: "CD"},
			wantKind: apperrors.KindConflict,
			wantMsg:  "User with email ana@usv.ro already exists",
		},
		{
			name:     "valid SG",
			req:      dto.CreateUserRequest{FirstName: "A", LastName: "B", Email: "d@student.usv.ro", Role: "sg", GroupID: int64Ptr(7)},
			wantKind: apperrors.KindFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Create(ctx, &tt.req)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperrors.MessageOf(err, ""))
			}
			if tt.wantKind == apperrors.KindFound {
				require.NotNil(t, user)
				assert.Equal(t, models.RoleStudentGroup, user.Role)
			}
		})
	}
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	svc, users := newUserFixture()
	password := "s3cret"

	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "Admin", LastName: "Admin", Email: "admin@usv.ro", Role: "ADM", Password: &password,
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, password, *stored.PasswordHash)
	assert.True(t, auth.CheckPassword(*stored.PasswordHash, password))
}

func TestUserService_UpdateValidatesMergedEntity(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	student, err := svc.Create(ctx, &dto.CreateUserRequest{
		FirstName: "A", LastName: "B", Email: "s@student.usv.ro", Role: "SG", GroupID: int64Ptr(7),
	})
	require.NoError(t, err)

	cd := "CD"
	_, err = svc.Update(ctx, student.ID, &dto.UpdateUserRequest{Role: &cd})
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))

	updated, err := svc.Update(ctx, student.ID, &dto.UpdateUserRequest{Role: &cd, ClearGroup: true})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, updated.Role)
	assert.Nil(t, updated.GroupID)
}

func TestUserService_DeleteMissing(t *testing.T) {
	svc, _ := newUserFixture()

	err := svc.Delete(context.Background(), 999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "User with ID 999 not found", apperrors.MessageOf(err, ""))
}
