package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/email"
)

func newConfigFixture() (ConfigService, *fakeSchedules, *email.LogSender, *fakeNotifications) {
	schedules := newFakeSchedules(&models.Schedule{ID: 1, SubjectID: 1, Status: statusPtr(models.StatusApproved)})
	users := newFakeUsers(
		&models.User{ID: 1, FirstName: "Tudor", LastName: "Albu", Email: "tudor@student.usv.ro", Role: models.RoleStudentGroup, GroupID: int64Ptr(7)},
		&models.User{ID: 2, FirstName: "Ion", LastName: "Pop", Email: "ion@student.usv.ro", Role: models.RoleStudentGroup, GroupID: int64Ptr(8)},
		&models.User{ID: 3, FirstName: "Matei", LastName: "Neagu", Email: "matei@usv.ro", Role: models.RoleTeacher},
	)
	notifier, sender, notifications := newTestNotifier()
	svc := NewConfigService(newFakePeriods(), schedules, users, notifier, testLogger)
	return svc, schedules, sender, notifications
}

func TestConfigService_RejectsInvertedPeriod(t *testing.T) {
	svc, schedules, sender, _ := newConfigFixture()

	_, err := svc.Create(context.Background(), &dto.ConfigRequest{StartDate: "2025-09-01", EndDate: "2025-08-01"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
	assert.Equal(t, "End date must be after start date", apperrors.MessageOf(err, ""))
	assert.Zero(t, schedules.resetCalls)
	assert.Empty(t, sender.Sent())

	_, err = svc.Create(context.Background(), &dto.ConfigRequest{StartDate: "2025-09-01", EndDate: "2025-09-01"})
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
}

func TestConfigService_CreateCascades(t *testing.T) {
	svc, schedules, sender, notifications := newConfigFixture()
	ctx := context.Background()

	period, err := svc.Create(ctx, &dto.ConfigRequest{StartDate: "2025-06-01", EndDate: "2025-06-20"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", ToConfigResponse(period).StartDate)

	assert.Equal(t, 1, schedules.resetCalls)
	stored, err := schedules.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.StatusOrEmpty())

	sent := sender.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, email.PeriodSubject, sent[0].Subject)
	assert.Len(t, notifications.forUser(1), 1)
	assert.Len(t, notifications.forUser(2), 1)
	assert.Empty(t, notifications.forUser(3))

	current, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, period.ID, current.ID)
}

func TestConfigService_UpdatePartial(t *testing.T) {
	svc, schedules, _, _ := newConfigFixture()
	ctx := context.Background()

	period, err := svc.Create(ctx, &dto.ConfigRequest{StartDate: "2025-06-01", EndDate: "2025-06-20"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, period.ID, &dto.UpdateConfigRequest{EndDate: strp("2025-05-01")})
	assert.Equal(t, "End date must be after start date", apperrors.MessageOf(err, ""))

	updated, err := svc.Update(ctx, period.ID, &dto.UpdateConfigRequest{EndDate: strp("2025-06-25")})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-25", ToConfigResponse(updated).EndDate)
	assert.Equal(t, 2, schedules.resetCalls)

	_, err = svc.Update(ctx, 99, &dto.UpdateConfigRequest{})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
