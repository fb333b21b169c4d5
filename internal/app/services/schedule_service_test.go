package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

func strp(s string) *string { return &s }

func statusPtr(s models.ScheduleStatus) *models.ScheduleStatus { return &s }

var examDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

type scheduleFixture struct {
	svc       ScheduleService
	schedules *fakeSchedules
}

// newScheduleFixture has room 5 booked 10:00-12:00 by an approved exam of subject 1
// and a proposed schedule for subject 2 in the same room.
func newScheduleFixture(block bool) scheduleFixture {
	day := examDay
	schedules := newFakeSchedules(
		&models.Schedule{ID: 1, SubjectID: 1, RoomIDs: []int64{5}, Date: &day, StartTime: strp("10:00"), EndTime: strp("12:00"), Status: statusPtr(models.StatusApproved)},
		&models.Schedule{ID: 2, SubjectID: 2, RoomIDs: []int64{5}, Date: &day, StartTime: strp("11:00"), EndTime: strp("13:00"), Status: statusPtr(models.StatusProposed)},
	)
	subjects := newFakeSubjects(
		&models.Subject{ID: 1, Name: "Baze de date", GroupID: 7, TeacherID: 10, AssistantIDs: []int64{11, 99}},
		&models.Subject{ID: 2, Name: "Retele", GroupID: 7, TeacherID: 10},
		&models.Subject{ID: 3, Name: "Grafica", GroupID: 7, TeacherID: 10},
	)
	rooms := newFakeRooms(&models.Room{ID: 5, Name: "C201"}, &models.Room{ID: 6, Name: "C202"})
	users := newFakeUsers(
		&models.User{ID: 10, Email: "cd@usv.ro", Role: models.RoleTeacher},
		&models.User{ID: 11, Email: "asist@usv.ro", Role: models.RoleTeacher},
		&models.User{ID: 12, Email: "sg@student.usv.ro", Role: models.RoleStudentGroup, GroupID: int64Ptr(7)},
	)
	svc := NewScheduleService(schedules, subjects, rooms, users, ScheduleOptions{BlockOnConflict: block}, testLogger)
	return scheduleFixture{svc: svc, schedules: schedules}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.ScheduleStatus
		wantErr bool
	}{
		{"Approved", models.StatusApproved, false},
		{"approved", models.StatusApproved, false},
		{" PENDING ", models.StatusPending, false},
		{"rejected", models.StatusRejected, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CheckStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CheckStatus("done")
	assert.Equal(t, "Invalid status 'done'. Allowed values: pending, proposed, approved, rejected", apperrors.MessageOf(err, ""))
}

func TestScheduleService_CheckConflicts(t *testing.T) {
	f := newScheduleFixture(false)

	tests := []struct {
		name      string
		req       dto.ConflictCheckRequest
		wantCount int
	}{
		{"overlapping in same room", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "11:00", EndTime: "13:00", RoomIDs: []int64{5}}, 1},
		{"touching endpoints", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "12:00", EndTime: "14:00", RoomIDs: []int64{5}}, 0},
		{"other room", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "11:00", EndTime: "13:00", RoomIDs: []int64{6}}, 0},
		{"other day", dto.ConflictCheckRequest{Date: "2025-06-11", StartTime: "11:00", EndTime: "13:00", RoomIDs: []int64{5}}, 0},
		{"excluding itself", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "10:00", EndTime: "12:00", RoomIDs: []int64{5}, ScheduleID: int64Ptr(1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := f.svc.CheckConflicts(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Len(t, report.RoomConflicts, tt.wantCount)
			assert.Equal(t, tt.wantCount > 0, report.HasConflicts)
			assert.Empty(t, report.AssistantConflicts)
			assert.Empty(t, report.TeacherConflicts)
			assert.Equal(t, []string{"assistants", "teachers"}, report.UncheckedDimensions)
		})
	}

	report, err := f.svc.CheckConflicts(context.Background(), &tests[0].req)
	require.NoError(t, err)
	assert.Equal(t, dto.RoomConflict{
		RoomID: 5, RoomName: "C201", ScheduleID: 1, SubjectID: 1, SubjectName: "Baze de date",
		Date: "2025-06-10", StartTime: "10:00", EndTime: "12:00",
	}, report.RoomConflicts[0])
}

func TestScheduleService_CheckConflictsValidation(t *testing.T) {
	f := newScheduleFixture(false)

	tests := []struct {
		name string
		req  dto.ConflictCheckRequest
	}{
		{"start after end", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "13:00", EndTime: "11:00"}},
		{"bad date", dto.ConflictCheckRequest{Date: "10.06.2025", StartTime: "11:00", EndTime: "13:00"}},
		{"unknown room", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "11:00", EndTime: "13:00", RoomIDs: []int64{77}}},
		{"assistant not CD", dto.ConflictCheckRequest{Date: "2025-06-10", StartTime: "11:00", EndTime: "13:00", AssistantIDs: []int64{12}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CheckConflicts(context.Background(), &tt.req)
			assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
		})
	}
}

func TestScheduleService_ApproveWithConflict(t *testing.T) {
	approved := "approved"

	t.Run("logged when not blocking", func(t *testing.T) {
		f := newScheduleFixture(false)
		updated, err := f.svc.Update(context.Background(), 2, &dto.UpdateScheduleRequest{Status: &approved})
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, updated.StatusOrEmpty())
	})

	t.Run("rejected when blocking", func(t *testing.T) {
		f := newScheduleFixture(true)
		_, err := f.svc.Update(context.Background(), 2, &dto.UpdateScheduleRequest{Status: &approved})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		report, ok := apperrors.DetailsOf(err)["conflicts"].(*dto.ConflictReport)
		require.True(t, ok)
		assert.Len(t, report.RoomConflicts, 1)

		stored, err := f.schedules.GetByID(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, models.StatusProposed, stored.StatusOrEmpty())
	})

	t.Run("free slot passes when blocking", func(t *testing.T) {
		f := newScheduleFixture(true)
		_, err := f.svc.Update(context.Background(), 2, &dto.UpdateScheduleRequest{Status: &approved, StartTime: strp("12:00"), EndTime: strp("14:00")})
		require.NoError(t, err)
	})
}

func TestScheduleService_CreateValidation(t *testing.T) {
	f := newScheduleFixture(false)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 99})
	assert.Equal(t, "Subject with ID 99 not found", apperrors.MessageOf(err, ""))

	_, err = f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 3, RoomIDs: []int64{77}})
	assert.Equal(t, "Room with ID 77 not found", apperrors.MessageOf(err, ""))

	_, err = f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 3, Message: strp(strings.Repeat("a", 201))})
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))

	_, err = f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 3, StartTime: strp("12:00"), EndTime: strp("10:00")})
	assert.Equal(t, "Start time must be before end time", apperrors.MessageOf(err, ""))

	_, err = f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 1})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	created, err := f.svc.Create(ctx, &dto.ScheduleRequest{SubjectID: 3, Date: strp("2025-06-12"), StartTime: strp("9:00"), Status: strp("Pending")})
	require.NoError(t, err)
	assert.Equal(t, "09:00", *created.StartTime)
	assert.Equal(t, models.StatusPending, created.StatusOrEmpty())
	resp := ToScheduleResponse(created)
	assert.Equal(t, "2025-06-12", *resp.Date)
	assert.Equal(t, "pending", *resp.Status)
}

func TestScheduleService_GetAssistants(t *testing.T) {
	f := newScheduleFixture(false)

	assistants, err := f.svc.GetAssistants(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, assistants, 1)
	assert.Equal(t, int64(11), assistants[0].ID)

	_, err = f.svc.GetAssistants(context.Background(), 50)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
