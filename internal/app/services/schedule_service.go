package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// Dimensions of the conflict check that are not evaluated
var uncheckedConflictDimensions = []string{"assistants", "teachers"}

// ScheduleService defines schedule operations
type ScheduleService interface {
	GetAll(ctx context.Context) ([]*models.Schedule, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	GetByRoom(ctx context.Context, roomID int64) ([]*models.Schedule, error)
	GetBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error)
	GetByDate(ctx context.Context, date string) ([]*models.Schedule, error)
	GetByStatus(ctx context.Context, status string) ([]*models.Schedule, error)
	GetByTeacher(ctx context.Context, teacherID int64, status string) ([]*models.Schedule, error)
	GetByGroup(ctx context.Context, groupID int64) ([]*models.Schedule, error)
	GetAssistants(ctx context.Context, subjectID int64) ([]*models.User, error)
	Create(ctx context.Context, req *dto.ScheduleRequest) (*models.Schedule, error)
	Update(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*models.Schedule, error)
	Delete(ctx context.Context, id int64) error
	CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictReport, error)
}

// ScheduleOptions tunes the approval workflow
type ScheduleOptions struct {
	// BlockOnConflict makes an approval fail when the slot clashes with another approved exam
	BlockOnConflict bool
}

type scheduleServiceImpl struct {
	scheduleRepo repositories.IScheduleRepository
	subjectRepo  repositories.ISubjectRepository
	roomRepo     repositories.IRoomRepository
	userRepo     repositories.IUserRepository
	options      ScheduleOptions
	logger       zerolog.Logger
}

// NewScheduleService creates a new schedule service instance
func NewScheduleService(
	scheduleRepo repositories.IScheduleRepository,
	subjectRepo repositories.ISubjectRepository,
	roomRepo repositories.IRoomRepository,
	userRepo repositories.IUserRepository,
	options ScheduleOptions,
	logger zerolog.Logger,
) ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		subjectRepo:  subjectRepo,
		roomRepo:     roomRepo,
		userRepo:     userRepo,
		options:      options,
		logger:       logger,
	}
}

// CheckStatus validates a schedule status case-insensitively and returns its normalized form
func CheckStatus(status string) (models.ScheduleStatus, error) {
	normalized := models.ScheduleStatus(strings.ToLower(strings.TrimSpace(status)))
	for _, allowed := range models.AllStatuses {
		if normalized == allowed {
			return normalized, nil
		}
	}
	names := make([]string, len(models.AllStatuses))
	for i, allowed := range models.AllStatuses {
		names[i] = string(allowed)
	}
	return "", invalidf("Invalid status '%s'. Allowed values: %s", status, strings.Join(names, ", "))
}

// ToScheduleResponse maps a schedule to its wire form
func ToScheduleResponse(s *models.Schedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:        s.ID,
		SubjectID: s.SubjectID,
		RoomIDs:   s.RoomIDs,
		Date:      helpers.FormatDate(s.Date),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Message:   s.Message,
	}
	if resp.RoomIDs == nil {
		resp.RoomIDs = []int64{}
	}
	if s.Status != nil {
		resp.Status = strPtr(string(*s.Status))
	}
	return resp
}

// ToScheduleResponses maps a list of schedules
func ToScheduleResponses(list []*models.Schedule) []dto.ScheduleResponse {
	out := make([]dto.ScheduleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToScheduleResponse(s))
	}
	return out
}

// scheduleFields are the editable parts of a schedule. Nil fields are left unchanged,
// an empty date or time clears the value.
type scheduleFields struct {
	RoomIDs   *[]int64
	Date      *string
	StartTime *string
	EndTime   *string
	Status    *string
	Message   *string
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// requireRooms checks that every room id exists
func requireRooms(ctx context.Context, rooms repositories.IRoomRepository, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := rooms.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading rooms: %w", err)
	}
	known := make(map[int64]bool, len(found))
	for _, r := range found {
		known[r.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return invalidf("Room with ID %d not found", id)
		}
	}
	return nil
}

// applyScheduleFields validates f and writes it onto schedule
func applyScheduleFields(ctx context.Context, rooms repositories.IRoomRepository, schedule *models.Schedule, f scheduleFields) error {
	if f.RoomIDs != nil {
		if err := requireRooms(ctx, rooms, *f.RoomIDs); err != nil {
			return err
		}
		schedule.RoomIDs = *f.RoomIDs
	}
	if f.Date != nil {
		if text := optionalText(f.Date); text == nil {
			schedule.Date = nil
		} else {
			day, err := helpers.ParseDate(*text)
			if err != nil {
				return invalidf("Invalid date '%s', expected YYYY-MM-DD", *f.Date)
			}
			schedule.Date = &day
		}
	}
	for _, clock := range []struct {
		value  *string
		target **string
		label  string
	}{
		{f.StartTime, &schedule.StartTime, "start"},
		{f.EndTime, &schedule.EndTime, "end"},
	} {
		if clock.value == nil {
			continue
		}
		text := optionalText(clock.value)
		if text == nil {
			*clock.target = nil
			continue
		}
		minutes, err := helpers.ParseClock(*text)
		if err != nil {
			return invalidf("Invalid %s time '%s', expected HH:MM", clock.label, *clock.value)
		}
		formatted := helpers.FormatClock(minutes)
		*clock.target = &formatted
	}
	if schedule.StartTime != nil && schedule.EndTime != nil {
		start, _ := helpers.ParseClock(*schedule.StartTime)
		end, _ := helpers.ParseClock(*schedule.EndTime)
		if start >= end {
			return invalidf("Start time must be before end time")
		}
	}
	if f.Status != nil {
		if optionalText(f.Status) == nil {
			schedule.Status = nil
		} else {
			status, err := CheckStatus(*f.Status)
			if err != nil {
				return err
			}
			schedule.Status = &status
		}
	}
	if f.Message != nil {
		if utf8.RuneCountInString(*f.Message) > validation.MessageMaxLength {
			return invalidf("Message cannot exceed %d characters", validation.MessageMaxLength)
		}
		schedule.Message = f.Message
	}
	return nil
}

func (s *scheduleServiceImpl) requireSubject(ctx context.Context, subjectID int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, referenceErr(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", subjectID)
	}
	return subject, nil
}

func (s *scheduleServiceImpl) GetAll(ctx context.Context) ([]*models.Schedule, error) {
	return s.scheduleRepo.GetAll(ctx)
}

func (s *scheduleServiceImpl) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrScheduleNotFound, "Schedule with ID %d not found", id)
	}
	return schedule, nil
}

func (s *scheduleServiceImpl) GetByRoom(ctx context.Context, roomID int64) ([]*models.Schedule, error) {
	return s.scheduleRepo.GetByRoom(ctx, roomID)
}

func (s *scheduleServiceImpl) GetBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrScheduleNotFound, "No schedule found for subject with ID %d", subjectID)
	}
	return schedule, nil
}

func (s *scheduleServiceImpl) GetByDate(ctx context.Context, date string) ([]*models.Schedule, error) {
	day, err := helpers.ParseDate(date)
	if err != nil {
		return nil, invalidf("Invalid date '%s', expected YYYY-MM-DD", date)
	}
	return s.scheduleRepo.GetByDate(ctx, day)
}

func (s *scheduleServiceImpl) GetByStatus(ctx context.Context, status string) ([]*models.Schedule, error) {
	normalized, err := CheckStatus(status)
	if err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetByStatus(ctx, normalized)
}

func (s *scheduleServiceImpl) GetByTeacher(ctx context.Context, teacherID int64, status string) ([]*models.Schedule, error) {
	var normalized models.ScheduleStatus
	if strings.TrimSpace(status) != "" {
		var err error
		if normalized, err = CheckStatus(status); err != nil {
			return nil, err
		}
	}
	return s.scheduleRepo.GetByTeacher(ctx, teacherID, normalized)
}

func (s *scheduleServiceImpl) GetByGroup(ctx context.Context, groupID int64) ([]*models.Schedule, error) {
	return s.scheduleRepo.GetByGroup(ctx, groupID)
}

func (s *scheduleServiceImpl) GetAssistants(ctx context.Context, subjectID int64) ([]*models.User, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", subjectID)
	}
	assistants := make([]*models.User, 0, len(subject.AssistantIDs))
	for _, id := range subject.AssistantIDs {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				s.logger.Warn().Int64("subjectId", subjectID).Int64("assistantId", id).Msg("Assistant no longer exists")
				continue
			}
			return nil, err
		}
		assistants = append(assistants, user)
	}
	return assistants, nil
}

func (s *scheduleServiceImpl) Create(ctx context.Context, req *dto.ScheduleRequest) (*models.Schedule, error) {
	if _, err := s.requireSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{SubjectID: req.SubjectID, RoomIDs: []int64{}}
	fields := scheduleFields{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		Message:   req.Message,
	}
	if req.RoomIDs != nil {
		fields.RoomIDs = &req.RoomIDs
	}
	if err := applyScheduleFields(ctx, s.roomRepo, schedule, fields); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("scheduleId", schedule.ID).Int64("subjectId", schedule.SubjectID).Msg("Schedule created")
	return schedule, nil
}

func (s *scheduleServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*models.Schedule, error) {
	schedule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := schedule.StatusOrEmpty()

	if req.SubjectID != nil && *req.SubjectID != schedule.SubjectID {
		if _, err := s.requireSubject(ctx, *req.SubjectID); err != nil {
			return nil, err
		}
		schedule.SubjectID = *req.SubjectID
	}
	if err := applyScheduleFields(ctx, s.roomRepo, schedule, scheduleFields{
		RoomIDs:   req.RoomIDs,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		Message:   req.Message,
	}); err != nil {
		return nil, err
	}

	if schedule.StatusOrEmpty() == models.StatusApproved && previous != models.StatusApproved {
		if err := s.guardApproval(ctx, schedule); err != nil {
			return nil, err
		}
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, describeNotFound(err, apperrors.ErrScheduleNotFound, "Schedule with ID %d not found", id)
	}
	return schedule, nil
}

// guardApproval runs conflict detection before a schedule becomes approved
func (s *scheduleServiceImpl) guardApproval(ctx context.Context, schedule *models.Schedule) error {
	if schedule.Date == nil || schedule.StartTime == nil || schedule.EndTime == nil || len(schedule.RoomIDs) == 0 {
		return nil
	}
	scheduleID := schedule.ID
	report, err := s.CheckConflicts(ctx, &dto.ConflictCheckRequest{
		Date:       *helpers.FormatDate(schedule.Date),
		StartTime:  *schedule.StartTime,
		EndTime:    *schedule.EndTime,
		ScheduleID: &scheduleID,
		RoomIDs:    schedule.RoomIDs,
	})
	if err != nil {
		return err
	}
	if !report.HasConflicts {
		return nil
	}
	if s.options.BlockOnConflict {
		return apperrors.NewCustomError(apperrors.ErrScheduleConflict,
			fmt.Sprintf("Schedule with ID %d conflicts with %d approved exam(s)", schedule.ID, len(report.RoomConflicts))).
			WithDetails(map[string]interface{}{"conflicts": report})
	}
	s.logger.Warn().
		Int64("scheduleId", schedule.ID).
		Int("roomConflicts", len(report.RoomConflicts)).
		Msg("Approving schedule despite room conflicts")
	return nil
}

func (s *scheduleServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrScheduleNotFound, "Schedule with ID %d not found", id)
	}
	return nil
}

func (s *scheduleServiceImpl) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictReport, error) {
	day, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, invalidf("Invalid date '%s', expected YYYY-MM-DD", req.Date)
	}
	start, err := helpers.ParseClock(req.StartTime)
	if err != nil {
		return nil, invalidf("Invalid start time '%s', expected HH:MM", req.StartTime)
	}
	end, err := helpers.ParseClock(req.EndTime)
	if err != nil {
		return nil, invalidf("Invalid end time '%s', expected HH:MM", req.EndTime)
	}
	if start >= end {
		return nil, invalidf("Start time must be before end time")
	}

	roomNames := make(map[int64]string, len(req.RoomIDs))
	if len(req.RoomIDs) > 0 {
		rooms, err := s.roomRepo.GetByIDs(ctx, req.RoomIDs)
		if err != nil {
			return nil, fmt.Errorf("error loading rooms: %w", err)
		}
		for _, r := range rooms {
			roomNames[r.ID] = r.Name
		}
		for _, id := range req.RoomIDs {
			if _, ok := roomNames[id]; !ok {
				return nil, invalidf("Room with ID %d not found", id)
			}
		}
	}
	for _, id := range req.AssistantIDs {
		if err := requireTeacher(ctx, s.userRepo, id, "Assistant"); err != nil {
			return nil, err
		}
	}

	var excludeID int64
	if req.ScheduleID != nil {
		excludeID = *req.ScheduleID
	}
	approved, err := s.scheduleRepo.GetApprovedOnDate(ctx, day, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error loading approved schedules: %w", err)
	}

	report := &dto.ConflictReport{
		RoomConflicts:       []dto.RoomConflict{},
		AssistantConflicts:  []dto.PersonConflict{},
		TeacherConflicts:    []dto.PersonConflict{},
		UncheckedDimensions: uncheckedConflictDimensions,
	}
	subjectNames := make(map[int64]string)
	for _, other := range approved {
		if other.StartTime == nil || other.EndTime == nil {
			continue
		}
		otherStart, errStart := helpers.ParseClock(*other.StartTime)
		otherEnd, errEnd := helpers.ParseClock(*other.EndTime)
		if errStart != nil || errEnd != nil || !helpers.Overlaps(start, end, otherStart, otherEnd) {
			continue
		}
		for _, roomID := range other.RoomIDs {
			name, requested := roomNames[roomID]
			if !requested {
				continue
			}
			subjectName, ok := subjectNames[other.SubjectID]
			if !ok {
				if subject, err := s.subjectRepo.GetByID(ctx, other.SubjectID); err == nil {
					subjectName = subject.Name
				}
				subjectNames[other.SubjectID] = subjectName
			}
			report.RoomConflicts = append(report.RoomConflicts, dto.RoomConflict{
				RoomID:      roomID,
				RoomName:    name,
				ScheduleID:  other.ID,
				SubjectID:   other.SubjectID,
				SubjectName: subjectName,
				Date:        *helpers.FormatDate(&day),
				StartTime:   *other.StartTime,
				EndTime:     *other.EndTime,
			})
		}
	}
	report.HasConflicts = len(report.RoomConflicts) > 0
	return report, nil
}
