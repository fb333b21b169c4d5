package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/auth"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/email"
	"github.com/twaaos/examscheduler/internal/pkg/excel"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/pdf"
)

// ExamService defines operations on the joined exam view
type ExamService interface {
	GetAll(ctx context.Context) ([]dto.ExamResponse, error)
	GetByStudyProgram(ctx context.Context, program string) ([]dto.ExamResponse, error)
	GetByTeacher(ctx context.Context, teacherID int64) ([]dto.ExamResponse, error)
	GetByGroup(ctx context.Context, groupID int64) ([]dto.ExamResponse, error)
	GetFiltered(ctx context.Context, query dto.ExamQuery) ([]dto.ExamResponse, error)
	CreateExamProposal(ctx context.Context, actor auth.Actor, req *dto.ExamProposalRequest) (*dto.ExamResponse, error)
	UpdateExam(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateScheduleRequest) (*dto.ExamResponse, error)
	ExportExcel(ctx context.Context, query dto.ExamQuery) ([]byte, error)
	ExportPDF(ctx context.Context, query dto.ExamQuery) ([]byte, error)
}

// ExamDeps groups the collaborators of the exam service
type ExamDeps struct {
	ExamRepo     repositories.IExamRepository
	ScheduleRepo repositories.IScheduleRepository
	SubjectRepo  repositories.ISubjectRepository
	GroupRepo    repositories.IGroupRepository
	UserRepo     repositories.IUserRepository
	RoomRepo     repositories.IRoomRepository
	PeriodRepo   repositories.IExamPeriodRepository
	Schedules    ScheduleService
	Authz        *auth.AuthorizationService
	Notifier     Notifier
}

type examServiceImpl struct {
	ExamDeps
	now    func() time.Time
	logger zerolog.Logger
}

// NewExamService creates a new exam service instance
func NewExamService(deps ExamDeps, logger zerolog.Logger) ExamService {
	return &examServiceImpl{ExamDeps: deps, now: time.Now, logger: logger}
}

// ToExamResponse maps the joined exam row to its wire form
func ToExamResponse(e *models.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:                      e.ID,
		SubjectID:               e.SubjectID,
		SubjectName:             e.SubjectName,
		SubjectShortName:        e.SubjectShortName,
		StudyProgram:            e.StudyProgram,
		TeacherID:               e.TeacherID,
		TeacherName:             e.TeacherName(),
		TeacherEmail:            e.TeacherEmail,
		TeacherPhone:            e.TeacherPhone,
		RoomIDs:                 e.RoomIDs,
		RoomNames:               e.RoomNames,
		Date:                    helpers.FormatDate(e.Date),
		StartTime:               e.StartTime,
		EndTime:                 e.EndTime,
		Duration:                e.DurationHours(),
		Message:                 e.Message,
		GroupID:                 e.GroupID,
		GroupName:               e.GroupName,
		SpecializationShortName: e.SpecializationShortName,
		StudyYear:               e.StudyYear,
	}
	if resp.RoomIDs == nil {
		resp.RoomIDs = []int64{}
	}
	if resp.RoomNames == nil {
		resp.RoomNames = []string{}
	}
	if e.Status != nil {
		resp.Status = strPtr(string(*e.Status))
	}
	return resp
}

func filterFromQuery(query dto.ExamQuery) (models.ExamFilter, error) {
	filter := models.ExamFilter{
		StudyProgram: query.Program,
		TeacherID:    query.TeacherID,
		GroupID:      query.GroupID,
	}
	if query.Status != "" {
		status, err := CheckStatus(query.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = string(status)
	}
	return filter, nil
}

func (s *examServiceImpl) list(ctx context.Context, filter models.ExamFilter) ([]dto.ExamResponse, error) {
	exams, err := s.ExamRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing exams: %w", err)
	}
	out := make([]dto.ExamResponse, 0, len(exams))
	for _, e := range exams {
		out = append(out, ToExamResponse(e))
	}
	return out, nil
}

func (s *examServiceImpl) GetAll(ctx context.Context) ([]dto.ExamResponse, error) {
	return s.list(ctx, models.ExamFilter{})
}

func (s *examServiceImpl) GetByStudyProgram(ctx context.Context, program string) ([]dto.ExamResponse, error) {
	return s.list(ctx, models.ExamFilter{StudyProgram: program})
}

func (s *examServiceImpl) GetByTeacher(ctx context.Context, teacherID int64) ([]dto.ExamResponse, error) {
	return s.list(ctx, models.ExamFilter{TeacherID: teacherID})
}

func (s *examServiceImpl) GetByGroup(ctx context.Context, groupID int64) ([]dto.ExamResponse, error) {
	return s.list(ctx, models.ExamFilter{GroupID: groupID})
}

func (s *examServiceImpl) GetFiltered(ctx context.Context, query dto.ExamQuery) ([]dto.ExamResponse, error) {
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *examServiceImpl) loadExam(ctx context.Context, scheduleID int64) (*dto.ExamResponse, error) {
	exam, err := s.ExamRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrScheduleNotFound, "Exam with ID %d not found", scheduleID)
	}
	resp := ToExamResponse(exam)
	return &resp, nil
}

// checkPeriod rejects a date outside the current exam period. Without a period any date is accepted.
func (s *examServiceImpl) checkPeriod(ctx context.Context, date *string) error {
	text := optionalText(date)
	if text == nil {
		return nil
	}
	day, err := helpers.ParseDate(*text)
	if err != nil {
		return invalidf("Invalid date '%s', expected YYYY-MM-DD", *date)
	}
	period, err := s.PeriodRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfigNotFound) {
			return nil
		}
		return fmt.Errorf("error loading exam period: %w", err)
	}
	if !period.Contains(day) {
		return invalidf("Date %s is outside the exam period %s - %s", *text,
			period.StartDate.Format(helpers.DateLayout), period.EndDate.Format(helpers.DateLayout))
	}
	return nil
}

func (s *examServiceImpl) CreateExamProposal(ctx context.Context, actor auth.Actor, req *dto.ExamProposalRequest) (*dto.ExamResponse, error) {
	if req.SubjectID == 0 {
		return nil, invalidf("Subject ID is required")
	}
	subject, err := s.SubjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, referenceErr(err, apperrors.ErrSubjectNotFound, "Subject with ID %d not found", req.SubjectID)
	}
	if err := s.Authz.CanPropose(ctx, actor, subject.ID); err != nil {
		return nil, err
	}

	status := models.StatusPending
	if optionalText(req.Date) != nil {
		status = models.StatusProposed
	}
	if req.Status != nil && optionalText(req.Status) != nil {
		if status, err = CheckStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if actor.Role == models.RoleStudentGroup && (status == models.StatusApproved || status == models.StatusRejected) {
		return nil, auth.ErrStudentCannotReview
	}
	if err := s.checkPeriod(ctx, req.Date); err != nil {
		return nil, err
	}

	schedule, err := s.ScheduleRepo.GetBySubject(ctx, subject.ID)
	isNew := false
	if err != nil {
		if !errors.Is(err, apperrors.ErrScheduleNotFound) {
			return nil, fmt.Errorf("error loading schedule: %w", err)
		}
		schedule = &models.Schedule{SubjectID: subject.ID, RoomIDs: []int64{}}
		isNew = true
	}

	statusText := string(status)
	fields := scheduleFields{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    &statusText,
		Message:   req.Message,
	}
	if req.RoomIDs != nil {
		fields.RoomIDs = &req.RoomIDs
	}
	if err := applyScheduleFields(ctx, s.RoomRepo, schedule, fields); err != nil {
		return nil, err
	}

	if isNew {
		err = s.ScheduleRepo.Create(ctx, schedule)
	} else {
		err = s.ScheduleRepo.Update(ctx, schedule)
	}
	if err != nil {
		return nil, fmt.Errorf("error saving exam proposal: %w", err)
	}
	s.logger.Info().
		Int64("scheduleId", schedule.ID).
		Int64("subjectId", subject.ID).
		Str("status", statusText).
		Bool("created", isNew).
		Msg("Exam proposal saved")

	s.notifyTeacher(ctx, subject, schedule)
	return s.loadExam(ctx, schedule.ID)
}

// notifyTeacher tells the subject's teacher about a proposal. Failures are logged only.
func (s *examServiceImpl) notifyTeacher(ctx context.Context, subject *models.Subject, schedule *models.Schedule) {
	teacher, err := s.UserRepo.GetByID(ctx, subject.TeacherID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("subjectId", subject.ID).Msg("Skipping proposal notification, teacher not found")
		return
	}
	group, err := s.GroupRepo.GetByID(ctx, subject.GroupID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("subjectId", subject.ID).Msg("Skipping proposal notification, group not found")
		return
	}
	date := ""
	if d := helpers.FormatDate(schedule.Date); d != nil {
		date = *d
	}
	msg := email.ProposalNotice(teacher.FullName(), teacher.Email, subject.Name, group.Name, date)
	if err := s.Notifier.Notify(ctx, teacher, msg); err != nil {
		s.logger.Warn().Err(err).Str("email", teacher.Email).Int64("scheduleId", schedule.ID).Msg("Failed to notify teacher about proposal")
	}
}

func (s *examServiceImpl) UpdateExam(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateScheduleRequest) (*dto.ExamResponse, error) {
	current, err := s.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrScheduleNotFound, "Exam with ID %d not found", id)
	}
	previous := current.StatusOrEmpty()
	next := previous
	if req.Status != nil && optionalText(req.Status) != nil {
		if next, err = CheckStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if err := s.Authz.CanUpdate(ctx, actor, id, next); err != nil {
		return nil, err
	}
	if req.Date != nil {
		if err := s.checkPeriod(ctx, req.Date); err != nil {
			return nil, err
		}
	}

	updated, err := s.Schedules.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	status := updated.StatusOrEmpty()
	if status != previous && (status == models.StatusApproved || status == models.StatusRejected) {
		s.notifyGroup(ctx, updated, status == models.StatusApproved)
	}
	return s.loadExam(ctx, updated.ID)
}

// notifyGroup sends the review decision to every SG user of the subject's group. Failures are logged only.
func (s *examServiceImpl) notifyGroup(ctx context.Context, schedule *models.Schedule, approved bool) {
	subject, err := s.SubjectRepo.GetByID(ctx, schedule.SubjectID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("scheduleId", schedule.ID).Msg("Skipping decision notification, subject not found")
		return
	}
	leaders, err := s.UserRepo.GetByGroup(ctx, subject.GroupID, models.RoleStudentGroup)
	if err != nil {
		s.logger.Warn().Err(err).Int64("groupId", subject.GroupID).Msg("Skipping decision notification, cannot load group users")
		return
	}
	date := ""
	if d := helpers.FormatDate(schedule.Date); d != nil {
		date = *d
	}
	message := ""
	if schedule.Message != nil {
		message = *schedule.Message
	}
	for _, leader := range leaders {
		msg := email.DecisionNotice(leader.FullName(), leader.Email, subject.Name, date, message, approved)
		if err := s.Notifier.Notify(ctx, leader, msg); err != nil {
			s.logger.Warn().Err(err).Str("email", leader.Email).Int64("scheduleId", schedule.ID).Msg("Failed to notify group about decision")
		}
	}
}

func (s *examServiceImpl) exportRows(ctx context.Context, query dto.ExamQuery) ([]*models.Exam, error) {
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, err
	}
	exams, err := s.ExamRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing exams: %w", err)
	}
	return exams, nil
}

func (s *examServiceImpl) ExportExcel(ctx context.Context, query dto.ExamQuery) ([]byte, error) {
	exams, err := s.exportRows(ctx, query)
	if err != nil {
		return nil, err
	}
	return excel.ExportExams(exams)
}

func (s *examServiceImpl) ExportPDF(ctx context.Context, query dto.ExamQuery) ([]byte, error) {
	exams, err := s.exportRows(ctx, query)
	if err != nil {
		return nil, err
	}
	return pdf.ExportExams(exams, s.now())
}
