package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/email"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
)

// ConfigService manages exam periods
type ConfigService interface {
	GetAll(ctx context.Context) ([]*models.ExamPeriod, error)
	GetByID(ctx context.Context, id int64) (*models.ExamPeriod, error)
	GetCurrent(ctx context.Context) (*models.ExamPeriod, error)
	Create(ctx context.Context, req *dto.ConfigRequest) (*models.ExamPeriod, error)
	Update(ctx context.Context, id int64, req *dto.UpdateConfigRequest) (*models.ExamPeriod, error)
	Delete(ctx context.Context, id int64) error
}

type configServiceImpl struct {
	periodRepo   repositories.IExamPeriodRepository
	scheduleRepo repositories.IScheduleRepository
	userRepo     repositories.IUserRepository
	notifier     Notifier
	logger       zerolog.Logger
}

// NewConfigService creates a new config service instance
func NewConfigService(
	periodRepo repositories.IExamPeriodRepository,
	scheduleRepo repositories.IScheduleRepository,
	userRepo repositories.IUserRepository,
	notifier Notifier,
	logger zerolog.Logger,
) ConfigService {
	return &configServiceImpl{
		periodRepo:   periodRepo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// ToConfigResponse maps an exam period to its wire form
func ToConfigResponse(p *models.ExamPeriod) dto.ConfigResponse {
	return dto.ConfigResponse{
		ID:         p.ID,
		StartDate:  p.StartDate.Format(helpers.DateLayout),
		EndDate:    p.EndDate.Format(helpers.DateLayout),
		ModifiedAt: p.ModifiedAt,
	}
}

func parsePeriodDate(value, label string) (time.Time, error) {
	day, err := helpers.ParseDate(value)
	if err != nil {
		return time.Time{}, invalidf("Invalid %s date '%s', expected YYYY-MM-DD", label, value)
	}
	return day, nil
}

func validatePeriod(p *models.ExamPeriod) error {
	if !p.StartDate.Before(p.EndDate) {
		return invalidf("End date must be after start date")
	}
	return nil
}

func (s *configServiceImpl) GetAll(ctx context.Context) ([]*models.ExamPeriod, error) {
	return s.periodRepo.GetAll(ctx)
}

func (s *configServiceImpl) GetByID(ctx context.Context, id int64) (*models.ExamPeriod, error) {
	period, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrConfigNotFound, "Config with ID %d not found", id)
	}
	return period, nil
}

func (s *configServiceImpl) GetCurrent(ctx context.Context) (*models.ExamPeriod, error) {
	period, err := s.periodRepo.GetCurrent(ctx)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrConfigNotFound, "No exam period configured")
	}
	return period, nil
}

func (s *configServiceImpl) Create(ctx context.Context, req *dto.ConfigRequest) (*models.ExamPeriod, error) {
	start, err := parsePeriodDate(req.StartDate, "start")
	if err != nil {
		return nil, err
	}
	end, err := parsePeriodDate(req.EndDate, "end")
	if err != nil {
		return nil, err
	}
	period := &models.ExamPeriod{StartDate: start, EndDate: end}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, fmt.Errorf("error creating config: %w", err)
	}
	s.logger.Info().Int64("configId", period.ID).Msg("Exam period created")
	s.cascade(ctx, period)
	return period, nil
}

func (s *configServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateConfigRequest) (*models.ExamPeriod, error) {
	period, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StartDate != nil {
		if period.StartDate, err = parsePeriodDate(*req.StartDate, "start"); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if period.EndDate, err = parsePeriodDate(*req.EndDate, "end"); err != nil {
			return nil, err
		}
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Update(ctx, period); err != nil {
		return nil, describeNotFound(err, apperrors.ErrConfigNotFound, "Config with ID %d not found", id)
	}
	s.logger.Info().Int64("configId", period.ID).Msg("Exam period updated")
	s.cascade(ctx, period)
	return period, nil
}

func (s *configServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.periodRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrConfigNotFound, "Config with ID %d not found", id)
	}
	return nil
}

// cascade resets group schedules to pending and announces the period to every SG user.
// Failures are logged and never returned.
func (s *configServiceImpl) cascade(ctx context.Context, period *models.ExamPeriod) {
	reset, err := s.scheduleRepo.ResetStudentGroupSchedules(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("configId", period.ID).Msg("Failed to reset group schedules")
	} else {
		s.logger.Info().Int64("count", reset).Msg("Group schedules reset to pending")
	}

	leaders, err := s.userRepo.GetByRole(ctx, models.RoleStudentGroup)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load group representatives for period notice")
		return
	}
	start := period.StartDate.Format(helpers.DateLayout)
	end := period.EndDate.Format(helpers.DateLayout)
	sent := 0
	for _, leader := range leaders {
		msg := email.PeriodNotice(leader.FullName(), leader.Email, start, end)
		if err := s.notifier.Notify(ctx, leader, msg); err != nil {
			s.logger.Warn().Err(err).Str("email", leader.Email).Msg("Failed to send period notice")
			continue
		}
		sent++
	}
	s.logger.Info().Int("sent", sent).Int("recipients", len(leaders)).Msg("Period notices sent")
}
