package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/db"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
	"github.com/twaaos/examscheduler/internal/pkg/collectorclient"
	"github.com/twaaos/examscheduler/internal/pkg/filestorage"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// FixtureTemplateName is the name the fixture spreadsheet is stored under
const FixtureTemplateName = "Template examene"

// SyncService rebuilds the database from the timetable collector
type SyncService interface {
	SyncAllData(ctx context.Context) (*dto.SyncResult, error)
	DeleteAllGroups(ctx context.Context) (int64, error)
	DeleteAllRooms(ctx context.Context) (int64, error)
	DeleteAllUsers(ctx context.Context) (int64, error)
}

// SyncOptions configures the fixture steps of a synchronization
type SyncOptions struct {
	FixtureDelay  time.Duration
	FixtureGroup  string
	TemplatePath  string
	AdminPassword string
}

// SyncDeps groups the collaborators of the sync service
type SyncDeps struct {
	ScheduleRepo     repositories.IScheduleRepository
	SubjectRepo      repositories.ISubjectRepository
	NotificationRepo repositories.INotificationRepository
	UserRepo         repositories.IUserRepository
	RoomRepo         repositories.IRoomRepository
	GroupRepo        repositories.IGroupRepository
	TemplateRepo     repositories.IExcelTemplateRepository
	Collector        collectorclient.Client
	Transactor       db.Transactor
	Files            filestorage.FileReader
}

type syncServiceImpl struct {
	SyncDeps
	options SyncOptions
	logger  zerolog.Logger
}

// NewSyncService creates a new sync service instance
func NewSyncService(deps SyncDeps, options SyncOptions, logger zerolog.Logger) SyncService {
	return &syncServiceImpl{SyncDeps: deps, options: options, logger: logger}
}

type fixture struct {
	user     models.User
	password string
}

func (s *syncServiceImpl) fixtures() []fixture {
	return []fixture{
		{user: models.User{FirstName: "Tudor", LastName: "Albu", Email: "niculai.crainiciuc@student.usv.ro",
			Role: models.RoleStudentGroup, GoogleID: strPtr("dev-tudor-albu")}},
		{user: models.User{FirstName: "Matei", LastName: "Neagu", Email: "filaret.crainiciuc@student.usv.ro",
			Role: models.RoleTeacher, Department: strPtr("C"), Phone: strPtr("0723321123"), GoogleID: strPtr("dev-matei-neagu")}},
		{user: models.User{FirstName: "Alina", LastName: "Berca", Email: "c.filaret200@gmail.com",
			Role: models.RoleSecretariat, GoogleID: strPtr("dev-alina-berca")}},
		{user: models.User{FirstName: "Admin", LastName: "Admin", Email: "admin@usv.ro",
			Role: models.RoleAdmin}, password: s.options.AdminPassword},
	}
}

// run executes one step and records its failure
func (s *syncServiceImpl) run(result *dto.SyncResult, step string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Error().Err(err).Str("step", step).Msg("Synchronization step failed")
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", step, err))
	}
}

func (s *syncServiceImpl) SyncAllData(ctx context.Context) (*dto.SyncResult, error) {
	result := &dto.SyncResult{
		Errors:    []string{},
		TestUsers: dto.FixtureUsers{Created: []dto.FixtureUser{}},
		Schedules: dto.ScheduleRebuild{Errors: []string{}},
	}
	s.logger.Info().Msg("Synchronization started")

	s.deleteAll(ctx, result)

	s.run(result, "collector", func() error {
		resp, err := s.Collector.FetchAndSync(ctx)
		if err != nil {
			return err
		}
		if resp == nil {
			return apperrors.ErrExternalService
		}
		result.Synced = dto.SyncedCounts{
			Groups:   resp.Groups.Count,
			Rooms:    resp.Rooms.Count,
			Users:    resp.Users.Count,
			Subjects: resp.Subjects.Count,
		}
		return nil
	})

	student, teacher := s.createFixtures(ctx, result)

	if student != nil && student.GroupID != nil && teacher != nil {
		s.run(result, "reassign teacher", func() error {
			n, err := s.SubjectRepo.ReassignTeacher(ctx, *student.GroupID, teacher.ID)
			if err == nil {
				s.logger.Info().Int64("count", n).Int64("groupId", *student.GroupID).Msg("Fixture group subjects reassigned")
			}
			return err
		})
	}

	s.run(result, "rebuild schedules", func() error {
		created, err := s.rebuildSchedules(ctx)
		if err != nil {
			result.Schedules.Errors = append(result.Schedules.Errors, err.Error())
			return err
		}
		result.Schedules.Created = created
		return nil
	})

	s.run(result, "upload template", func() error {
		return s.uploadTemplate(ctx, result)
	})

	result.Success = true
	result.Message = "Synchronization completed"
	if n := len(result.Errors); n > 0 {
		result.Message = fmt.Sprintf("Synchronization completed with %d error(s)", n)
	}
	s.logger.Info().Int("errors", len(result.Errors)).Msg("Synchronization finished")
	return result, nil
}

// deleteAll clears every table in dependency order. Each table is its own step.
func (s *syncServiceImpl) deleteAll(ctx context.Context, result *dto.SyncResult) {
	steps := []struct {
		name   string
		target *int64
		fn     func(context.Context) (int64, error)
	}{
		{"delete schedules", &result.Deleted.Schedules, s.ScheduleRepo.DeleteAll},
		{"delete subjects", &result.Deleted.Subjects, s.SubjectRepo.DeleteAll},
		{"delete notifications", &result.Deleted.Notifications, s.NotificationRepo.DeleteAll},
		{"delete users", &result.Deleted.Users, s.UserRepo.DeleteAll},
		{"delete rooms", &result.Deleted.Rooms, s.RoomRepo.DeleteAll},
		{"delete groups", &result.Deleted.Groups, s.GroupRepo.DeleteAll},
	}
	for _, step := range steps {
		s.run(result, step.name, func() error {
			n, err := step.fn(ctx)
			if err != nil {
				return err
			}
			*step.target = n
			s.logger.Info().Int64("count", n).Str("step", step.name).Msg("Deleted before synchronization")
			return nil
		})
	}
}

// fixtureGroup picks the configured fixture group, falling back to the first group
func (s *syncServiceImpl) fixtureGroup(ctx context.Context) (*models.Group, error) {
	groups, err := s.GroupRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	for _, g := range groups {
		if g.Name == s.options.FixtureGroup {
			return g, nil
		}
	}
	return groups[0], nil
}

// createFixtures creates or reuses the fixture accounts and returns the student and teacher
func (s *syncServiceImpl) createFixtures(ctx context.Context, result *dto.SyncResult) (student, teacher *models.User) {
	defer func() { result.TestUsers.Count = len(result.TestUsers.Created) }()

	group, err := s.fixtureGroup(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("fixture group: %v", err))
	}

	for i, f := range s.fixtures() {
		if i > 0 && s.options.FixtureDelay > 0 {
			select {
			case <-ctx.Done():
				result.Errors = append(result.Errors, fmt.Sprintf("fixture users: %v", ctx.Err()))
				return student, teacher
			case <-time.After(s.options.FixtureDelay):
			}
		}

		user, reused, err := s.ensureFixture(ctx, f, group)
		if err != nil {
			s.logger.Error().Err(err).Str("email", f.user.Email).Msg("Failed to create fixture user")
			result.Errors = append(result.Errors, fmt.Sprintf("fixture user %s: %v", f.user.Email, err))
			continue
		}
		result.TestUsers.Created = append(result.TestUsers.Created, dto.FixtureUser{
			ID:      user.ID,
			Name:    user.FirstName + " " + user.LastName,
			Email:   user.Email,
			Role:    string(user.Role),
			GroupID: user.GroupID,
			Reused:  reused,
		})
		switch user.Role {
		case models.RoleStudentGroup:
			student = user
		case models.RoleTeacher:
			teacher = user
		}
	}
	return student, teacher
}

func (s *syncServiceImpl) ensureFixture(ctx context.Context, f fixture, group *models.Group) (*models.User, bool, error) {
	existing, err := s.UserRepo.GetByEmail(ctx, f.user.Email)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}

	user := f.user
	user.IsActive = true
	if user.Role == models.RoleStudentGroup {
		if group == nil {
			return nil, false, errors.New("no group available for the student fixture")
		}
		groupID := group.ID
		user.GroupID = &groupID
	}
	if f.password != "" {
		hash, err := auth.HashPassword(f.password)
		if err != nil {
			return nil, false, err
		}
		user.PasswordHash = &hash
	}
	if err := s.UserRepo.Create(ctx, &user); err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Fixture user created")
	return &user, false, nil
}

// rebuildSchedules replaces every schedule with one pending stub per subject in a single transaction
func (s *syncServiceImpl) rebuildSchedules(ctx context.Context) (int, error) {
	subjects, err := s.SubjectRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	err = s.Transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.ScheduleRepo.DeleteAllTx(ctx, tx); err != nil {
			return err
		}
		for _, subject := range subjects {
			if err := s.ScheduleRepo.CreatePendingTx(ctx, tx, subject.ID); err != nil {
				return fmt.Errorf("subject %d: %w", subject.ID, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("count", created).Msg("Pending schedules rebuilt")
	return created, nil
}

func (s *syncServiceImpl) uploadTemplate(ctx context.Context, result *dto.SyncResult) error {
	if s.options.TemplatePath == "" {
		return nil
	}
	if !validation.IsSpreadsheetName(s.options.TemplatePath) {
		return fmt.Errorf("template %s is not a spreadsheet", s.options.TemplatePath)
	}
	file, err := s.Files.ReadFile(s.options.TemplatePath)
	if err != nil {
		return err
	}
	// One fixture template row survives repeated syncs; a rerun replaces its file.
	template, err := s.TemplateRepo.GetByName(ctx, FixtureTemplateName)
	switch {
	case err == nil:
		template.Content = file.Content
		template.FileName = filepath.Base(file.Filename)
		template.UploadedAt = time.Now()
		if err := s.TemplateRepo.Update(ctx, template); err != nil {
			return err
		}
	case errors.Is(err, repositories.ErrTemplateNotFound):
		template = &models.ExcelTemplate{
			Name:     FixtureTemplateName,
			Type:     models.TemplateTypeExamReport,
			Content:  file.Content,
			FileName: filepath.Base(file.Filename),
		}
		if err := s.TemplateRepo.Create(ctx, template); err != nil {
			return err
		}
	default:
		return err
	}
	result.Template = dto.TemplateUpload{Uploaded: true, Name: template.Name}
	return nil
}

func (s *syncServiceImpl) DeleteAllGroups(ctx context.Context) (int64, error) {
	n, err := s.GroupRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Int64("count", n).Msg("All groups deleted")
	return n, nil
}

func (s *syncServiceImpl) DeleteAllRooms(ctx context.Context) (int64, error) {
	n, err := s.RoomRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Int64("count", n).Msg("All rooms deleted")
	return n, nil
}

func (s *syncServiceImpl) DeleteAllUsers(ctx context.Context) (int64, error) {
	n, err := s.UserRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Int64("count", n).Msg("All users deleted")
	return n, nil
}
