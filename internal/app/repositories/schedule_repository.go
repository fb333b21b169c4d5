package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/dberrors"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// IScheduleRepository defines schedule persistence
type IScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	GetBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error)
	GetAll(ctx context.Context) ([]*models.Schedule, error)
	GetByRoom(ctx context.Context, roomID int64) ([]*models.Schedule, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Schedule, error)
	GetByStatus(ctx context.Context, status models.ScheduleStatus) ([]*models.Schedule, error)
	GetByTeacher(ctx context.Context, teacherID int64, status models.ScheduleStatus) ([]*models.Schedule, error)
	GetByGroup(ctx context.Context, groupID int64) ([]*models.Schedule, error)
	// GetApprovedOnDate lists approved schedules on date, skipping excludeID when it is non-zero
	GetApprovedOnDate(ctx context.Context, date time.Time, excludeID int64) ([]*models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	// ResetStudentGroupSchedules sets every schedule whose subject group has an SG user to pending
	ResetStudentGroupSchedules(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)

	// Transactional variants used by the sync rebuild
	DeleteAllTx(ctx context.Context, tx pgx.Tx) (int64, error)
	CreatePendingTx(ctx context.Context, tx pgx.Tx, subjectID int64) error
}

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var scheduleColumns = []string{
	"s.id", "s.subject_id", "s.room_ids", "s.date", "s.start_time", "s.end_time", "s.status", "s.message",
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var (
		s          models.Schedule
		start, end pgtype.Time
		status     *string
	)
	if err := row.Scan(&s.ID, &s.SubjectID, &s.RoomIDs, &s.Date, &start, &end, &status, &s.Message); err != nil {
		return nil, err
	}
	s.StartTime = helpers.ClockFromPG(start)
	s.EndTime = helpers.ClockFromPG(end)
	if status != nil {
		st := models.ScheduleStatus(strings.ToLower(*status))
		s.Status = &st
	}
	return &s, nil
}

func scheduleValues(s *models.Schedule) (map[string]interface{}, error) {
	start, err := helpers.ClockToPG(s.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := helpers.ClockToPG(s.EndTime)
	if err != nil {
		return nil, err
	}
	var status *string
	if s.Status != nil {
		st := string(*s.Status)
		status = &st
	}
	return map[string]interface{}{
		"subject_id": s.SubjectID,
		"room_ids":   s.RoomIDs,
		"date":       s.Date,
		"start_time": start,
		"end_time":   end,
		"status":     status,
		"message":    s.Message,
	}, nil
}

// Create inserts a schedule and sets its ID
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	values, err := scheduleValues(schedule)
	if err != nil {
		return err
	}
	sql, args, err := r.sb.Insert("schedules").SetMap(values).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create schedule query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&schedule.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "schedules_subject_id_key") {
			return ErrScheduleSubjectTaken
		}
		logger.Error().Err(err).Int64("subjectID", schedule.SubjectID).Msg("Error executing create schedule query")
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Schedule, error) {
	sql, args, err := r.sb.Select(scheduleColumns...).From("schedules s").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get schedule query: %w", err)
	}

	schedule, err := scanSchedule(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		logger.Error().Err(err).Msg("Error scanning schedule row")
		return nil, fmt.Errorf("error getting schedule: %w", err)
	}
	return schedule, nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// GetBySubject retrieves the schedule of a subject
func (r *ScheduleRepository) GetBySubject(ctx context.Context, subjectID int64) (*models.Schedule, error) {
	return r.getOne(ctx, squirrel.Eq{"s.subject_id": subjectID})
}

// GetAll retrieves all schedules
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]*models.Schedule, error) {
	return r.list(ctx, r.sb.Select(scheduleColumns...).From("schedules s"))
}

// GetByRoom retrieves the schedules that use a room
func (r *ScheduleRepository) GetByRoom(ctx context.Context, roomID int64) ([]*models.Schedule, error) {
	return r.list(ctx, r.sb.Select(scheduleColumns...).From("schedules s").
		Where("? = ANY(s.room_ids)", roomID))
}

// GetByDate retrieves the schedules on a day
func (r *ScheduleRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Schedule, error) {
	return r.list(ctx, r.sb.Select(scheduleColumns...).From("schedules s").
		Where(squirrel.Eq{"s.date": date}))
}

// GetByStatus retrieves the schedules in a status, compared without case
func (r *ScheduleRepository) GetByStatus(ctx context.Context, status models.ScheduleStatus) ([]*models.Schedule, error) {
	return r.list(ctx, r.sb.Select(scheduleColumns...).From("schedules s").
		Where("LOWER(s.status) = ?", strings.ToLower(string(status))))
}

// GetByTeacher retrieves the schedules of a teacher's subjects. An empty status matches all.
func (r *ScheduleRepository) GetByTeacher(ctx context.Context, teacherID int64, status models.ScheduleStatus) ([]*models.Schedule, error) {
	q := r.sb.Select(scheduleColumns...).From("schedules s").
		Join("subjects sub ON sub.id = s.subject_id").
		Where(squirrel.Eq{"sub.teacher_id": teacherID})
	if status != "" {
		q = q.Where("LOWER(s.status) = ?", strings.ToLower(string(status)))
	}
	return r.list(ctx, q)
}

// GetByGroup retrieves the schedules of a group's subjects
func (r *ScheduleRepository) GetByGroup(ctx context.Context, groupID int64) ([]*models.Schedule, error) {
	return r.list(ctx, r.sb.Select(scheduleColumns...).From("schedules s").
		Join("subjects sub ON sub.id = s.subject_id").
		Where(squirrel.Eq{"sub.group_id": groupID}))
}

// GetApprovedOnDate lists approved schedules on date, optionally excluding one schedule
func (r *ScheduleRepository) GetApprovedOnDate(ctx context.Context, date time.Time, excludeID int64) ([]*models.Schedule, error) {
	q := r.sb.Select(scheduleColumns...).From("schedules s").
		Where(squirrel.Eq{"s.date": date}).
		Where("LOWER(s.status) = ?", string(models.StatusApproved))
	if excludeID != 0 {
		q = q.Where(squirrel.NotEq{"s.id": excludeID})
	}
	return r.list(ctx, q)
}

func (r *ScheduleRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Schedule, error) {
	sql, args, err := q.OrderBy("s.date ASC NULLS LAST", "s.start_time ASC NULLS LAST", "s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list schedules query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list schedules query")
		return nil, fmt.Errorf("error querying schedules: %w", err)
	}
	defer rows.Close()

	schedules := []*models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule row: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}
	return schedules, nil
}

// Update writes every column of schedule
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	values, err := scheduleValues(schedule)
	if err != nil {
		return err
	}
	sql, args, err := r.sb.Update("schedules").SetMap(values).Where(squirrel.Eq{"id": schedule.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update schedule query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "schedules_subject_id_key") {
			return ErrScheduleSubjectTaken
		}
		logger.Error().Err(err).Int64("scheduleID", schedule.ID).Msg("Error executing update schedule query")
		return fmt.Errorf("error updating schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// ResetStudentGroupSchedules sets to pending every schedule reachable through
// schedule -> subject -> group -> SG user
func (r *ScheduleRepository) ResetStudentGroupSchedules(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Update("schedules").
		Set("status", string(models.StatusPending)).
		Where(`subject_id IN (
			SELECT sub.id FROM subjects sub
			JOIN users u ON u.group_id = sub.group_id
			WHERE u.role = ?)`, string(models.RoleStudentGroup)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reset schedules query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error resetting student group schedules")
		return 0, fmt.Errorf("error resetting schedules: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete deletes a schedule by ID
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM schedules WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Int64("scheduleID", id).Msg("Error executing delete schedule query")
		return fmt.Errorf("error deleting schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// DeleteAll removes every schedule
func (r *ScheduleRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAllSchedules(ctx, r.db)
}

// DeleteAllTx removes every schedule inside tx
func (r *ScheduleRepository) DeleteAllTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	return deleteAllSchedules(ctx, tx)
}

func deleteAllSchedules(ctx context.Context, q querier) (int64, error) {
	tag, err := q.Exec(ctx, "DELETE FROM schedules")
	if err != nil {
		return 0, fmt.Errorf("error deleting schedules: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreatePendingTx inserts an empty pending schedule for subjectID inside tx
func (r *ScheduleRepository) CreatePendingTx(ctx context.Context, tx pgx.Tx, subjectID int64) error {
	sql, args, err := r.sb.Insert("schedules").
		Columns("subject_id", "status").
		Values(subjectID, string(models.StatusPending)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create pending schedule query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating pending schedule for subject %d: %w", subjectID, err)
	}
	return nil
}
