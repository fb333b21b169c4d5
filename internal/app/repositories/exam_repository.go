package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/helpers"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// IExamRepository reads the joined exam view of schedules
type IExamRepository interface {
	List(ctx context.Context, filter models.ExamFilter) ([]*models.Exam, error)
	GetByID(ctx context.Context, scheduleID int64) (*models.Exam, error)
}

// ExamRepository joins schedules with subjects, groups, teachers and rooms
type ExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ExamRepository) baseQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.subject_id", "sub.name", "sub.short_name", "sub.study_program",
		"sub.teacher_id", "u.first_name", "u.last_name", "u.email", "u.phone",
		"s.room_ids",
		"ARRAY(SELECT rm.name FROM rooms rm WHERE rm.id = ANY(s.room_ids) ORDER BY array_position(s.room_ids, rm.id))",
		"s.date", "s.start_time", "s.end_time", "s.status", "s.message",
		"sub.group_id", "g.name", "g.specialization_short_name", "g.study_year",
	).
		From("schedules s").
		Join("subjects sub ON sub.id = s.subject_id").
		Join("groups g ON g.id = sub.group_id").
		Join("users u ON u.id = sub.teacher_id")
}

// applyFilter adds one condition per non-zero filter field
func applyFilter(q squirrel.SelectBuilder, filter models.ExamFilter) squirrel.SelectBuilder {
	if filter.StudyProgram != "" {
		q = q.Where(squirrel.Eq{"sub.study_program": filter.StudyProgram})
	}
	if filter.TeacherID != 0 {
		q = q.Where(squirrel.Eq{"sub.teacher_id": filter.TeacherID})
	}
	if filter.GroupID != 0 {
		q = q.Where(squirrel.Eq{"sub.group_id": filter.GroupID})
	}
	if filter.Status != "" {
		q = q.Where("LOWER(s.status) = ?", strings.ToLower(filter.Status))
	}
	return q
}

func scanExam(row rowScanner) (*models.Exam, error) {
	var (
		e          models.Exam
		start, end pgtype.Time
		status     *string
	)
	err := row.Scan(&e.ID, &e.SubjectID, &e.SubjectName, &e.SubjectShortName, &e.StudyProgram,
		&e.TeacherID, &e.TeacherFirstName, &e.TeacherLastName, &e.TeacherEmail, &e.TeacherPhone,
		&e.RoomIDs, &e.RoomNames,
		&e.Date, &start, &end, &status, &e.Message,
		&e.GroupID, &e.GroupName, &e.SpecializationShortName, &e.StudyYear)
	if err != nil {
		return nil, err
	}
	e.StartTime = helpers.ClockFromPG(start)
	e.EndTime = helpers.ClockFromPG(end)
	if status != nil {
		st := models.ScheduleStatus(strings.ToLower(*status))
		e.Status = &st
	}
	if e.RoomIDs == nil {
		e.RoomIDs = []int64{}
	}
	if e.RoomNames == nil {
		e.RoomNames = []string{}
	}
	return &e, nil
}

// List returns the exams matching filter ordered by date and start time
func (r *ExamRepository) List(ctx context.Context, filter models.ExamFilter) ([]*models.Exam, error) {
	sql, args, err := applyFilter(r.baseQuery(), filter).
		OrderBy("s.date ASC NULLS LAST", "s.start_time ASC NULLS LAST", "s.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list exams SQL")
		return nil, fmt.Errorf("failed to build list exams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list exams query")
		return nil, fmt.Errorf("error querying exams: %w", err)
	}
	defer rows.Close()

	exams := []*models.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning exam row: %w", err)
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exam rows: %w", err)
	}
	return exams, nil
}

// GetByID returns the exam view of one schedule
func (r *ExamRepository) GetByID(ctx context.Context, scheduleID int64) (*models.Exam, error) {
	sql, args, err := r.baseQuery().Where(squirrel.Eq{"s.id": scheduleID}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get exam query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error getting exam: %w", err)
	}
	return exam, nil
}
