package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/dberrors"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// ISubjectRepository defines subject persistence
type ISubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	GetByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error)
	GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	GetByAssistant(ctx context.Context, assistantID int64) ([]*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	ReassignTeacher(ctx context.Context, groupID, teacherID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var subjectColumns = []string{
	"id", "name", "short_name", "study_program", "study_year", "group_id", "teacher_id", "assistant_ids",
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	s := &models.Subject{}
	err := row.Scan(&s.ID, &s.Name, &s.ShortName, &s.StudyProgram, &s.StudyYear, &s.GroupID, &s.TeacherID, &s.AssistantIDs)
	if err != nil {
		return nil, err
	}
	if s.AssistantIDs == nil {
		s.AssistantIDs = []int64{}
	}
	return s, nil
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// Create inserts a subject and sets its ID
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Insert("subjects").
		Columns("name", "short_name", "study_program", "study_year", "group_id", "teacher_id", "assistant_ids").
		Values(subject.Name, subject.ShortName, subject.StudyProgram, subject.StudyYear, subject.GroupID,
			subject.TeacherID, idsOrEmpty(subject.AssistantIDs)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID); err != nil {
		logger.Error().Err(err).Str("name", subject.Name).Msg("Error executing create subject query")
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns...).From("subjects").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	subject, err := scanSubject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		logger.Error().Err(err).Int64("subjectID", id).Msg("Error scanning subject row")
		return nil, fmt.Errorf("error getting subject by ID: %w", err)
	}
	return subject, nil
}

// GetAll retrieves all subjects
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	return r.list(ctx, nil)
}

// GetByGroup retrieves the subjects of a group
func (r *SubjectRepository) GetByGroup(ctx context.Context, groupID int64) ([]*models.Subject, error) {
	return r.list(ctx, squirrel.Eq{"group_id": groupID})
}

// GetByTeacher retrieves the subjects taught by a teacher
func (r *SubjectRepository) GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	return r.list(ctx, squirrel.Eq{"teacher_id": teacherID})
}

// GetByAssistant retrieves the subjects an assistant helps with
func (r *SubjectRepository) GetByAssistant(ctx context.Context, assistantID int64) ([]*models.Subject, error) {
	return r.list(ctx, squirrel.Expr("? = ANY(assistant_ids)", assistantID))
}

func (r *SubjectRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Subject, error) {
	q := r.sb.Select(subjectColumns...).From("subjects").OrderBy("id ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subjects query")
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return subjects, nil
}

// Update updates an existing subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Update("subjects").
		SetMap(map[string]interface{}{
			"name":          subject.Name,
			"short_name":    subject.ShortName,
			"study_program": subject.StudyProgram,
			"study_year":    subject.StudyYear,
			"group_id":      subject.GroupID,
			"teacher_id":    subject.TeacherID,
			"assistant_ids": idsOrEmpty(subject.AssistantIDs),
		}).
		Where(squirrel.Eq{"id": subject.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update subject query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("subjectID", subject.ID).Msg("Error executing update subject query")
		return fmt.Errorf("error updating subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// ReassignTeacher points every subject of groupID at teacherID and returns the number changed
func (r *SubjectRepository) ReassignTeacher(ctx context.Context, groupID, teacherID int64) (int64, error) {
	sql, args, err := r.sb.Update("subjects").
		Set("teacher_id", teacherID).
		Where(squirrel.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reassign teacher query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error reassigning subjects: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete deletes a subject and, through the foreign key, its schedule
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subjects WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Int64("subjectID", id).Msg("Error executing delete subject query")
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// DeleteAll removes every subject
func (r *SubjectRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM subjects")
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, ErrReferenced
		}
		return 0, fmt.Errorf("error deleting subjects: %w", err)
	}
	return tag.RowsAffected(), nil
}
