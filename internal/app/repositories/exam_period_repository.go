package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// IExamPeriodRepository defines exam-period (configs table) persistence
type IExamPeriodRepository interface {
	Create(ctx context.Context, period *models.ExamPeriod) error
	GetByID(ctx context.Context, id int64) (*models.ExamPeriod, error)
	GetAll(ctx context.Context) ([]*models.ExamPeriod, error)
	// GetCurrent returns the most recently modified period
	GetCurrent(ctx context.Context) (*models.ExamPeriod, error)
	Update(ctx context.Context, period *models.ExamPeriod) error
	Delete(ctx context.Context, id int64) error
}

// ExamPeriodRepository handles configs table operations
type ExamPeriodRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExamPeriodRepository creates a new ExamPeriodRepository
func NewExamPeriodRepository(db *pgxpool.Pool) *ExamPeriodRepository {
	return &ExamPeriodRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var examPeriodColumns = []string{"id", "start_date", "end_date", "modified_at"}

func scanExamPeriod(row rowScanner) (*models.ExamPeriod, error) {
	p := &models.ExamPeriod{}
	if err := row.Scan(&p.ID, &p.StartDate, &p.EndDate, &p.ModifiedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a period and sets its ID and modification time
func (r *ExamPeriodRepository) Create(ctx context.Context, period *models.ExamPeriod) error {
	sql, args, err := r.sb.Insert("configs").
		Columns("start_date", "end_date").
		Values(period.StartDate, period.EndDate).
		Suffix("RETURNING id, modified_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create config query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&period.ID, &period.ModifiedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create config query")
		return fmt.Errorf("error creating config: %w", err)
	}
	return nil
}

func (r *ExamPeriodRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.ExamPeriod, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get config query: %w", err)
	}

	period, err := scanExamPeriod(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		logger.Error().Err(err).Msg("Error scanning config row")
		return nil, fmt.Errorf("error getting config: %w", err)
	}
	return period, nil
}

// GetByID retrieves a period by ID
func (r *ExamPeriodRepository) GetByID(ctx context.Context, id int64) (*models.ExamPeriod, error) {
	return r.getOne(ctx, r.sb.Select(examPeriodColumns...).From("configs").Where(squirrel.Eq{"id": id}))
}

// GetCurrent retrieves the most recently modified period
func (r *ExamPeriodRepository) GetCurrent(ctx context.Context) (*models.ExamPeriod, error) {
	return r.getOne(ctx, r.sb.Select(examPeriodColumns...).From("configs").OrderBy("modified_at DESC", "id DESC"))
}

// GetAll retrieves every period, newest first
func (r *ExamPeriodRepository) GetAll(ctx context.Context) ([]*models.ExamPeriod, error) {
	sql, args, err := r.sb.Select(examPeriodColumns...).From("configs").OrderBy("modified_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all configs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all configs query")
		return nil, fmt.Errorf("error querying configs: %w", err)
	}
	defer rows.Close()

	periods := []*models.ExamPeriod{}
	for rows.Next() {
		p, err := scanExamPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning config row: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config rows: %w", err)
	}
	return periods, nil
}

// Update writes the dates and bumps modified_at, making the period current
func (r *ExamPeriodRepository) Update(ctx context.Context, period *models.ExamPeriod) error {
	sql, args, err := r.sb.Update("configs").
		Set("start_date", period.StartDate).
		Set("end_date", period.EndDate).
		Set("modified_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": period.ID}).
		Suffix("RETURNING modified_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update config query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&period.ModifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConfigNotFound
		}
		logger.Error().Err(err).Int64("configID", period.ID).Msg("Error executing update config query")
		return fmt.Errorf("error updating config: %w", err)
	}
	return nil
}

// Delete deletes a period by ID
func (r *ExamPeriodRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM configs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigNotFound
	}
	return nil
}
