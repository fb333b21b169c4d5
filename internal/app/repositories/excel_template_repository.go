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

// IExcelTemplateRepository defines Excel template persistence
type IExcelTemplateRepository interface {
	Create(ctx context.Context, template *models.ExcelTemplate) error
	GetByID(ctx context.Context, id int64) (*models.ExcelTemplate, error)
	GetByName(ctx context.Context, name string) (*models.ExcelTemplate, error)
	// GetAll lists templates without their file content
	GetAll(ctx context.Context) ([]*models.ExcelTemplate, error)
	Update(ctx context.Context, template *models.ExcelTemplate) error
	Delete(ctx context.Context, id int64) error
}

// ExcelTemplateRepository handles excel_templates database operations
type ExcelTemplateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExcelTemplateRepository creates a new ExcelTemplateRepository
func NewExcelTemplateRepository(db *pgxpool.Pool) *ExcelTemplateRepository {
	return &ExcelTemplateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var templateColumns = []string{"id", "name", "type", "group_id", "file_name", "description", "uploaded_at"}

func scanTemplate(row rowScanner, withContent bool) (*models.ExcelTemplate, error) {
	t := &models.ExcelTemplate{}
	dest := []any{&t.ID, &t.Name, &t.Type, &t.GroupID, &t.FileName, &t.Description, &t.UploadedAt}
	if withContent {
		dest = append(dest, &t.Content)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a template and sets its ID and upload time
func (r *ExcelTemplateRepository) Create(ctx context.Context, template *models.ExcelTemplate) error {
	sql, args, err := r.sb.Insert("excel_templates").
		Columns("name", "type", "group_id", "file", "file_name", "description").
		Values(template.Name, template.Type, template.GroupID, template.Content, template.FileName, template.Description).
		Suffix("RETURNING id, uploaded_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create template query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&template.ID, &template.UploadedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrGroupNotFound
		}
		logger.Error().Err(err).Str("name", template.Name).Msg("Error executing create template query")
		return fmt.Errorf("error creating template: %w", err)
	}
	return nil
}

func (r *ExcelTemplateRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.ExcelTemplate, error) {
	sql, args, err := r.sb.Select(append(templateColumns, "file")...).
		From("excel_templates").
		Where(where).
		OrderBy("uploaded_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get template query: %w", err)
	}

	t, err := scanTemplate(r.db.QueryRow(ctx, sql, args...), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		logger.Error().Err(err).Msg("Error scanning template row")
		return nil, fmt.Errorf("error getting template: %w", err)
	}
	return t, nil
}

// GetByID retrieves a template with its content
func (r *ExcelTemplateRepository) GetByID(ctx context.Context, id int64) (*models.ExcelTemplate, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves the newest template with the given name, with its content
func (r *ExcelTemplateRepository) GetByName(ctx context.Context, name string) (*models.ExcelTemplate, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// GetAll lists templates without content
func (r *ExcelTemplateRepository) GetAll(ctx context.Context) ([]*models.ExcelTemplate, error) {
	sql, args, err := r.sb.Select(templateColumns...).From("excel_templates").OrderBy("uploaded_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list templates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list templates query")
		return nil, fmt.Errorf("error querying templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.ExcelTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows, false)
		if err != nil {
			return nil, fmt.Errorf("error scanning template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}
	return templates, nil
}

// Update writes the metadata and content of a template
func (r *ExcelTemplateRepository) Update(ctx context.Context, template *models.ExcelTemplate) error {
	sql, args, err := r.sb.Update("excel_templates").
		SetMap(map[string]interface{}{
			"name":        template.Name,
			"type":        template.Type,
			"group_id":    template.GroupID,
			"file":        template.Content,
			"file_name":   template.FileName,
			"description": template.Description,
			"uploaded_at": template.UploadedAt,
		}).
		Where(squirrel.Eq{"id": template.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update template query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("error updating template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete deletes a template by ID
func (r *ExcelTemplateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM excel_templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
