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

// IGroupRepository defines group persistence
type IGroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByName(ctx context.Context, name string) (*models.Group, error)
	GetAll(ctx context.Context) ([]*models.Group, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// GroupRepository handles group database operations
type GroupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var groupColumns = []string{"id", "name", "study_year", "specialization_short_name", "group_ids"}

func scanGroup(row rowScanner) (*models.Group, error) {
	g := &models.Group{}
	if err := row.Scan(&g.ID, &g.Name, &g.StudyYear, &g.SpecializationShortName, &g.GroupIDs); err != nil {
		return nil, err
	}
	if g.GroupIDs == nil {
		g.GroupIDs = []string{}
	}
	return g, nil
}

func groupIDsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// Create inserts a group and sets its ID
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	sql, args, err := r.sb.Insert("groups").
		Columns("name", "study_year", "specialization_short_name", "group_ids").
		Values(group.Name, group.StudyYear, group.SpecializationShortName, groupIDsOrEmpty(group.GroupIDs)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create group SQL")
		return fmt.Errorf("failed to build create group query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID); err != nil {
		logger.Error().Err(err).Str("name", group.Name).Msg("Error executing create group query")
		return fmt.Errorf("error creating group: %w", err)
	}
	return nil
}

func (r *GroupRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).From("groups").Where(where).OrderBy("id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	group, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		logger.Error().Err(err).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group: %w", err)
	}
	return group, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves the oldest group with the given name
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// GetAll retrieves all groups
func (r *GroupRepository) GetAll(ctx context.Context) ([]*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).From("groups").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all groups query")
		return nil, fmt.Errorf("error querying groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

// Exists reports whether a group with id exists
func (r *GroupRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking group existence: %w", err)
	}
	return exists, nil
}

// Update updates an existing group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	sql, args, err := r.sb.Update("groups").
		SetMap(map[string]interface{}{
			"name":                      group.Name,
			"study_year":                group.StudyYear,
			"specialization_short_name": group.SpecializationShortName,
			"group_ids":                 groupIDsOrEmpty(group.GroupIDs),
		}).
		Where(squirrel.Eq{"id": group.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update group query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", group.ID).Msg("Error executing update group query")
		return fmt.Errorf("error updating group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// Delete deletes a group by ID. Groups still referenced by users or subjects cannot be deleted.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("groups").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete group query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		logger.Error().Err(err).Int64("groupID", id).Msg("Error executing delete group query")
		return fmt.Errorf("error deleting group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// DeleteAll removes every group
func (r *GroupRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM groups")
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, ErrReferenced
		}
		return 0, fmt.Errorf("error deleting groups: %w", err)
	}
	return tag.RowsAffected(), nil
}
