package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/dberrors"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// Common errors
var (
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrEmailAlreadyExists = apperrors.ErrEmailAlreadyExists
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "role", "group_id", "phone", "department",
	"password_hash", "google_id", "is_active", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.GroupID, &u.Phone,
		&u.Department, &u.PasswordHash, &u.GoogleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Repository handles common user database operations
type Repository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRepository creates a new Repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUser inserts user and fills its ID and timestamps
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("first_name", "last_name", "email", "role", "group_id", "phone", "department",
			"password_hash", "google_id", "is_active").
		Values(user.FirstName, user.LastName, user.Email, user.Role, user.GroupID, user.Phone,
			user.Department, user.PasswordHash, user.GoogleID, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetUserByEmail retrieves a user by email, ignoring case
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

// GetUserByGoogleID retrieves a user by Google account id
func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"google_id": googleID})
}

// ListUsers returns the users matching where ordered by last and first name. A nil where lists all.
func (r *Repository) ListUsers(ctx context.Context, where squirrel.Sqlizer) ([]*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").OrderBy("last_name ASC", "first_name ASC", "id ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateUser writes every mutable column of user
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"email":         user.Email,
			"role":          user.Role,
			"group_id":      user.GroupID,
			"phone":         user.Phone,
			"department":    user.Department,
			"password_hash": user.PasswordHash,
			"google_id":     user.GoogleID,
			"is_active":     user.IsActive,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if dberrors.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user by ID
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("User with ID %d is still referenced by subjects", id))
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error deleting user")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAllUsers removes every user and returns how many were deleted
func (r *Repository) DeleteAllUsers(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM users")
	if err != nil {
		logger.Error().Err(err).Msg("Error deleting all users")
		return 0, fmt.Errorf("error deleting users: %w", err)
	}
	return tag.RowsAffected(), nil
}
