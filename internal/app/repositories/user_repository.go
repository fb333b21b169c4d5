package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/repositories/user"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	GetByGroup(ctx context.Context, groupID int64, role models.Role) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)

	// Authentication
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	AttachGoogleID(ctx context.Context, userID int64, googleID string) error
}

// UserRepository implements IUserRepository on top of the user package
type UserRepository struct {
	common *user.Repository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{common: user.NewRepository(db)}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.common.CreateUser(ctx, u)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.common.GetUserByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.common.GetUserByEmail(ctx, email)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.common.GetUserByGoogleID(ctx, googleID)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	return r.common.ListUsers(ctx, nil)
}

func (r *UserRepository) GetByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return r.common.ListUsers(ctx, squirrel.Eq{"role": role})
}

// GetByGroup lists the users of a group. An empty role lists every role.
func (r *UserRepository) GetByGroup(ctx context.Context, groupID int64, role models.Role) ([]*models.User, error) {
	where := squirrel.And{squirrel.Eq{"group_id": groupID}}
	if role != "" {
		where = append(where, squirrel.Eq{"role": role})
	}
	return r.common.ListUsers(ctx, where)
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	return r.common.UpdateUser(ctx, u)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.common.DeleteUser(ctx, id)
}

func (r *UserRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.common.DeleteAllUsers(ctx)
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return r.common.UpdatePasswordHash(ctx, userID, hash)
}

func (r *UserRepository) AttachGoogleID(ctx context.Context, userID int64, googleID string) error {
	return r.common.AttachGoogleID(ctx, userID, googleID)
}
