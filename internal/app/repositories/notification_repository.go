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

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetAll(ctx context.Context) ([]*models.Notification, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	GetByStatus(ctx context.Context, status string) ([]*models.Notification, error)
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var notificationColumns = []string{"id", "user_id", "message", "status", "date_sent"}

func scanNotification(row rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Status, &n.DateSent); err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a notification and sets its ID and send date
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "message", "status").
		Values(notification.UserID, notification.Message, notification.Status).
		Suffix("RETURNING id, date_sent").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&notification.ID, &notification.DateSent); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", notification.UserID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	sql, args, err := r.sb.Select(notificationColumns...).From("notifications").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}

	n, err := scanNotification(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error getting notification by ID: %w", err)
	}
	return n, nil
}

// GetAll retrieves all notifications, newest first
func (r *NotificationRepository) GetAll(ctx context.Context) ([]*models.Notification, error) {
	return r.list(ctx, nil)
}

// GetByUser retrieves the notifications of a user
func (r *NotificationRepository) GetByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

// GetByStatus retrieves the notifications in a status
func (r *NotificationRepository) GetByStatus(ctx context.Context, status string) ([]*models.Notification, error) {
	return r.list(ctx, squirrel.Eq{"status": status})
}

func (r *NotificationRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Notification, error) {
	q := r.sb.Select(notificationColumns...).From("notifications").OrderBy("date_sent DESC", "id DESC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notifications query")
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}

// Update writes the user, message and status of a notification
func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	sql, args, err := r.sb.Update("notifications").
		SetMap(map[string]interface{}{
			"user_id": notification.UserID,
			"message": notification.Message,
			"status":  notification.Status,
		}).
		Where(squirrel.Eq{"id": notification.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update notification query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Delete deletes a notification by ID
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAll removes every notification
func (r *NotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM notifications")
	if err != nil {
		return 0, fmt.Errorf("error deleting notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
