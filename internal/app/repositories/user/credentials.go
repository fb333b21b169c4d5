package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// UpdatePasswordHash stores a new bcrypt hash for the user
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password_hash", hash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AttachGoogleID links a Google account to an existing user that has none yet
func (r *Repository) AttachGoogleID(ctx context.Context, userID int64, googleID string) error {
	sql, args, err := r.sb.Update("users").
		Set("google_id", googleID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Where(squirrel.Eq{"google_id": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attach google id query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error attaching google id: %w", err)
	}
	return nil
}
