package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// Repository error types. Each aliases the apperrors sentinel so services can classify it.
var (
	ErrNotFound             = apperrors.ErrResourceNotFound
	ErrUserNotFound         = apperrors.ErrUserNotFound
	ErrEmailAlreadyExists   = apperrors.ErrEmailAlreadyExists
	ErrGroupNotFound        = apperrors.ErrGroupNotFound
	ErrRoomNotFound         = apperrors.ErrRoomNotFound
	ErrSubjectNotFound      = apperrors.ErrSubjectNotFound
	ErrScheduleNotFound     = apperrors.ErrScheduleNotFound
	ErrConfigNotFound       = apperrors.ErrConfigNotFound
	ErrNotificationNotFound = apperrors.ErrNotificationNotFound
	ErrTemplateNotFound     = apperrors.ErrTemplateNotFound
	// ErrReferenced is returned when a row cannot be deleted because other rows point at it.
	ErrReferenced = apperrors.NewConflictError("resource is still referenced by other records")
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ErrScheduleSubjectTaken is returned when a second schedule is written for a subject
var ErrScheduleSubjectTaken = apperrors.NewConflictError("a schedule already exists for this subject")
