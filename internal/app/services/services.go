package services

import (
	"errors"
	"fmt"

	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: admin password login, Google login, password change
// - UserService, GroupService, RoomService, SubjectService: master data
// - ScheduleService: schedule CRUD, status checks and room conflict detection
// - ExamService: joined exam listings, proposals, reviews and exports
// - ConfigService: exam periods and the notification cascade
// - NotificationService, ExcelTemplateService, ExcelService
// - SyncService: full resynchronization with the collector

// notFoundf returns a not-found error classified by sentinel with a client-facing message
func notFoundf(sentinel error, format string, args ...interface{}) error {
	return apperrors.NewCustomError(sentinel, fmt.Sprintf(format, args...))
}

// invalidf returns a validation error with a client-facing message
func invalidf(format string, args ...interface{}) error {
	return apperrors.NewValidationError(fmt.Sprintf(format, args...))
}

// describeNotFound rewrites err into a not-found error with a message when it matches sentinel
func describeNotFound(err, sentinel error, format string, args ...interface{}) error {
	if errors.Is(err, sentinel) {
		return notFoundf(sentinel, format, args...)
	}
	return err
}

// referenceErr turns a missing referenced entity into a validation error. Other errors pass through.
func referenceErr(err, sentinel error, format string, args ...interface{}) error {
	if errors.Is(err, sentinel) {
		return invalidf(format, args...)
	}
	return err
}

func strPtr(s string) *string { return &s }
