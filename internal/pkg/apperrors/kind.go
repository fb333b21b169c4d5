package apperrors

import "errors"

// Kind classifies the outcome of a service operation.
type Kind int

const (
	KindFound Kind = iota
	KindNotFound
	KindInvalid
	KindConflict
	KindForbidden
	KindUnauthorized
	KindExternal
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

var kindTable = []struct {
	kind    Kind
	targets []error
}{
	{KindNotFound, []error{
		ErrResourceNotFound, ErrUserNotFound, ErrGroupNotFound, ErrRoomNotFound, ErrSubjectNotFound,
		ErrScheduleNotFound, ErrConfigNotFound, ErrNotificationNotFound, ErrTemplateNotFound,
	}},
	{KindInvalid, []error{ErrValidationFailed, ErrBadRequest}},
	{KindConflict, []error{ErrConflict, ErrResourceAlreadyExists, ErrEmailAlreadyExists, ErrScheduleConflict}},
	{KindForbidden, []error{ErrPermissionDenied, ErrAccountDisabled}},
	{KindUnauthorized, []error{ErrInvalidCredentials, ErrTokenExpired, ErrTokenInvalid, ErrInvalidFormat}},
	{KindExternal, []error{ErrExternalService}},
}

// KindOf classifies err. A nil error is KindFound.
func KindOf(err error) Kind {
	if err == nil {
		return KindFound
	}
	for _, row := range kindTable {
		for _, target := range row.targets {
			if errors.Is(err, target) {
				return row.kind
			}
		}
	}
	return KindInternal
}
