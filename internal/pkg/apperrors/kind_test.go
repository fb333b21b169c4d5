package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil is found", nil, KindFound},
		{"wrapped not found", fmt.Errorf("get user: %w", ErrUserNotFound), KindNotFound},
		{"custom validation", NewValidationError("End date must be after start date"), KindInvalid},
		{"duplicate email", fmt.Errorf("%w: a@b.c", ErrEmailAlreadyExists), KindConflict},
		{"blocked approval", ErrScheduleConflict, KindConflict},
		{"forbidden", NewForbiddenError("only ADM"), KindForbidden},
		{"unauthorized", NewUnauthorizedError("bad password"), KindUnauthorized},
		{"collector down", fmt.Errorf("%w: collector returned 503", ErrExternalService), KindExternal},
		{"unknown", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	err := fmt.Errorf("create subject: %w", NewValidationError("Group with ID 7 not found"))

	assert.Equal(t, "Group with ID 7 not found", MessageOf(err, "fallback"))
	assert.Equal(t, "fallback", MessageOf(errors.New("plain"), "fallback"))
}
