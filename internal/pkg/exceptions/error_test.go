package exceptions

import (
	"context"
	"delivery-slot-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	conflict := ErrSlotConflict(nil, "2025-03-11", "09:00")

	assert.True(t, HasCode(conflict, constvars.ErrCodeSlotConflict))
	assert.True(t, HasCode(fmt.Errorf("submit: %w", conflict), constvars.ErrCodeSlotConflict))
	assert.False(t, HasCode(conflict, constvars.ErrCodeStaleSlot))
	assert.False(t, HasCode(errors.New("plain"), constvars.ErrCodeSlotConflict))
	assert.False(t, HasCode(nil, constvars.ErrCodeSlotConflict))

	// A generic wrapper around a coded error still reports the inner code.
	wrapped := ErrServerProcess(ErrLockWaitTimeout(context.DeadlineExceeded, "slot:2025-03-11:09:00"))
	assert.True(t, HasCode(wrapped, constvars.ErrCodeDatastoreTimeout))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"datastore timeout", ErrDatastoreTimeout(context.DeadlineExceeded), true},
		{"lock wait timeout", ErrLockWaitTimeout(nil, "k"), true},
		{"rate limited", ErrTooManyRequests(nil), true},
		{"slot conflict", ErrSlotConflict(nil, "2025-03-11", "09:00"), false},
		{"illegal transition", ErrIllegalTransition(nil, "approve", "rejected"), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		err    *CustomError
		status int
		code   string
	}{
		{ErrSlotConflict(nil, "d", "s"), http.StatusConflict, constvars.ErrCodeSlotConflict},
		{ErrStaleSlot(nil, "d", "s"), http.StatusUnprocessableEntity, constvars.ErrCodeStaleSlot},
		{ErrIllegalTransition(nil, "approve", "approved"), http.StatusConflict, constvars.ErrCodeIllegalTransition},
		{ErrForbidden(nil), http.StatusForbidden, constvars.ErrCodeForbidden},
		{ErrUnauthenticated(nil), http.StatusUnauthorized, constvars.ErrCodeUnauthenticated},
		{ErrDatastoreTimeout(nil), http.StatusServiceUnavailable, constvars.ErrCodeDatastoreTimeout},
		{ErrBookingNotFound(nil, "bk-1"), http.StatusNotFound, constvars.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
		})
	}
}

func TestLocationPointsAtCaller(t *testing.T) {
	err := ErrBookingNotFound(nil, "bk-1")
	require.NotNil(t, err.Location)
	assert.True(t, strings.HasSuffix(err.Location.File, "error_test.go"), err.Location.File)
	assert.Contains(t, err.Location.FunctionName, "TestLocationPointsAtCaller")
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := ErrDatastoreTimeout(context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.DevMessage, context.DeadlineExceeded.Error())
}

func TestFormatFirstValidationError(t *testing.T) {
	type payload struct {
		Reason string `validate:"required"`
		Status string `validate:"oneof=pending approved"`
		Note   string `validate:"max=3"`
	}
	v := validator.New()

	err := v.Struct(payload{Status: "pending"})
	assert.Equal(t, "reason is required", FormatFirstValidationError(err))

	err = v.Struct(payload{Reason: "x", Status: "lost"})
	assert.Equal(t, "status must be one of [pending, approved]", FormatFirstValidationError(err))

	err = v.Struct(payload{Reason: "x", Status: "pending", Note: "toolong"})
	assert.Equal(t, "note maximum at 3 characters long", FormatFirstValidationError(err))

	assert.Equal(t, constvars.ErrClientCannotProcessRequest, FormatFirstValidationError(nil))
	assert.Equal(t, constvars.ErrDevInvalidInput, FormatFirstValidationError(errors.New("x")))
}
