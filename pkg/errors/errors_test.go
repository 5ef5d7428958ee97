package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPQ(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		status  int
		message string
	}{
		{
			name:    "duplicate training",
			err:     fmt.Errorf("insert training: %w", &pq.Error{Code: "23505", Constraint: "trainings_worker_id_competency_id_date_completed_key"}),
			code:    ErrConflict.Code,
			status:  http.StatusConflict,
			message: "resource already exists",
		},
		{
			name:    "protected reference",
			err:     fmt.Errorf("delete competency: %w", &pq.Error{Code: "23503", Constraint: "trainings_competency_id_fkey"}),
			code:    ErrConflict.Code,
			status:  http.StatusConflict,
			message: "protected reference",
		},
		{
			name:    "other postgres failure",
			err:     fmt.Errorf("insert worker: %w", &pq.Error{Code: "22P02"}),
			code:    ErrInternal.Code,
			status:  http.StatusInternalServerError,
			message: "failed to create worker",
		},
		{
			name:    "non postgres failure",
			err:     sql.ErrConnDone,
			code:    ErrInternal.Code,
			status:  http.StatusInternalServerError,
			message: "failed to create worker",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromPQ(tc.err, "failed to create worker")
			require.NotNil(t, got)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.message, got.Message)
			assert.ErrorIs(t, got, tc.err)
		})
	}

	assert.Nil(t, FromPQ(nil, "unused"))
}

func TestValidationDetails(t *testing.T) {
	type request struct {
		DistrictID string   `validate:"required,uuid"`
		Workers    int      `validate:"min=1,max=100"`
		Skills     []string `validate:"omitempty,dive,uuid"`
	}

	err := validator.New().Struct(request{DistrictID: "abc", Workers: 0, Skills: []string{"ipc"}})
	got := Validation(err, "")

	assert.Equal(t, ErrValidation.Code, got.Code)
	assert.Equal(t, ErrValidation.Message, got.Message)
	details, ok := got.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, details, 3)
	assert.Equal(t, FieldError{Field: "DistrictID", Rule: "uuid", Message: "DistrictID must be a valid id"}, details[0])
	assert.Equal(t, "min", details[1].Rule)
	assert.Equal(t, "uuid", details[2].Rule)
}

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "worker not found")
	assert.Same(t, typed, FromError(fmt.Errorf("lookup: %w", typed)))

	plain := FromError(sql.ErrTxDone)
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.ErrorIs(t, plain, sql.ErrTxDone)
	assert.Nil(t, FromError(nil))
}
