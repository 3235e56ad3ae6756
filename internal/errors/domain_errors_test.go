package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("bad invoice row", stderrors.New("wrong field count")),
			want: "[PARSING] bad invoice row: wrong field count",
		},
		{
			name: "without cause",
			err:  NewAppValidationError("limit must be positive"),
			want: "[VALIDATION] limit must be positive",
		},
		{
			name: "not found",
			err:  NewNotFoundError("dataset"),
			want: "[NOT_FOUND] dataset not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("cannot write report", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("skipped rows", nil).
		WithContext("file", "invoice.csv").
		WithContext("rows", 7)

	assert.Equal(t, "invoice.csv", err.Context["file"])
	assert.Equal(t, 7, err.Context["rows"])
}

func TestErrorTypeConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want ErrorType
	}{
		{name: "parsing", err: NewParsingError("x", nil), want: ErrTypeParsing},
		{name: "storage", err: NewStorageError("x", nil), want: ErrTypeStorage},
		{name: "export", err: NewExportError("x", nil), want: ErrTypeExport},
		{name: "validation", err: NewAppValidationError("x"), want: ErrTypeValidation},
		{name: "not found", err: NewNotFoundError("x"), want: ErrTypeNotFound},
		{name: "config", err: NewConfigError("x", nil), want: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
		})
	}
}
