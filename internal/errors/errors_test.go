package errors

import (
	"errors"
	"fmt"
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
			name: "without cause",
			err:  NewSchemaError("required column Price absent", nil),
			want: "[SCHEMA] required column Price absent",
		},
		{
			name: "with cause",
			err:  NewParseError("bad invoice date", fmt.Errorf("cannot parse %q", "13/45/2010")),
			want: `[PARSE] bad invoice date: cannot parse "13/45/2010"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewStorageError("write failed", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestIsType(t *testing.T) {
	schemaErr := NewSchemaError("missing column", nil)
	wrapped := fmt.Errorf("load failed: %w", schemaErr)

	assert.True(t, IsSchema(wrapped))
	assert.False(t, IsParse(wrapped))
	assert.False(t, IsSchema(errors.New("plain")))
	assert.False(t, IsSchema(nil))
}

func TestNewDataQualityError_Context(t *testing.T) {
	err := NewDataQualityError("error rate above threshold", 42)

	assert.True(t, IsDataQuality(err))
	assert.Equal(t, 42, err.Context["failed_rows"])
}

func TestNewDataQualityError_WrapsParseCause(t *testing.T) {
	err := NewDataQualityError("error rate above threshold", 3)

	// The threshold breach is caused by row parse failures, and the cause
	// chain says so.
	assert.True(t, IsParse(err))

	var cause *AppError
	require.ErrorAs(t, err.Unwrap(), &cause)
	assert.Equal(t, ErrTypeParse, cause.Type)
	assert.Contains(t, cause.Message, "3 rows")
}

func TestIsType_SearchesCauseChain(t *testing.T) {
	inner := NewParseError("bad row", nil)
	outer := NewAppError(ErrTypeDataQuality, "too many failures", inner)

	assert.True(t, IsDataQuality(outer))
	assert.True(t, IsParse(outer))
	assert.False(t, IsSchema(outer))
}

func TestWithContext(t *testing.T) {
	err := NewParseError("bad quantity", nil).
		WithContext("row", 17).
		WithContext("column", "Quantity")

	assert.Equal(t, 17, err.Context["row"])
	assert.Equal(t, "Quantity", err.Context["column"])
}
