package rfpdesk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionError_Error(t *testing.T) {
	tests := []struct {
		name   string
		err    *ExtractionError
		expect string
	}{
		{
			"without fields",
			&ExtractionError{Reason: "json parse error: unexpected EOF", Err: ErrMalformedOutput},
			"extraction failed: json parse error: unexpected EOF",
		},
		{
			"with fields",
			&ExtractionError{Reason: "required fields are blank", Fields: []string{"title", "company"}, Err: ErrSchemaViolation},
			"extraction failed: required fields are blank (fields: title, company)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func TestDispatchError_Error(t *testing.T) {
	withTool := &DispatchError{Tool: "show_document_table", Reason: "tool is not registered", Err: ErrUnknownTool}
	assert.Equal(t, "dispatch show_document_table: tool is not registered", withTool.Error())

	noTool := &DispatchError{Reason: "boom", Err: ErrHandlerFailure}
	assert.Equal(t, "dispatch: boom", noTool.Error())
}

func TestErrorsIs_Taxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"malformed output", &ExtractionError{Reason: "x", Err: ErrMalformedOutput}, ErrMalformedOutput},
		{"schema violation", &ExtractionError{Reason: "x", Err: ErrSchemaViolation}, ErrSchemaViolation},
		{"provider failure", &ExtractionError{Reason: "x", Err: ErrProviderFailure}, ErrProviderFailure},
		{"unknown tool", &DispatchError{Reason: "x", Err: ErrUnknownTool}, ErrUnknownTool},
		{"invalid arguments", &DispatchError{Reason: "x", Err: ErrInvalidArguments}, ErrInvalidArguments},
		{"no matching records", &DispatchError{Reason: "x", Err: ErrNoMatchingRecords}, ErrNoMatchingRecords},
		{"handler failure", &DispatchError{Reason: "x", Err: ErrHandlerFailure}, ErrHandlerFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.target)
		})
	}
}

func TestIsExtractionError(t *testing.T) {
	require.True(t, IsExtractionError(&ExtractionError{Reason: "x", Err: ErrMalformedOutput}))
	require.True(t, IsExtractionError(wrapErr{err: &ExtractionError{Reason: "y"}}))
	require.False(t, IsExtractionError(&DispatchError{Reason: "x"}))
	require.False(t, IsExtractionError(ErrMalformedOutput))
}

func TestIsDispatchError(t *testing.T) {
	require.True(t, IsDispatchError(&DispatchError{Reason: "x", Err: ErrUnknownTool}))
	require.True(t, IsDispatchError(wrapErr{err: &DispatchError{Reason: "y"}}))
	require.False(t, IsDispatchError(&ExtractionError{Reason: "x"}))
	require.False(t, IsDispatchError(ErrUnknownTool))
}

func TestWrapHandlerError(t *testing.T) {
	require.NoError(t, wrapHandlerError("t", nil))

	passthrough := &DispatchError{Tool: "t", Reason: "none found", Err: ErrNoMatchingRecords}
	assert.Same(t, passthrough, wrapHandlerError("t", passthrough))

	wrapped := wrapHandlerError("t", errors.New("db down"))
	assert.ErrorIs(t, wrapped, ErrHandlerFailure)
	var de *DispatchError
	require.ErrorAs(t, wrapped, &de)
	assert.Equal(t, "t", de.Tool)
}

type wrapErr struct {
	err error
}

func (e wrapErr) Error() string {
	if e.err == nil {
		return ""
	}
	return "wrap: " + e.err.Error()
}
func (e wrapErr) Unwrap() error { return e.err }
