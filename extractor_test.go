package rfpdesk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ParseAndValidate_Record(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[Record](false)
	require.NoError(t, err)

	rec, err := ext.ParseAndValidate([]byte(`{
		"title": "Data Platform RFP",
		"company": "Initech",
		"description": "Build a data warehouse",
		"deadline": "2026-12-01",
		"requirements": null,
		"contact": null,
		"budget": null
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Data Platform RFP", rec.Title)
	assert.Equal(t, "Initech", rec.Company)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "Build a data warehouse", *rec.Description)
	assert.Nil(t, rec.Requirements, "null must stay absent, never fabricated")
	assert.Zero(t, rec.ID)
}

func TestExtractor_ParseAndValidate_InvalidJSON(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[Record](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"title": "x"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.True(t, IsExtractionError(err))
}

func TestExtractor_ParseAndValidate_MissingRequired(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[Record](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"title": "No company here"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)
	var xe *ExtractionError
	require.ErrorAs(t, err, &xe)
	assert.Contains(t, xe.Fields, "/company")
}

func TestExtractor_ParseAndValidate_BlankRequired(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[Record](false)
	require.NoError(t, err)
	// Present but blank: passes the schema layer, caught by Record.Validate.
	_, err = ext.ParseAndValidate([]byte(`{"title": "  ", "company": "Initech"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)
	var xe *ExtractionError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, []string{"title"}, xe.Fields)
}

func TestExtractor_ParseAndValidate_WrongType(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[IDArgs](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"ids": [1, "two"]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestExtractor_Schema_CopyIsShallow(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[IDArgs](false)
	require.NoError(t, err)
	s1 := ext.Schema()
	s1["type"] = "mutated"
	s2 := ext.Schema()
	assert.NotEqual(t, "mutated", s2["type"], "top-level keys must not leak between copies")
}

type rangeArgs struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (a rangeArgs) Validate() error {
	if a.Low > a.High {
		return &ExtractionError{Reason: "low must not exceed high", Fields: []string{"low"}, Err: ErrSchemaViolation}
	}
	return nil
}

func TestExtractor_ParseAndValidate_Validatable(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[rangeArgs](false)
	require.NoError(t, err)

	args, err := ext.ParseAndValidate([]byte(`{"low": 1, "high": 10}`))
	require.NoError(t, err)
	assert.Equal(t, 1, args.Low)

	_, err = ext.ParseAndValidate([]byte(`{"low": 10, "high": 1}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}
