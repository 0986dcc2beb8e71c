package rfpdesk

import (
	"context"
	"strings"
)

const extractionSystemPrompt = `You are an expert at extracting structured information from RFP documents.
Extract the following fields from the provided text:
- title: The title or name of the RFP
- company: The company or organization issuing the RFP
- description: A brief description of the project or service requested
- requirements: Key requirements or specifications
- contact: Contact information (email, phone, or person name)
- deadline: Submission deadline date
- budget: Budget or cost information

Return only a single JSON object with exactly these fields and no other text.
If any field is not found in the text, leave it as null. Extract information accurately.`

// RecordExtractor turns unstructured RFP text into a validated Record via one
// schema-constrained completion call. No retries and no caching: one document
// in, one Record or one ExtractionError out. Retry policy belongs to the caller.
type RecordExtractor struct {
	provider Provider
	parser   *Extractor[Record]
}

// NewRecordExtractor creates a RecordExtractor backed by the given provider.
func NewRecordExtractor(provider Provider) (*RecordExtractor, error) {
	parser, err := NewExtractor[Record](false)
	if err != nil {
		return nil, err
	}
	return &RecordExtractor{provider: provider, parser: parser}, nil
}

// Schema returns the JSON Schema the extraction response must conform to.
func (x *RecordExtractor) Schema() map[string]any {
	return x.parser.Schema()
}

// Extract issues one completion request for rawText and returns the validated
// Record with its id unset (the store binds the id on persist). Failures are
// ExtractionError values wrapping ErrProviderFailure (transport or provider
// error), ErrMalformedOutput (response is not JSON), or ErrSchemaViolation
// (JSON that does not satisfy the record shape, with the offending fields).
func (x *RecordExtractor) Extract(ctx context.Context, rawText string) (Record, error) {
	req := CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: extractionSystemPrompt},
			{Role: RoleUser, Content: rawText},
		},
		ResponseSchema: x.parser.Schema(),
	}
	comp, err := x.provider.Complete(ctx, req)
	if err != nil {
		return Record{}, &ExtractionError{
			Reason: "completion request failed: " + err.Error(),
			Err:    ErrProviderFailure,
		}
	}
	rec, err := x.parser.ParseAndValidate([]byte(stripCodeFences(comp.Content)))
	if err != nil {
		return Record{}, err
	}
	// The id is bound by the store, never by the model.
	rec.ID = 0
	return rec, nil
}

// stripCodeFences removes a surrounding markdown code fence so providers
// without constrained decoding can still return candidate JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
