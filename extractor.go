package rfpdesk

import (
	"encoding/json"
	"errors"
	"maps"
	"reflect"

	jsv "github.com/santhosh-tekuri/jsonschema/v6"
)

// Extractor provides JSON Schema generation and two-layer validation (schema +
// Validatable) for type T. It is the shared machinery behind typed tool
// arguments and record extraction: one reflection pass produces both the
// schema exported to the model and the validator applied to what comes back.
type Extractor[T any] struct {
	schemaMap map[string]any
	resolved  *jsv.Schema
}

// NewExtractor creates an Extractor for type T. When strict is true, the
// generated schema has additionalProperties: false for all objects and all
// properties required (OpenAI Structured Outputs).
func NewExtractor[T any](strict bool) (*Extractor[T], error) {
	schemaMap, resolved, err := generateSchema[T](strict)
	if err != nil {
		return nil, err
	}
	return &Extractor[T]{
		schemaMap: schemaMap,
		resolved:  resolved,
	}, nil
}

// Schema returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (e *Extractor[T]) Schema() map[string]any {
	return maps.Clone(e.schemaMap)
}

// ParseAndValidate deserializes raw model JSON into T, running Layer 1 (schema
// validation) and Layer 2 (Validatable.Validate() if T implements it). It
// never returns a partially populated value: any failure yields the zero T and
// an ExtractionError wrapping ErrMalformedOutput (unparseable JSON) or
// ErrSchemaViolation (parseable but non-conforming). Callers on the dispatch
// path translate these into DispatchError(ErrInvalidArguments).
func (e *Extractor[T]) ParseAndValidate(raw []byte) (T, error) {
	var zero T
	v, err := decodeInstance(raw)
	if err != nil {
		return zero, &ExtractionError{Reason: "json parse error: " + err.Error(), Err: ErrMalformedOutput}
	}
	if err := validateAgainstSchema(e.resolved, v); err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &ExtractionError{Reason: "json parse error: " + err.Error(), Err: ErrMalformedOutput}
	}
	if err := runLayer2Validation(out); err != nil {
		var xe *ExtractionError
		if errors.As(err, &xe) {
			return zero, xe
		}
		return zero, &ExtractionError{Reason: err.Error(), Err: ErrSchemaViolation}
	}
	return out, nil
}

// runLayer2Validation runs Validatable.Validate() on args; if args does not
// implement Validatable, it tries &args for value types (pointer receiver).
// Never calls Validate twice for the same receiver.
func runLayer2Validation[T any](args T) error {
	if err := validateCustom(any(args)); err != nil {
		return err
	}
	if _, ok := any(args).(Validatable); ok {
		return nil
	}
	typ := reflect.TypeOf(args)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	return validateCustom(any(&args))
}
