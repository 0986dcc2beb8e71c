package rfpdesk

import (
	"errors"
	"slices"
	"strings"

	jsv "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// Validatable is implemented by payload structs that need custom business
// validation beyond the JSON Schema pass (e.g. Record's non-blank title and
// company). Called after schema validation and unmarshaling.
type Validatable interface {
	Validate() error
}

// schemaValidator validates an already-decoded JSON value.
// *jsv.Schema implements it.
type schemaValidator interface {
	Validate(v any) error
}

// validateAgainstSchema runs Layer 1 validation on the decoded value v.
// Callers must decode raw JSON with decodeInstance first; parse errors are
// reported by the caller.
func validateAgainstSchema(validate schemaValidator, v any) error {
	if err := validate.Validate(v); err != nil {
		return &ExtractionError{
			Reason: "model output does not conform to the declared schema",
			Fields: schemaErrorFields(err),
			Err:    ErrSchemaViolation,
		}
	}
	return nil
}

// validateCustom runs Layer 2 (Validatable) if args implements it.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// schemaErrorFields extracts the offending JSON paths from a validator error:
// leaf instance locations, plus property names reported missing by a
// "required" failure. Sorted and de-duplicated for deterministic output.
func schemaErrorFields(err error) []string {
	var ve *jsv.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	var fields []string
	var walk func(e *jsv.ValidationError)
	walk = func(e *jsv.ValidationError) {
		if k, ok := e.ErrorKind.(*kind.Required); ok {
			for _, name := range k.Missing {
				fields = append(fields, joinPath(append(e.InstanceLocation, name)))
			}
			return
		}
		if len(e.Causes) == 0 {
			fields = append(fields, joinPath(e.InstanceLocation))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	slices.Sort(fields)
	return slices.Compact(fields)
}

func joinPath(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	return "/" + strings.Join(loc, "/")
}
