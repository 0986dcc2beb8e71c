package rfpdesk

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"
)

// tool is the internal implementation of Tool built by NewTool.
type tool struct {
	name        string
	description string
	schema      map[string]any
	execute     func(context.Context, []byte, Snapshot) (string, error)
	opts        toolOptions
}

// NewTool builds a Tool from a typed handler. Schema and validation are
// delegated to Extractor[T]: the handler only ever sees arguments that passed
// the same schema the model was shown. The handler returns the formatted
// markdown that becomes the user-visible answer; it must not mutate the
// snapshot. Returns an error if schema generation fails (e.g. unsupported type).
func NewTool[T any](
	name, description string,
	fn func(ctx context.Context, args T, snap Snapshot) (string, error),
	opts ...ToolOption,
) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	ext, err := NewExtractor[T](o.strict)
	if err != nil {
		return nil, err
	}
	execute := func(ctx context.Context, argsJSON []byte, snap Snapshot) (string, error) {
		args, err := ext.ParseAndValidate(argsJSON)
		if err != nil {
			return "", &DispatchError{Tool: name, Reason: argumentReason(err), Err: ErrInvalidArguments}
		}
		out, err := fn(ctx, args, snap)
		if err != nil {
			return "", wrapHandlerError(name, err)
		}
		return out, nil
	}
	return &tool{
		name:        name,
		description: description,
		schema:      ext.Schema(),
		execute:     execute,
		opts:        o,
	}, nil
}

// argumentReason flattens a ParseAndValidate failure into diagnostic text for
// DispatchError.Reason, keeping the offending field paths.
func argumentReason(err error) string {
	var xe *ExtractionError
	if errors.As(err, &xe) {
		if len(xe.Fields) > 0 {
			return xe.Reason + " (fields: " + strings.Join(xe.Fields, ", ") + ")"
		}
		return xe.Reason
	}
	return err.Error()
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }

// Parameters returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps (e.g. under "properties") are shared; callers must not mutate them.
func (t *tool) Parameters() map[string]any { return maps.Clone(t.schema) }

func (t *tool) Execute(ctx context.Context, argsJSON []byte, snap Snapshot) (string, error) {
	return t.execute(ctx, argsJSON, snap)
}

func (t *tool) Timeout() time.Duration { return t.opts.timeout }

var (
	_ Tool         = (*tool)(nil)
	_ ToolMetadata = (*tool)(nil)
)
