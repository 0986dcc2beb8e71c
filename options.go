package rfpdesk

import (
	"context"
	"log/slog"
	"time"
)

// toolOptions hold optional tool settings.
type toolOptions struct {
	strict  bool
	timeout time.Duration
}

// ToolOption configures a tool (e.g. WithStrict, WithTimeout).
type ToolOption func(*toolOptions)

// WithStrict sets strict mode for the argument schema: additionalProperties:
// false for all objects, and all properties become required. Use for OpenAI
// Structured Outputs compatibility.
func WithStrict() ToolOption {
	return func(o *toolOptions) {
		o.strict = true
	}
}

// WithTimeout sets a per-tool dispatch timeout (overrides the registry default).
func WithTimeout(d time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.timeout = d
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	timeout       time.Duration
	recoverPanics bool
	onBefore      func(context.Context, ToolCall)
	onAfter       func(context.Context, ToolCall, error, time.Duration)
}

// WithDefaultTimeout sets the default dispatch timeout for tools.
func WithDefaultTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		o.timeout = d
	}
}

// WithRecoverPanics enables panic recovery in Dispatch
// (returns DispatchError wrapping ErrHandlerFailure).
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// WithOnBeforeDispatch sets a hook called before each tool dispatch.
func WithOnBeforeDispatch(fn func(context.Context, ToolCall)) RegistryOption {
	return func(o *registryOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterDispatch sets a hook called after each tool dispatch
// (success or error).
func WithOnAfterDispatch(fn func(context.Context, ToolCall, error, time.Duration)) RegistryOption {
	return func(o *registryOptions) {
		o.onAfter = fn
	}
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*orchestratorOptions)

type orchestratorOptions struct {
	digestThreshold int
	logger          *slog.Logger
}

// WithDigestThreshold sets the snapshot size above which the system context
// switches from full record JSON to a compact id/title/company/deadline
// digest. Pass 0 or negative to always send full detail.
func WithDigestThreshold(n int) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.digestThreshold = n
	}
}

// WithLogger sets the orchestrator's logger (defaults to slog.Default()).
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *orchestratorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
