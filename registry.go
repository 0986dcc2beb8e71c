package rfpdesk

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Registry holds tools and dispatches model-selected calls against them with
// timeout and optional panic recovery. Dispatch is read-only over the snapshot
// and holds no state across calls: identical calls against an unchanged
// snapshot yield identical output.
type Registry struct {
	tools       map[string]Tool // wrapped with middlewares, used by Dispatch
	rawTools    map[string]Tool // unwrapped, used by Use() to re-apply middlewares from scratch
	opts        registryOptions
	mu          sync.Mutex
	middlewares []Middleware
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		timeout:       5 * time.Second,
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
		opts:     o,
	}
}

// Register adds a tool. Stored middlewares (see Use) are applied to the tool
// before registration. If a tool with the same name already exists, it is
// replaced. Safe for concurrent use with Dispatch and other Register calls.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	r.rawTools[name] = t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	r.tools[name] = t
}

// GetTool returns the tool with the given name (after middlewares are applied),
// or (nil, false) if not found.
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	return t, ok
}

// GetAllTools returns all registered tools, sorted by name for deterministic order.
func (r *Registry) GetAllTools() []Tool {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// Declarations returns the tool declarations for the completion provider,
// sorted by name. Pure and deterministic: the declarations are derived from
// the registered tools themselves, so a declaration can never drift from its
// handler.
func (r *Registry) Declarations() []ToolDeclaration {
	tools := r.GetAllTools()
	out := make([]ToolDeclaration, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return out
}

// Verify checks that every declared tool name has a registered handler. An
// unregistered declared tool is a configuration defect: call Verify at startup
// and treat an error as fatal.
func (r *Registry) Verify(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var missing []string
	for _, name := range names {
		if _, ok := r.tools[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("declared tools have no registered handler: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Dispatch validates and runs one tool call against the snapshot and returns
// the tool's formatted text. Failures are DispatchError values wrapping
// ErrUnknownTool, ErrInvalidArguments, ErrNoMatchingRecords, or
// ErrHandlerFailure. The after-dispatch hook (WithOnAfterDispatch) is always
// invoked via defer with the final error.
func (r *Registry) Dispatch(ctx context.Context, call ToolCall, snap Snapshot) (out string, err error) {
	r.mu.Lock()
	tool, ok := r.tools[call.Name]
	r.mu.Unlock()
	if !ok {
		return "", &DispatchError{Tool: call.Name, Reason: "tool is not registered", Err: ErrUnknownTool}
	}

	timeout := r.opts.timeout
	if tm, ok := tool.(ToolMetadata); ok && tm.Timeout() > 0 {
		timeout = tm.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	// The recover defer is registered after the hook defer so it runs first on
	// panic and sets err before the hook sees it.
	defer func() {
		if r.opts.onAfter != nil {
			r.opts.onAfter(ctx, call, err, time.Since(start))
		}
	}()
	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				out = ""
				err = &DispatchError{
					Tool:   call.Name,
					Reason: (&panicError{p: p}).Error(),
					Err:    ErrHandlerFailure,
				}
			}
		}()
	}

	if r.opts.onBefore != nil {
		r.opts.onBefore(ctx, call)
	}

	out, err = tool.Execute(ctx, call.Args, snap)
	if err != nil {
		return "", wrapHandlerError(call.Name, err)
	}
	return out, nil
}
