package rfpdesk

import "context"

// CompletionRequest is one submission to the completion provider: role-tagged
// messages, optional tool declarations (tool usage permitted but not forced),
// and an optional JSON Schema the response content must conform to.
type CompletionRequest struct {
	Messages       []Message
	Tools          []ToolDeclaration
	ResponseSchema map[string]any
}

// Completion is the provider's answer: either direct text content or one or
// more requested tool calls. This protocol resolves only the first call.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider issues one blocking completion call. Implementations own transport,
// auth, and timeouts; their errors are returned unchanged and wrapped into the
// extraction/dispatch taxonomy by the components that call them.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
