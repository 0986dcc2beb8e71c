package rfpdesk

import (
	"context"
	"encoding/json"
	"time"
)

// Message roles. Tool-result messages use RoleTool; this core only ever
// produces RoleAssistant messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one conversational turn. The history is an ordered, append-only
// sequence owned by the caller; the orchestrator reads it and never retains it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is a single dispatch request (as produced by the model).
type ToolCall struct {
	ID   string
	Name string
	Args json.RawMessage // JSON payload of arguments
}

// ToolDeclaration describes one invocable tool to the completion provider.
// Parameters is a valid JSON Schema of shape
// { "type": "object", "properties": {...}, "required": [...] }.
type ToolDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool is the contract for a model-callable instrument. Execute receives the
// raw JSON arguments and the current record snapshot and returns formatted
// markdown for the user. Implementations must treat the snapshot as read-only;
// identical arguments against an unchanged snapshot must yield identical text.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map (compatible with LLM tool definitions).
	Parameters() map[string]any
	Execute(ctx context.Context, argsJSON []byte, snap Snapshot) (string, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides
// optional per-tool settings. Registry uses Timeout() to override the default
// dispatch timeout when set.
type ToolMetadata interface {
	Timeout() time.Duration
}
