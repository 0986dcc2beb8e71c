package rfpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

const chatSystemPromptFormat = `You are a helpful assistant for answering questions about RFP documents.
You have access to the following RFP documents:

%s

Use the provided tools to show document summaries or tables when requested.
Answer questions accurately based on the document information provided.`

// defaultDigestThreshold is the snapshot size above which the system context
// carries a compact digest instead of full record JSON.
const defaultDigestThreshold = 20

// Orchestrator answers natural-language questions about stored records,
// resolving at most one model-selected tool call per turn. Every invocation is
// independent given history and snapshot; no state persists across calls.
type Orchestrator struct {
	provider Provider
	registry *Registry
	opts     orchestratorOptions
}

// NewOrchestrator creates an Orchestrator over the given provider and registry.
func NewOrchestrator(provider Provider, registry *Registry, opts ...OrchestratorOption) *Orchestrator {
	o := orchestratorOptions{
		digestThreshold: defaultDigestThreshold,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Orchestrator{provider: provider, registry: registry, opts: o}
}

// Respond submits the system context, the full history, and the tool
// declarations, and returns the assistant message. A dispatched tool's
// formatted output is the user-visible answer; there is no second round-trip
// to let the model re-narrate it. Dispatch failures come back as explanatory
// assistant messages with a nil error; provider and transport failures are
// returned as errors for the calling shell to handle. Raw error text never
// reaches the transcript.
func (o *Orchestrator) Respond(ctx context.Context, history []Message, snap Snapshot) (Message, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: o.contextMessage(snap)})
	messages = append(messages, history...)

	comp, err := o.provider.Complete(ctx, CompletionRequest{
		Messages: messages,
		Tools:    o.registry.Declarations(),
	})
	if err != nil {
		return Message{}, fmt.Errorf("completion request: %w", err)
	}

	if len(comp.ToolCalls) == 0 {
		content := comp.Content
		if content == "" {
			content = "No response generated."
		}
		return Message{Role: RoleAssistant, Content: content}, nil
	}

	// At most one tool call is resolved per turn; extra calls are ignored.
	call := comp.ToolCalls[0]
	out, err := o.registry.Dispatch(ctx, call, snap)
	if err != nil {
		o.opts.logger.Warn("tool dispatch failed", "tool", call.Name, "error", err)
		return Message{Role: RoleAssistant, Content: explainDispatchError(call.Name, err)}, nil
	}
	return Message{Role: RoleAssistant, Content: out}, nil
}

// contextMessage renders the snapshot into the system framing: full record
// JSON up to the digest threshold, a compact digest beyond it.
func (o *Orchestrator) contextMessage(snap Snapshot) string {
	var rendered []byte
	var err error
	if o.opts.digestThreshold > 0 && len(snap) > o.opts.digestThreshold {
		digests := make([]recordDigest, 0, len(snap))
		for _, rec := range snap {
			digests = append(digests, recordDigest{
				ID:       rec.ID,
				Title:    rec.Title,
				Company:  rec.Company,
				Deadline: rec.Deadline,
			})
		}
		rendered, err = json.MarshalIndent(digests, "", "  ")
	} else {
		rendered, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		// Records round-trip through JSON by construction; this path is unreachable.
		rendered = []byte("[]")
	}
	if len(snap) == 0 {
		rendered = []byte("[]")
	}
	return fmt.Sprintf(chatSystemPromptFormat, rendered)
}

// recordDigest is the compact per-record rendering used for large snapshots.
type recordDigest struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Deadline *string `json:"deadline,omitempty"`
}

// explainDispatchError translates a dispatch failure into text safe to show
// the end user. Raw error chains stay in the logs.
func explainDispatchError(toolName string, err error) string {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return fmt.Sprintf("The assistant asked for an operation named %q that this application does not provide.", toolName)
	case errors.Is(err, ErrNoMatchingRecords):
		return "None of the requested document IDs exist. Ask for the document list to see the valid IDs."
	case errors.Is(err, ErrInvalidArguments):
		return "The assistant supplied invalid arguments for that operation. Please rephrase your request."
	default:
		return "The requested operation failed while running. Please try again."
	}
}
