// Package rfpdesk ingests free-text request-for-proposal (RFP) documents,
// converts them into structured records via a schema-constrained completion
// call, and answers natural-language questions about the stored records,
// optionally by dispatching a model-selected tool.
//
// # Overview
//
// LLMs produce loosely-typed JSON. This package treats every model payload as
// untrusted input: extraction output and tool arguments are validated against
// the same JSON Schema shown to the model before any typed value is built.
//
// Extraction pipeline: raw text → RecordExtractor (one completion request with
// a JSON Schema response constraint) → parse → validate → Record with no id.
// The external store assigns the id when it persists the record.
//
// Chat pipeline: history + record snapshot → Orchestrator (system context +
// tool declarations) → either a direct assistant answer, or one dispatched
// tool call whose formatted markdown output is the user-visible answer. At
// most one tool call is resolved per turn; there is no second round-trip to
// let the model re-narrate the tool result.
//
// # Key concepts
//
//   - Single Source of Truth: struct tags on argument and record types drive
//     both the schema sent to the model and the validation of incoming JSON.
//   - Explicit snapshot: the record collection is passed into every call and
//     never retained, so the core holds no mutable state between calls.
//   - Error taxonomy: ExtractionError and DispatchError wrap sentinel errors
//     (ErrMalformedOutput, ErrUnknownTool, ...) for errors.Is checks. Raw
//     transport errors never reach the chat transcript.
//
// See Record, Tool, Registry, RecordExtractor, and Orchestrator for the core
// types, and NewTool / NewBuiltinRegistry for setup.
//
// # Example
//
//	reg, err := rfpdesk.NewBuiltinRegistry()
//	if err != nil { ... }
//	provider, err := rfpdesk.NewOpenAIClient()
//	if err != nil { ... }
//	orc := rfpdesk.NewOrchestrator(provider, reg)
//	reply, err := orc.Respond(ctx, history, snapshot)
package rfpdesk
