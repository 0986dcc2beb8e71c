package rfpdesk

import (
	"context"
	"fmt"
	"strings"
)

// Built-in tool names. Declarations and handlers come from the same NewTool
// call, so the two cannot drift apart; NewBuiltinRegistry still runs Verify
// as the startup lock-step check.
const (
	ToolShowSummary = "show_document_summary"
	ToolShowTable   = "show_document_table"
)

// IDArgs selects records by their store-assigned ids. Both built-in tools
// take this shape.
type IDArgs struct {
	IDs []int `json:"ids" jsonschema_description:"Array of document IDs to operate on. For the table tool an empty array means all documents."`
}

// NewSummaryTool returns the built-in summary tool: one markdown block per
// matched record. Ids with no matching record are skipped; a call that
// resolves nothing fails with ErrNoMatchingRecords.
func NewSummaryTool() (Tool, error) {
	return NewTool(
		ToolShowSummary,
		"Display a detailed Markdown summary of one or more RFP documents by their IDs",
		func(_ context.Context, args IDArgs, snap Snapshot) (string, error) {
			matched := snap.Select(args.IDs)
			if len(matched) == 0 {
				return "", &DispatchError{
					Tool:   ToolShowSummary,
					Reason: "none of the requested ids exist in the snapshot",
					Err:    ErrNoMatchingRecords,
				}
			}
			blocks := make([]string, 0, len(matched))
			for _, rec := range matched {
				blocks = append(blocks, RecordSummary(rec))
			}
			return strings.Join(blocks, "\n---\n\n"), nil
		},
	)
}

// NewTableTool returns the built-in table tool: a single markdown table with
// one row per matched record, columns ID | Title | Company | Deadline.
// An explicitly empty ids array renders every record in the snapshot.
func NewTableTool() (Tool, error) {
	return NewTool(
		ToolShowTable,
		"Display a Markdown table showing multiple RFP documents with columns: ID, Title, Company, Deadline. An empty ids array shows all documents.",
		func(_ context.Context, args IDArgs, snap Snapshot) (string, error) {
			if len(args.IDs) == 0 {
				return RecordTable(snap), nil
			}
			matched := snap.Select(args.IDs)
			if len(matched) == 0 {
				return "", &DispatchError{
					Tool:   ToolShowTable,
					Reason: "none of the requested ids exist in the snapshot",
					Err:    ErrNoMatchingRecords,
				}
			}
			return RecordTable(matched), nil
		},
	)
}

// NewBuiltinRegistry returns a Registry with the two built-in tools registered
// and verified. Adding a tool means one NewTool call plus one Register plus
// its name in the Verify list.
func NewBuiltinRegistry(opts ...RegistryOption) (*Registry, error) {
	reg := NewRegistry(opts...)
	summary, err := NewSummaryTool()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", ToolShowSummary, err)
	}
	table, err := NewTableTool()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", ToolShowTable, err)
	}
	reg.Register(summary)
	reg.Register(table)
	if err := reg.Verify(ToolShowSummary, ToolShowTable); err != nil {
		return nil, err
	}
	return reg, nil
}

// RecordSummary renders one record as a markdown block: title heading, company,
// then whichever optional fields are present. Absent fields are omitted, never
// filled in.
func RecordSummary(rec Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", rec.Title)
	fmt.Fprintf(&b, "**Company:** %s\n\n", rec.Company)
	writeOptional(&b, "Description", rec.Description)
	writeOptional(&b, "Requirements", rec.Requirements)
	writeOptional(&b, "Contact", rec.Contact)
	writeOptional(&b, "Deadline", rec.Deadline)
	writeOptional(&b, "Budget", rec.Budget)
	return b.String()
}

func writeOptional(b *strings.Builder, label string, val *string) {
	if val == nil || *val == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, *val)
}

// RecordTable renders records as a single markdown table with columns
// ID | Title | Company | Deadline, one row per record.
func RecordTable(recs []Record) string {
	if len(recs) == 0 {
		return "No documents available."
	}
	var b strings.Builder
	b.WriteString("| ID | Title | Company | Deadline |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, rec := range recs {
		deadline := "N/A"
		if rec.Deadline != nil && *rec.Deadline != "" {
			deadline = *rec.Deadline
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", rec.ID, rec.Title, rec.Company, deadline)
	}
	return b.String()
}
