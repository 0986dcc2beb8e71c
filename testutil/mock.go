// Package testutil provides test helpers for rfpdesk (e.g. MockProvider, MockTool).
package testutil

import (
	"context"
	"errors"

	"github.com/skosovsky/rfpdesk"
)

// MockProvider is a scripted Provider implementation for tests. Each Complete
// call consumes the next queued Completion (or returns Err if set). When
// CompleteFn is set it takes precedence over the queue.
type MockProvider struct {
	Queue      []*rfpdesk.Completion
	Err        error
	CompleteFn func(ctx context.Context, req rfpdesk.CompletionRequest) (*rfpdesk.Completion, error)

	// Requests records every request received, in order.
	Requests []rfpdesk.CompletionRequest
}

// Complete implements rfpdesk.Provider.
func (m *MockProvider) Complete(ctx context.Context, req rfpdesk.CompletionRequest) (*rfpdesk.Completion, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Queue) == 0 {
		return nil, errors.New("mock provider: queue exhausted")
	}
	next := m.Queue[0]
	m.Queue = m.Queue[1:]
	return next, nil
}

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]any
	ExecuteFn func(ctx context.Context, args []byte, snap rfpdesk.Snapshot) (string, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or empty map).
func (m *MockTool) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{}
}

// Execute runs ExecuteFn if set, otherwise returns empty output.
func (m *MockTool) Execute(ctx context.Context, args []byte, snap rfpdesk.Snapshot) (string, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args, snap)
	}
	return "", nil
}

// Ensure mocks implement the contracts.
var (
	_ rfpdesk.Provider = (*MockProvider)(nil)
	_ rfpdesk.Tool     = (*MockTool)(nil)
)
