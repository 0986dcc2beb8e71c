package rfpdesk

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okTool(t *testing.T, name string) Tool {
	t.Helper()
	tool, err := NewTool(name, "OK", func(_ context.Context, _ struct{}, _ Snapshot) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	return tool
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	wrapped := WithLogging(logger)(okTool(t, "logged"))

	assert.Equal(t, "logged", wrapped.Name())
	out, err := wrapped.Execute(context.Background(), []byte(`{}`), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Contains(t, buf.String(), "dispatch start")
	assert.Contains(t, buf.String(), "dispatch end")
}

func TestWithLogging_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	wrapped := WithLogging(logger)(okTool(t, "strictly"))

	_, err := wrapped.Execute(context.Background(), []byte(`{"unexpected": 1}`), nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "dispatch error")
}

func TestWithRecovery(t *testing.T) {
	panics, err := NewTool("panics", "Panics", func(_ context.Context, _ struct{}, _ Snapshot) (string, error) {
		panic("boom")
	})
	require.NoError(t, err)
	wrapped := WithRecovery()(panics)

	_, err = wrapped.Execute(context.Background(), []byte(`{}`), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHandlerFailure)
}

func TestRegistry_Use_RewrapsFromRaw(t *testing.T) {
	var calls int
	counting := func(next Tool) Tool {
		return &countingTool{toolBase: toolBase{next: next}, calls: &calls}
	}

	reg := NewRegistry()
	reg.Register(okTool(t, "a"))
	reg.Use(counting)
	reg.Use(counting) // replaces, must not double-wrap
	reg.Register(okTool(t, "b"))

	_, err := reg.Dispatch(context.Background(), ToolCall{ID: "1", Name: "a", Args: []byte(`{}`)}, nil)
	require.NoError(t, err)
	_, err = reg.Dispatch(context.Background(), ToolCall{ID: "2", Name: "b", Args: []byte(`{}`)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "each dispatch passes through the chain exactly once")
}

type countingTool struct {
	toolBase
	calls *int
}

func (c *countingTool) Execute(ctx context.Context, args []byte, snap Snapshot) (string, error) {
	*c.calls++
	return c.next.Execute(ctx, args, snap)
}
