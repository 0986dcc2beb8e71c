package rfpdesk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTool_Execute(t *testing.T) {
	type args struct {
		N int `json:"n"`
	}
	tool, err := NewTool("count", "Count records up to n", func(_ context.Context, a args, snap Snapshot) (string, error) {
		if len(snap) < a.N {
			return "fewer", nil
		}
		return "enough", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "count", tool.Name())
	assert.Equal(t, "Count records up to n", tool.Description())

	out, err := tool.Execute(context.Background(), []byte(`{"n": 1}`), Snapshot{{ID: 1, Title: "T", Company: "C"}})
	require.NoError(t, err)
	assert.Equal(t, "enough", out)
}

func TestNewTool_InvalidArguments(t *testing.T) {
	type args struct {
		N int `json:"n"`
	}
	tool, err := NewTool("count", "Count", func(_ context.Context, a args, _ Snapshot) (string, error) {
		return "", nil
	})
	require.NoError(t, err)

	_, err = tool.Execute(context.Background(), []byte(`{"n": "three"}`), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArguments)
	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "count", de.Tool)

	_, err = tool.Execute(context.Background(), []byte(`{broken`), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestNewTool_HandlerErrors(t *testing.T) {
	type empty struct{}

	fails, err := NewTool("fails", "Always fails", func(_ context.Context, _ empty, _ Snapshot) (string, error) {
		return "", errors.New("backend unavailable")
	})
	require.NoError(t, err)
	_, err = fails.Execute(context.Background(), []byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrHandlerFailure)

	nothing, err := NewTool("nothing", "Finds nothing", func(_ context.Context, _ empty, _ Snapshot) (string, error) {
		return "", &DispatchError{Tool: "nothing", Reason: "none found", Err: ErrNoMatchingRecords}
	})
	require.NoError(t, err)
	_, err = nothing.Execute(context.Background(), []byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrNoMatchingRecords, "typed handler errors pass through unchanged")
}

func TestNewTool_Parameters(t *testing.T) {
	tool, err := NewTool("sum", "Summarize", func(_ context.Context, a IDArgs, _ Snapshot) (string, error) {
		return "", nil
	})
	require.NoError(t, err)
	params := tool.Parameters()
	require.NotNil(t, params)
	obj := findObject(params)
	require.NotNil(t, obj)
	props, ok := obj["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "ids")
}

func TestNewTool_TimeoutOption(t *testing.T) {
	tool, err := NewTool("slow", "Slow", func(_ context.Context, _ struct{}, _ Snapshot) (string, error) {
		return "", nil
	}, WithTimeout(2*time.Second))
	require.NoError(t, err)
	tm, ok := tool.(ToolMetadata)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, tm.Timeout())
}
