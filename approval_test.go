package reactkit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleApprover(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"Y", "Y\n", true},
		{"y", "y\n", true},
		{"Yes", "Yes\n", true},
		{"yes with spaces", "  yes \r\n", true},
		{"no newline", "y", true},
		{"n", "n\n", false},
		{"YES", "YES\n", false},
		{"empty line", "\n", false},
		{"eof", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			approver := NewConsoleApprover(strings.NewReader(tt.reply), &out)
			ok, err := approver.Approve(context.Background(), calculatorTool(t, nil), map[string]any{"expression": "1 + 1"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t,
				"Do you allow the invocation of the tool (Y/y/Yes/yes)?\n\nTool: Calculator\n\nTool Input: {\"expression\":\"1 + 1\"}\n",
				out.String())
		})
	}
}

func TestConsoleApprover_NoArguments(t *testing.T) {
	var out bytes.Buffer
	approver := NewConsoleApprover(strings.NewReader("n\ny\n"), &out)
	tool := currentDateTool(t)

	ok, err := approver.Approve(context.Background(), tool, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Tool Input: None")

	// the second line answers the next question
	ok, err = approver.Approve(context.Background(), tool, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConsoleApprover_CancelledContext(t *testing.T) {
	var out bytes.Buffer
	approver := NewConsoleApprover(strings.NewReader("y\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := approver.Approve(ctx, currentDateTool(t), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestFixedApprovers(t *testing.T) {
	ok, err := AlwaysApprove.Approve(context.Background(), currentDateTool(t), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = NeverApprove.Approve(context.Background(), currentDateTool(t), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
