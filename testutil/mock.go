// Package testutil provides test helpers for reactkit (MockTool, ScriptedCompleter).
package testutil

import (
	"context"

	"github.com/skosovsky/reactkit"
)

// MockTool is a Tool whose behavior is set through its fields.
type MockTool struct {
	NameVal   string
	DescVal   string
	SchemaVal *reactkit.Schema
	InvokeFn  func(ctx context.Context, input map[string]any) (any, error)
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

// Schema returns SchemaVal (nil means no arguments).
func (m *MockTool) Schema() *reactkit.Schema {
	return m.SchemaVal
}

// Invoke runs InvokeFn if set, otherwise returns nil.
func (m *MockTool) Invoke(ctx context.Context, input map[string]any) (any, error) {
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, input)
	}
	return nil, nil
}

var _ reactkit.Tool = (*MockTool)(nil)
