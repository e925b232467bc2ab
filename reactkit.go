package reactkit

import (
	"context"
	"time"
)

// Tool is a named, described, optionally schema-typed callable exposed to a model.
// It is provider-agnostic and immutable once built.
type Tool interface {
	Name() string
	// Description is the usage hint shown to the model in the catalog.
	Description() string
	// Schema returns the declared input fields, or nil when the tool takes no arguments.
	Schema() *Schema
	// Invoke validates input against Schema and runs the tool. Input that fails
	// validation is not an error: the corrective text for the model is returned
	// as the output so it can be fed straight into the next prompt.
	Invoke(ctx context.Context, input map[string]any) (any, error)
}

// ToolMetadata is implemented by tools created with NewTool and NewTypedTool.
// Registry uses Timeout() to override its default timeout and RequiresApproval()
// to gate invocation behind an Approver.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	RequiresApproval() bool
}

// Func is the underlying operation of a declaratively typed tool. args holds only
// the schema's declared keys; it is nil for tools without arguments.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Call is a single invocation request, usually built from a parsed ToolUse.
type Call struct {
	ID       string
	ToolName string
	Input    map[string]any
}

// ExecutionSummary is passed to the after-invocation hook (WithOnAfterInvoke).
type ExecutionSummary struct {
	CallID   string
	ToolName string
	Output   any
	Error    error
	// Corrected is true when the output is a validation correction rather than
	// a result of the underlying function.
	Corrected bool
}
