package reactkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Correction is model-facing text returned in place of a tool result, e.g. when the
// input failed validation or the user denied the call. It is meant to be sent back
// to the model unchanged.
type Correction string

func (c Correction) String() string { return string(c) }

// tool is the internal implementation of Tool built by NewTool or NewTypedTool.
type tool struct {
	name        string
	description string
	schema      *Schema
	fn          Func
	opts        toolOptions
}

// NewTool builds a Tool from a declarative schema and a function. A nil schema (or
// one without fields) means the tool takes no arguments and fn receives nil args.
func NewTool(name, description string, schema *Schema, fn Func, opts ...ToolOption) (Tool, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %q: function must not be nil", name)
	}
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &tool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
		opts:        o,
	}, nil
}

// NewTypedTool builds a Tool from a typed function. The schema is reflected from
// the fields of T (see SchemaFor); validated input is decoded into T, which may
// implement Validatable for checks beyond the schema.
func NewTypedTool[T any, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) (Tool, error) {
	if fn == nil {
		return nil, fmt.Errorf("tool %q: function must not be nil", name)
	}
	schema, err := SchemaFor[T]()
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	call := func(ctx context.Context, args map[string]any) (any, error) {
		var typed T
		if len(args) > 0 {
			data, err := json.Marshal(args)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(data, &typed); err != nil {
				return nil, &ValidationError{Tool: name, Reason: err.Error(), Schema: schema}
			}
		}
		if err := runLayer2Validation(typed); err != nil {
			return nil, &ValidationError{Tool: name, Reason: err.Error(), Schema: schema}
		}
		return fn(ctx, typed)
	}
	return NewTool(name, description, schema, call, opts...)
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }
func (t *tool) Schema() *Schema     { return t.schema }

func (t *tool) Invoke(ctx context.Context, input map[string]any) (any, error) {
	var args map[string]any
	if t.schema.Len() > 0 {
		parsed, err := ParseInput(t, input)
		if err != nil {
			return correctionFor(err)
		}
		args = parsed
	}
	out, err := t.fn(ctx, args)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			corrected := *ve
			if corrected.Input == nil {
				corrected.Input = input
			}
			return correctionFor(&corrected)
		}
		return nil, wrapHandlerError(t.name, err)
	}
	return out, nil
}

func (t *tool) Timeout() time.Duration { return t.opts.timeout }
func (t *tool) Tags() []string         { return append([]string(nil), t.opts.tags...) }
func (t *tool) Version() string        { return t.opts.version }
func (t *tool) RequiresApproval() bool { return t.opts.approval }

// ParseInput validates raw against the tool's schema. Unknown keys are dropped;
// missing required keys and wrongly typed values fail with *ValidationError. The
// result holds only schema keys that were present in raw. Tools without a schema
// get raw back unchanged.
func ParseInput(t Tool, raw map[string]any) (map[string]any, error) {
	s := t.Schema()
	if s.Len() == 0 {
		return raw, nil
	}
	args, err := s.Validate(raw)
	if err != nil {
		return nil, &ValidationError{Tool: t.Name(), Input: raw, Reason: err.Error(), Schema: s}
	}
	return args, nil
}

// Arguments returns the tool's declared fields, or nil when it takes no input.
func Arguments(t Tool) []Field {
	return t.Schema().Fields()
}

func correctionFor(err error) (any, error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return Correction(ve.Reprompt()), nil
	}
	return nil, err
}

var (
	_ Tool         = (*tool)(nil)
	_ ToolMetadata = (*tool)(nil)
)
