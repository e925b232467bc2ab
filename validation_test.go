package reactkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatable_NotImplemented(t *testing.T) {
	type Args struct {
		Low  int `json:"low"`
		High int `json:"high"`
	}
	args := &Args{Low: 10, High: 5}
	// Args does not implement Validatable; validateCustom should no-op
	err := validateCustom(args)
	assert.NoError(t, err)
}

// validatableArgs implements Validatable for tests.
type validatableArgs struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (a validatableArgs) Validate() error {
	if a.Low > a.High {
		return errors.New("low must be <= high")
	}
	return nil
}

func TestValidatable_Implemented(t *testing.T) {
	tool, err := NewTypedTool("range", "desc", func(_ context.Context, a validatableArgs) (int, error) {
		return a.High - a.Low, nil
	})
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), map[string]any{"low": 1, "high": 10})
	require.NoError(t, err)
	assert.Equal(t, 9, out)

	// low > high passes the schema but fails Validate, which the model must fix
	out, err = tool.Invoke(context.Background(), map[string]any{"low": 10, "high": 5})
	require.NoError(t, err)
	c, ok := out.(Correction)
	require.True(t, ok)
	assert.Contains(t, c.String(), "Could not run tool range with input:\n{\"high\":5,\"low\":10}")
	assert.Contains(t, c.String(), "The error was:\nlow must be <= high")
}

// pointerValidatableArgs implements Validatable with pointer receiver only.
type pointerValidatableArgs struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (a *pointerValidatableArgs) Validate() error {
	if a.Min > a.Max {
		return errors.New("min must be <= max")
	}
	return nil
}

func TestValidatable_PointerReceiver(t *testing.T) {
	tool, err := NewTypedTool("ptr_validatable", "desc", func(_ context.Context, _ pointerValidatableArgs) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), map[string]any{"min": 1, "max": 10})
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = tool.Invoke(context.Background(), map[string]any{"min": 10, "max": 1})
	require.NoError(t, err)
	assert.IsType(t, Correction(""), out)
	assert.Contains(t, FormatOutput(out), "min must be <= max")
}

// countValidatable counts Validate calls.
type countValidatable struct {
	calls *int
}

func (c countValidatable) Validate() error {
	*c.calls++
	return nil
}

func TestRunLayer2Validation_CalledOnce(t *testing.T) {
	var n int
	require.NoError(t, runLayer2Validation(countValidatable{calls: &n}))
	assert.Equal(t, 1, n)

	require.NoError(t, runLayer2Validation(&countValidatable{calls: &n}))
	assert.Equal(t, 2, n)
}
