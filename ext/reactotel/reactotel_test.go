package reactotel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/skosovsky/reactkit"
	"github.com/skosovsky/reactkit/ext/reactotel"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

var citySchema = reactkit.MustSchema(reactkit.String("city", "City name"))

func TestMiddleware_Success(t *testing.T) {
	sr, tp := newRecorder(t)
	tool, err := reactkit.NewTool("weather", "Get weather", citySchema,
		func(_ context.Context, args map[string]any) (any, error) {
			return "sunny in " + args["city"].(string), nil
		})
	require.NoError(t, err)

	reg, err := reactkit.NewRegistry([]reactkit.Tool{tool},
		reactkit.WithMiddleware(reactotel.Middleware(reactotel.WithTracerProvider(tp))))
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), reactkit.Call{ID: "1", ToolName: "weather", Input: map[string]any{"city": "Paris"}})
	require.NoError(t, err)
	assert.Equal(t, "sunny in Paris", out)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool weather", spans[0].Name())
	name, ok := attr(spans[0], reactotel.AttrToolName)
	require.True(t, ok)
	assert.Equal(t, "weather", name.AsString())
	corrected, ok := attr(spans[0], reactotel.AttrCorrected)
	require.True(t, ok)
	assert.False(t, corrected.AsBool())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestMiddleware_CorrectionIsNotAnError(t *testing.T) {
	sr, tp := newRecorder(t)
	tool, err := reactkit.NewTool("weather", "Get weather", citySchema,
		func(context.Context, map[string]any) (any, error) { return "unreachable", nil })
	require.NoError(t, err)

	reg, err := reactkit.NewRegistry([]reactkit.Tool{tool},
		reactkit.WithMiddleware(reactotel.Middleware(reactotel.WithTracerProvider(tp))))
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), reactkit.Call{ToolName: "weather", Input: map[string]any{"city": 3}})
	require.NoError(t, err)
	assert.IsType(t, reactkit.Correction(""), out)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	corrected, ok := attr(spans[0], reactotel.AttrCorrected)
	require.True(t, ok)
	assert.True(t, corrected.AsBool())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestMiddleware_Error(t *testing.T) {
	sr, tp := newRecorder(t)
	tool, err := reactkit.NewTool("broken", "Always fails", nil,
		func(context.Context, map[string]any) (any, error) { return nil, errors.New("disk full") })
	require.NoError(t, err)

	reg, err := reactkit.NewRegistry([]reactkit.Tool{tool},
		reactkit.WithMiddleware(reactotel.Middleware(reactotel.WithTracerProvider(tp))))
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), reactkit.Call{ToolName: "broken"})
	require.Error(t, err)
	assert.True(t, reactkit.IsSystemError(err))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestMiddleware_KeepsMetadata(t *testing.T) {
	_, tp := newRecorder(t)
	tool, err := reactkit.NewTool("slow", "Slow tool", nil,
		func(context.Context, map[string]any) (any, error) { return nil, nil },
		reactkit.WithTimeout(3*time.Second), reactkit.WithApproval())
	require.NoError(t, err)

	wrapped := reactotel.Middleware(reactotel.WithTracerProvider(tp))(tool)
	meta, ok := wrapped.(reactkit.ToolMetadata)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, meta.Timeout())
	assert.True(t, meta.RequiresApproval())
	assert.Equal(t, "slow", wrapped.Name())
}
