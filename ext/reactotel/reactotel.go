// Package reactotel adds OpenTelemetry tracing to reactkit tool invocations.
package reactotel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skosovsky/reactkit"
)

const instrumentationName = "github.com/skosovsky/reactkit/ext/reactotel"

// Span attribute keys.
const (
	AttrToolName  = attribute.Key("reactkit.tool.name")
	AttrCorrected = attribute.Key("reactkit.tool.corrected")
)

// Option configures Middleware.
type Option func(*config)

type config struct {
	provider trace.TracerProvider
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.provider = tp }
}

// Middleware opens one span per tool invocation. Tool errors mark the span as
// failed; a Correction output is recorded as an attribute, not an error.
func Middleware(opts ...Option) reactkit.Middleware {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.provider == nil {
		c.provider = otel.GetTracerProvider()
	}
	tracer := c.provider.Tracer(instrumentationName)

	return func(next reactkit.Tool) reactkit.Tool {
		name := next.Name()
		return reactkit.WrapInvoke(next, func(ctx context.Context, input map[string]any) (any, error) {
			ctx, span := tracer.Start(ctx, "tool "+name,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(AttrToolName.String(name)),
			)
			defer span.End()

			out, err := next.Invoke(ctx, input)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			_, corrected := out.(reactkit.Correction)
			span.SetAttributes(AttrCorrected.Bool(corrected))
			return out, nil
		})
	}
}
