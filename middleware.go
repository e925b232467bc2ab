package reactkit

import (
	"context"
	"log/slog"
	"time"
)

// Middleware decorates a Tool. Registry applies middlewares to every tool it holds
// (see WithMiddleware).
type Middleware func(Tool) Tool

// WithLogging logs each invocation: start and end at info level, rejected input
// at warn level and failures at error level. A nil logger means slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery turns a panic in the tool into a *SystemError.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// WithTimeoutMiddleware bounds each invocation by d. The wrapped tool reports d as
// its Timeout, so Registry uses it instead of its default.
func WithTimeoutMiddleware(d time.Duration) Middleware {
	return func(next Tool) Tool {
		return &timeoutTool{toolBase: toolBase{next: next}, timeout: d}
	}
}

// toolBase forwards everything but Invoke to next.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string        { return b.next.Name() }
func (b *toolBase) Description() string { return b.next.Description() }
func (b *toolBase) Schema() *Schema     { return b.next.Schema() }

func (b *toolBase) Timeout() time.Duration {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Timeout()
	}
	return 0
}
func (b *toolBase) Tags() []string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Tags()
	}
	return nil
}
func (b *toolBase) Version() string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Version()
	}
	return ""
}
func (b *toolBase) RequiresApproval() bool {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.RequiresApproval()
	}
	return false
}

// Unwrap returns the wrapped tool.
func (b *toolBase) Unwrap() Tool { return b.next }

type loggingTool struct {
	toolBase
	logger *slog.Logger
}

func (m *loggingTool) Invoke(ctx context.Context, input map[string]any) (any, error) {
	m.logger.InfoContext(ctx, "tool start", "tool", m.next.Name())
	start := time.Now()
	out, err := m.next.Invoke(ctx, input)
	dur := time.Since(start)
	if err != nil {
		m.logger.ErrorContext(ctx, "tool error", "tool", m.next.Name(), "duration", dur, "error", err)
		return nil, err
	}
	if _, corrected := out.(Correction); corrected {
		m.logger.WarnContext(ctx, "tool input rejected", "tool", m.next.Name(), "duration", dur)
		return out, nil
	}
	m.logger.InfoContext(ctx, "tool end", "tool", m.next.Name(), "duration", dur)
	return out, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Invoke(ctx context.Context, input map[string]any) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &SystemError{Tool: r.next.Name(), Err: &panicError{p: p}}
		}
	}()
	return r.next.Invoke(ctx, input)
}

type timeoutTool struct {
	toolBase
	timeout time.Duration
}

func (t *timeoutTool) Timeout() time.Duration {
	if t.timeout > 0 {
		return t.timeout
	}
	return t.toolBase.Timeout()
}

func (t *timeoutTool) Invoke(ctx context.Context, input map[string]any) (any, error) {
	if t.timeout <= 0 {
		return t.next.Invoke(ctx, input)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Invoke(ctx, input)
}

// InvokeFunc has the signature of Tool.Invoke.
type InvokeFunc func(ctx context.Context, input map[string]any) (any, error)

// WrapInvoke returns a Tool that keeps next's name, schema and metadata but runs
// invoke instead. Middlewares outside this package build on it.
func WrapInvoke(next Tool, invoke InvokeFunc) Tool {
	return &wrappedTool{toolBase: toolBase{next: next}, invoke: invoke}
}

type wrappedTool struct {
	toolBase
	invoke InvokeFunc
}

func (w *wrappedTool) Invoke(ctx context.Context, input map[string]any) (any, error) {
	return w.invoke(ctx, input)
}

func applyMiddlewares(t Tool, middlewares []Middleware) Tool {
	for i := len(middlewares) - 1; i >= 0; i-- {
		t = middlewares[i](t)
	}
	return t
}
