package reactkit

import (
	"context"
	"time"
)

// toolOptions hold optional tool settings (timeout, tags, approval, etc.).
type toolOptions struct {
	timeout  time.Duration
	tags     []string
	version  string
	approval bool
}

// ToolOption configures a tool (e.g. WithTimeout, WithApproval).
type ToolOption func(*toolOptions)

// WithTimeout sets a per-tool timeout, used by Registry instead of its default.
func WithTimeout(d time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.timeout = d
	}
}

// WithTags sets tool tags (metadata for discovery).
func WithTags(tags ...string) ToolOption {
	return func(o *toolOptions) {
		o.tags = tags
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) ToolOption {
	return func(o *toolOptions) {
		o.version = version
	}
}

// WithApproval marks the tool as requiring a human decision before each invocation.
func WithApproval() ToolOption {
	return func(o *toolOptions) {
		o.approval = true
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	timeout        time.Duration
	maxConcurrency int
	recoverPanics  bool
	approver       Approver
	middlewares    []Middleware
	onBefore       func(context.Context, Call)
	onAfter        func(context.Context, Call, ExecutionSummary, time.Duration)
	answer         AnswerSpec
}

// WithDefaultTimeout sets the default invocation timeout. Zero (the default) imposes none.
func WithDefaultTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		o.timeout = d
	}
}

// WithMaxConcurrency limits concurrent tool invocations (semaphore).
// Pass 0 or negative to disable the semaphore (the default).
func WithMaxConcurrency(n int) RegistryOption {
	return func(o *registryOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics enables panic recovery in Invoke (returns SystemError). Enabled by default.
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// WithApprover sets the Approver consulted for tools built WithApproval.
func WithApprover(a Approver) RegistryOption {
	return func(o *registryOptions) {
		o.approver = a
	}
}

// WithMiddleware wraps every registered tool (onion order: first is outermost).
func WithMiddleware(middlewares ...Middleware) RegistryOption {
	return func(o *registryOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithOnBeforeInvoke sets a hook called before each tool invocation.
func WithOnBeforeInvoke(fn func(context.Context, Call)) RegistryOption {
	return func(o *registryOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterInvoke sets a hook called after each tool invocation, including failed ones.
func WithOnAfterInvoke(fn func(context.Context, Call, ExecutionSummary, time.Duration)) RegistryOption {
	return func(o *registryOptions) {
		o.onAfter = fn
	}
}

// WithAnswerSpec sets how Dispatch decodes final answers. The default keeps them as strings.
func WithAnswerSpec(spec AnswerSpec) RegistryOption {
	return func(o *registryOptions) {
		o.answer = spec
	}
}
