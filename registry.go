package reactkit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Registry maps tool names to tools. It is built once from an ordered list and is
// read-only afterwards, so it is safe to share between goroutines. Registration
// order is the order tools appear in the catalog.
type Registry struct {
	order []string
	tools map[string]Tool // wrapped with middlewares, used by Invoke
	sem   chan struct{}
	opts  registryOptions
}

// NewRegistry indexes tools by name. A repeated name fails with *DuplicateToolError
// rather than overwriting the earlier tool; an empty name fails with ErrEmptyName.
func NewRegistry(tools []Tool, opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	r := &Registry{
		order: make([]string, 0, len(tools)),
		tools: make(map[string]Tool, len(tools)),
		sem:   sem,
		opts:  o,
	}
	for i, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("tool %d is nil", i)
		}
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool %d: %w", i, ErrEmptyName)
		}
		if _, exists := r.tools[name]; exists {
			return nil, &DuplicateToolError{Name: name}
		}
		r.order = append(r.order, name)
		r.tools[name] = applyMiddlewares(t, o.middlewares)
	}
	return r, nil
}

// Tools returns the registered tools (after middlewares are applied) in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Lookup returns the tool with the given name, or (nil, false) if not found.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Resolve returns the tool with the given name or *UnknownToolError. The registry
// does not retry; the caller decides whether to re-prompt with the error.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name, Known: r.Names()}
	}
	return t, nil
}

// Catalog renders every tool in registration order for a system prompt.
func (r *Registry) Catalog() string {
	return Catalog(r.Tools())
}

// Invoke resolves call.ToolName and runs it with the registry's timeout, semaphore,
// approval policy and panic recovery. Validation failures and denied approvals come
// back as a Correction output with a nil error. The after-invocation hook
// (WithOnAfterInvoke) is always invoked via defer.
func (r *Registry) Invoke(ctx context.Context, call Call) (out any, err error) {
	t, err := r.Resolve(call.ToolName)
	if err != nil {
		return nil, err
	}

	summary := ExecutionSummary{CallID: call.ID, ToolName: call.ToolName}
	start := time.Now()
	// Deferred calls run in reverse: recovery fills summary.Error before the hook sees it.
	defer func() {
		dur := time.Since(start)
		if r.opts.onAfter != nil {
			r.opts.onAfter(ctx, call, summary, dur)
		}
	}()

	if err = r.acquireSemaphore(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		summary.Error = err
		return nil, err
	}
	defer r.releaseSemaphore()

	timeout := r.opts.timeout
	if tm, ok := t.(ToolMetadata); ok && tm.Timeout() > 0 {
		timeout = tm.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				summary.Error = &SystemError{Tool: call.ToolName, Err: &panicError{p: p}}
				out, err = nil, summary.Error
			}
		}()
	}

	if r.opts.onBefore != nil {
		r.opts.onBefore(ctx, call)
	}

	if requiresApproval(t) {
		approved, aerr := r.approve(ctx, t, call.Input)
		if aerr != nil {
			summary.Error = aerr
			return nil, aerr
		}
		if !approved {
			summary.Output, summary.Corrected = denialFor(t), true
			return summary.Output, nil
		}
	}

	out, err = t.Invoke(ctx, call.Input)
	if err != nil && timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &SystemError{Tool: call.ToolName, Err: fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)}
	}
	_, corrected := out.(Correction)
	summary.Output, summary.Error, summary.Corrected = out, err, corrected
	return out, err
}

func (r *Registry) approve(ctx context.Context, t Tool, input map[string]any) (bool, error) {
	if r.opts.approver == nil {
		return false, fmt.Errorf("%w: %s", ErrApprovalRequired, t.Name())
	}
	return r.opts.approver.Approve(ctx, t, input)
}

func (r *Registry) acquireSemaphore(ctx context.Context) error {
	if r.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) releaseSemaphore() {
	if r.sem != nil {
		<-r.sem
	}
}
