// Package timetool provides a Current Date tool.
package timetool

import (
	"context"
	"time"

	"github.com/skosovsky/reactkit"
)

const (
	// Name is the catalog name of the tool.
	Name        = "Current Date"
	description = "Use this tool to access the current local date and time"
)

// Option configures the Current Date tool.
type Option func(*options)

type options struct {
	now      func() time.Time
	loc      *time.Location
	toolOpts []reactkit.ToolOption
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation reports times in loc instead of the local zone.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithToolOptions forwards options to the underlying tool.
func WithToolOptions(opts ...reactkit.ToolOption) Option {
	return func(o *options) { o.toolOpts = append(o.toolOpts, opts...) }
}

// CurrentDate returns a tool without arguments whose output is the current
// time.Time. Observations render it in RFC 3339.
func CurrentDate(opts ...Option) (reactkit.Tool, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	fn := func(ctx context.Context, _ map[string]any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		now := o.now()
		if o.loc != nil {
			now = now.In(o.loc)
		}
		return now, nil
	}
	return reactkit.NewTool(Name, description, nil, fn, o.toolOpts...)
}
