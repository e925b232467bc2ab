package reactkit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Approver decides whether a tool built WithApproval may run with the given input.
type Approver interface {
	Approve(ctx context.Context, t Tool, input map[string]any) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, t Tool, input map[string]any) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, t Tool, input map[string]any) (bool, error) {
	return f(ctx, t, input)
}

// AlwaysApprove and NeverApprove are fixed policies, useful for batch runs and tests.
var (
	AlwaysApprove Approver = ApproverFunc(func(context.Context, Tool, map[string]any) (bool, error) { return true, nil })
	NeverApprove  Approver = ApproverFunc(func(context.Context, Tool, map[string]any) (bool, error) { return false, nil })
)

// ConsoleApprover asks a human on w and reads the answer from r.
// Y, y, Yes and yes approve; anything else denies.
type ConsoleApprover struct {
	mu sync.Mutex
	r  *bufio.Reader
	w  io.Writer
}

// NewConsoleApprover returns an Approver reading decisions from r and prompting on w.
func NewConsoleApprover(r io.Reader, w io.Writer) *ConsoleApprover {
	return &ConsoleApprover{r: bufio.NewReader(r), w: w}
}

func (c *ConsoleApprover) Approve(ctx context.Context, t Tool, input map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	shown := "None"
	if t.Schema().Len() > 0 {
		shown = formatInput(input)
	}
	prompt := strings.Join([]string{
		"Do you allow the invocation of the tool (Y/y/Yes/yes)?",
		"Tool: " + t.Name(),
		"Tool Input: " + shown,
	}, "\n\n")
	if _, err := fmt.Fprint(c.w, prompt+"\n"); err != nil {
		return false, err
	}
	line, err := c.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.TrimSpace(line) {
	case "Y", "y", "Yes", "yes":
		return true, nil
	}
	return false, nil
}

// denialFor is the output returned to the model when a call is not approved.
func denialFor(t Tool) Correction {
	return Correction(strings.Join([]string{
		"The user did not approve the use of the tool: " + t.Name(),
		"Provide the final answer to the user's query",
	}, "\n\n"))
}

func requiresApproval(t Tool) bool {
	tm, ok := t.(ToolMetadata)
	return ok && tm.RequiresApproval()
}
