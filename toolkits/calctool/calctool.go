// Package calctool provides a Calculator tool that evaluates arithmetic
// expressions in a Starlark interpreter.
//
// Expressions use Starlark syntax: + - * / // % and parentheses, comparison
// operators, and the members of the Starlark math module as globals (sqrt, pow,
// floor, ceil, log, sin, pi, e, ...). Starlark has no power operator, so a ** b
// is rewritten to power(a, b) before evaluation, binding tighter than unary
// minus and grouping to the right. Integer results are int64, everything else
// float64.
package calctool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/skosovsky/reactkit"
)

const (
	// Name is the catalog name of the tool.
	Name        = "Calculator"
	description = "Use this tool when you want to do calculations"

	defaultMaxSteps = 100_000

	// Integer powers above this exponent are computed in floating point.
	maxIntExponent = 4096
)

// Option configures the Calculator tool.
type Option func(*options)

type options struct {
	maxSteps uint64
	toolOpts []reactkit.ToolOption
}

// WithMaxSteps bounds the number of interpreter steps one evaluation may take.
// Zero removes the bound.
func WithMaxSteps(n uint64) Option {
	return func(o *options) { o.maxSteps = n }
}

// WithToolOptions forwards options (timeout, approval, tags) to the underlying tool.
func WithToolOptions(opts ...reactkit.ToolOption) Option {
	return func(o *options) { o.toolOpts = append(o.toolOpts, opts...) }
}

var schema = reactkit.MustSchema(
	reactkit.String("expression", "A math expression"),
)

// Calculator returns the tool. Expressions that do not parse or evaluate are
// reported back to the model as a correction, like any other invalid input.
func Calculator(opts ...Option) (reactkit.Tool, error) {
	o := options{maxSteps: defaultMaxSteps}
	for _, opt := range opts {
		opt(&o)
	}
	fn := func(ctx context.Context, args map[string]any) (any, error) {
		expr, _ := args["expression"].(string)
		v, err := Eval(ctx, expr, o.maxSteps)
		var ee *EvalError
		if errors.As(err, &ee) {
			return nil, &reactkit.ValidationError{Tool: Name, Reason: ee.Error(), Schema: schema}
		}
		return v, err
	}
	return reactkit.NewTool(Name, description, schema, fn, o.toolOpts...)
}

// EvalError reports an expression that could not be evaluated.
type EvalError struct {
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("could not evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Eval evaluates expr and returns an int64 or float64. Cancelling ctx stops the
// interpreter; the returned error then wraps the context error.
func Eval(ctx context.Context, expr string, maxSteps uint64) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	thread := &starlark.Thread{Name: "calculator"}
	if maxSteps > 0 {
		thread.SetMaxExecutionSteps(maxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	src, err := expandPower(expr)
	if err != nil {
		return nil, &EvalError{Expression: expr, Err: err}
	}
	v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expression", src, globals())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("evaluation cancelled: %w", ctxErr)
		}
		return nil, &EvalError{Expression: expr, Err: err}
	}
	return toNumber(expr, v)
}

func globals() starlark.StringDict {
	env := make(starlark.StringDict, len(starlarkmath.Module.Members)+1)
	for name, v := range starlarkmath.Module.Members {
		env[name] = v
	}
	env["power"] = starlark.NewBuiltin("power", power)
	return env
}

// power is x**y: exact for integers with a small non-negative exponent,
// floating point otherwise.
func power(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
		return nil, err
	}
	xi, xok := x.(starlark.Int)
	yi, yok := y.(starlark.Int)
	if xok && yok {
		if e, ok := yi.Int64(); ok && e >= 0 && e <= maxIntExponent {
			return starlark.MakeBigInt(new(big.Int).Exp(xi.BigInt(), big.NewInt(e), nil)), nil
		}
	}
	fx, ok := starlark.AsFloat(x)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported base %s", b.Name(), x.Type())
	}
	fy, ok := starlark.AsFloat(y)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported exponent %s", b.Name(), y.Type())
	}
	return starlark.Float(math.Pow(fx, fy)), nil
}

// expandPower rewrites every a ** b in expr to power(a, b), rightmost first so
// that 2 ** 3 ** 2 becomes power(2, power(3, 2)).
func expandPower(expr string) (string, error) {
	for {
		i := strings.LastIndex(expr, "**")
		if i < 0 {
			return expr, nil
		}
		start, err := leftOperand(expr, i)
		if err != nil {
			return "", err
		}
		end, err := rightOperand(expr, i+2)
		if err != nil {
			return "", err
		}
		expr = expr[:start] + "power(" + strings.TrimSpace(expr[start:i]) + ", " +
			strings.TrimSpace(expr[i+2:end]) + ")" + expr[end:]
	}
}

// leftOperand returns where the operand ending before expr[i] starts.
func leftOperand(expr string, i int) (int, error) {
	k := i
	for k > 0 && expr[k-1] == ' ' {
		k--
	}
	if k > 0 && expr[k-1] == ')' {
		depth := 0
		for k > 0 {
			k--
			switch expr[k] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return 0, errors.New("unbalanced parentheses before **")
		}
		for k > 0 && isOperandChar(expr[k-1]) {
			k--
		}
		return k, nil
	}
	end := k
	for k > 0 && isOperandChar(expr[k-1]) {
		k--
	}
	if k == end {
		return 0, errors.New("missing operand before **")
	}
	return k, nil
}

// rightOperand returns where the operand starting at expr[j] ends. The operand
// may carry unary signs and may be a call such as sqrt(2).
func rightOperand(expr string, j int) (int, error) {
	n := len(expr)
	for j < n && (expr[j] == ' ' || expr[j] == '+' || expr[j] == '-') {
		j++
	}
	start := j
	for j < n && isOperandChar(expr[j]) {
		j++
	}
	if j < n && expr[j] == '(' {
		end, err := closingParen(expr, j)
		if err != nil {
			return 0, err
		}
		j = end
	}
	if j == start {
		return 0, errors.New("missing operand after **")
	}
	return j, nil
}

// closingParen returns the index just past the parenthesis matching expr[j].
func closingParen(expr string, j int) (int, error) {
	depth := 0
	for ; j < len(expr); j++ {
		switch expr[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, errors.New("unbalanced parentheses after **")
}

func isOperandChar(c byte) bool {
	return c == '_' || c == '.' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func toNumber(expr string, v starlark.Value) (any, error) {
	switch n := v.(type) {
	case starlark.Int:
		if i, ok := n.Int64(); ok {
			return i, nil
		}
		f := float64(n.Float())
		if math.IsInf(f, 0) {
			return nil, &EvalError{Expression: expr, Err: errors.New("result out of range")}
		}
		return f, nil
	case starlark.Float:
		return float64(n), nil
	case starlark.Bool:
		if n {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, &EvalError{Expression: expr, Err: fmt.Errorf("result is a %s, not a number", v.Type())}
	}
}
