package reactkit

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for reactkit. Use errors.Is to check.
var (
	ErrValidation            = errors.New("validation failed")
	ErrUnknownTool           = errors.New("tool not found")
	ErrDuplicateTool         = errors.New("tool already registered")
	ErrEmptyName             = errors.New("tool name is empty")
	ErrMalformedToolResponse = errors.New("malformed tool response")
	ErrMalformedFinalAnswer  = errors.New("malformed final answer")
	ErrMalformedResponse     = errors.New("malformed response")
	ErrMalformedAnswer       = errors.New("final answer does not match output type")
	ErrTimeout               = errors.New("tool execution timeout")
	ErrApprovalRequired      = errors.New("tool requires approval but no approver is configured")
)

// Reprompter is implemented by errors whose text is meant to be sent back to the
// model as the next prompt.
type Reprompter interface {
	Reprompt() string
}

// CorrectionPrompt returns the re-prompt text carried by err, if any.
// It is the one place errors are turned into model-facing instructions; log lines
// should use err.Error() instead.
func CorrectionPrompt(err error) (string, bool) {
	var r Reprompter
	if errors.As(err, &r) {
		return r.Reprompt(), true
	}
	return "", false
}

// ValidationError reports tool input that does not satisfy the tool's schema.
// Tool.Invoke never returns it; it renders Reprompt() as the tool output instead.
type ValidationError struct {
	Tool   string
	Input  map[string]any
	Reason string
	Schema *Schema
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for tool %q: %s", e.Tool, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Reprompt renders the corrective block fed back to the model.
func (e *ValidationError) Reprompt() string {
	return strings.Join([]string{
		fmt.Sprintf("Could not run tool %s with input:\n%s", e.Tool, formatInput(e.Input)),
		fmt.Sprintf("The error was:\n%s", e.Reason),
		"You need to correct your response",
		fmt.Sprintf("Your <input of the tool to use> must be a JSON format with the keyword arguments of:\n%s", e.Schema.Arguments()),
	}, "\n\n")
}

// ResponseKind identifies which response shape a parser expected.
type ResponseKind int

const (
	ToolUseResponse ResponseKind = iota
	FinalAnswerResponse
	AnyResponse
)

func (k ResponseKind) String() string {
	switch k {
	case ToolUseResponse:
		return "tool use"
	case FinalAnswerResponse:
		return "final answer"
	default:
		return "response"
	}
}

// MalformedResponseError is returned when model output does not match the expected
// template. Its message is the re-prompt: the offending output, an instruction to
// correct it, and the template.
type MalformedResponseError struct {
	Kind   ResponseKind
	Output string
	// Detail is an optional error line (e.g. a tool input that is not JSON).
	Detail string
}

func (e *MalformedResponseError) Error() string { return e.Reprompt() }

func (e *MalformedResponseError) Unwrap() error {
	switch e.Kind {
	case ToolUseResponse:
		return ErrMalformedToolResponse
	case FinalAnswerResponse:
		return ErrMalformedFinalAnswer
	default:
		return ErrMalformedResponse
	}
}

func (e *MalformedResponseError) Reprompt() string {
	var template string
	switch e.Kind {
	case ToolUseResponse:
		template = ToolInstructions
	case FinalAnswerResponse:
		template = FinalAnswerInstructions
	default:
		template = ToolAndFinalAnswerInstructions
	}
	parts := []string{fmt.Sprintf("You made a mistake in your response:\n%s", e.Output)}
	if e.Detail != "" {
		parts = append(parts, fmt.Sprintf("The error was:\n%s", e.Detail))
	}
	parts = append(parts, "You need to correct your response", template)
	return strings.Join(parts, "\n\n")
}

// UnknownToolError is returned by Registry.Resolve when no tool has the name.
type UnknownToolError struct {
	Name  string
	Known []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownTool, e.Name)
}

func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

func (e *UnknownToolError) Reprompt() string {
	return strings.Join([]string{
		fmt.Sprintf("The tool %s does not exist", e.Name),
		"You need to correct your response",
		fmt.Sprintf("<name of the tool to use> must be one of: %s", strings.Join(e.Known, ", ")),
	}, "\n\n")
}

// DuplicateToolError is returned by NewRegistry when two tools share a name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateTool, e.Name)
}

func (e *DuplicateToolError) Unwrap() error { return ErrDuplicateTool }

// AnswerError reports a final answer that cannot be converted to the requested type.
type AnswerError struct {
	Answer       string
	Reason       string
	Instructions string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedAnswer, e.Reason)
}

func (e *AnswerError) Unwrap() error { return ErrMalformedAnswer }

func (e *AnswerError) Reprompt() string {
	return strings.Join([]string{
		fmt.Sprintf("You made a mistake in your final answer:\n%s", e.Answer),
		fmt.Sprintf("The error was:\n%s", e.Reason),
		"You need to correct your final answer",
		e.Instructions,
	}, "\n\n")
}

// SystemError represents a failure inside a tool (I/O error, panic, etc.).
// The model should not see the underlying error message.
type SystemError struct {
	Tool string
	Err  error
}

func (e *SystemError) Error() string {
	if e.Tool == "" {
		return "internal system error during tool execution"
	}
	return fmt.Sprintf("internal system error during execution of tool %q", e.Tool)
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// wrapHandlerError passes through ValidationError; wraps other errors as SystemError.
func wrapHandlerError(tool string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidationError(err) || IsSystemError(err) {
		return err
	}
	return &SystemError{Tool: tool, Err: err}
}

// panicError wraps a recovered panic value for SystemError; used by Registry and WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
