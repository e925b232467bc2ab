package reactkit

import (
	"regexp"
	"strings"
)

// ToolUse is a tool request extracted from model output. Input is the raw
// JSON-object text; decode it with the laxjson package.
type ToolUse struct {
	Thought string
	Tool    string
	Input   string
}

// FinalAnswer is a terminal answer extracted from model output.
type FinalAnswer struct {
	Thought string
	Answer  string
}

// Response is either a ToolUse or a FinalAnswer; exactly one field is non-nil.
type Response struct {
	ToolUse     *ToolUse
	FinalAnswer *FinalAnswer
}

// The tool name is made of letters, digits, underscore and spaces. Text after the
// name on the same line is dropped when it is separated by whitespace and starts
// with another character, as in "Tool: Calculator (math)"; "web-search" stays
// malformed. Free text may also follow on later lines. The input is everything
// from the first '{' after "Tool Input:" to the last '}' of the output.
var (
	toolUsePattern = regexp.MustCompile(
		`(?s)\s*Thought:(.*?)\n+Tool:[ \t]*([A-Za-z0-9_ ]+?)(?:[ \t]+[^A-Za-z0-9_ \t\r\n][^\n]*?)?[ \t\r]*\n(?:.*?\n)?\n*Tool Input:.*?(\{.*\})`)
	finalAnswerPattern = regexp.MustCompile(`(?s)\s*Thought:(.*?)\n+Final Answer:(.*)$`)
)

const (
	toolMarker        = "Tool:"
	finalAnswerMarker = "Final Answer:"
)

// ParseToolUse extracts a Thought / Tool / Tool Input triple. Output that does not
// match fails with *MalformedResponseError (ErrMalformedToolResponse) whose message
// is ready to be re-sent to the model.
func ParseToolUse(output string) (ToolUse, error) {
	m := toolUsePattern.FindStringSubmatch(output)
	if m == nil {
		return ToolUse{}, &MalformedResponseError{Kind: ToolUseResponse, Output: output}
	}
	return ToolUse{
		Thought: strings.TrimSpace(m[1]),
		Tool:    strings.TrimSpace(m[2]),
		Input:   strings.TrimSpace(m[3]),
	}, nil
}

// ParseFinalAnswer extracts a Thought / Final Answer pair. The answer runs to the
// end of the output and keeps its inner newlines.
func ParseFinalAnswer(output string) (FinalAnswer, error) {
	m := finalAnswerPattern.FindStringSubmatch(output)
	if m == nil {
		return FinalAnswer{}, &MalformedResponseError{Kind: FinalAnswerResponse, Output: output}
	}
	return FinalAnswer{
		Thought: strings.TrimSpace(m[1]),
		Answer:  strings.TrimSpace(m[2]),
	}, nil
}

// ParseResponse picks the extractor by marker: output containing "Tool:" is a
// tool request, otherwise output containing "Final Answer:" is a final answer.
// Output with neither fails with the combined template (ErrMalformedResponse).
func ParseResponse(output string) (Response, error) {
	switch {
	case strings.Contains(output, toolMarker):
		tu, err := ParseToolUse(output)
		if err != nil {
			return Response{}, err
		}
		return Response{ToolUse: &tu}, nil
	case strings.Contains(output, finalAnswerMarker):
		fa, err := ParseFinalAnswer(output)
		if err != nil {
			return Response{}, err
		}
		return Response{FinalAnswer: &fa}, nil
	default:
		return Response{}, &MalformedResponseError{Kind: AnyResponse, Output: output}
	}
}
