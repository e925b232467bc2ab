package reactkit

import (
	"context"

	"github.com/google/uuid"

	"github.com/skosovsky/reactkit/laxjson"
)

// Outcome is the result of one dispatched model response. Exactly one of ToolUse
// and FinalAnswer is set.
type Outcome struct {
	// CallID identifies the tool call; empty for final answers.
	CallID  string
	ToolUse *ToolUse
	// Input is the decoded tool input passed to the tool.
	Input map[string]any
	// Output is the tool result, or a Correction when the tool rejected its input
	// or the call was denied.
	Output      any
	Observation string

	FinalAnswer *FinalAnswer
	// Answer is FinalAnswer.Answer decoded with the registry's AnswerSpec.
	Answer any
}

// Done reports whether the model gave its final answer.
func (o *Outcome) Done() bool { return o.FinalAnswer != nil }

// Dispatch handles one model response: it parses it, and for a tool request it
// decodes the input, resolves the tool and invokes it once. The caller owns the
// conversation and decides what to send next.
//
// Model mistakes (malformed output, an unknown tool, an answer of the wrong type)
// are returned as errors carrying a re-prompt; see CorrectionPrompt. Tool input
// that fails validation is not an error: Outcome.Output holds the Correction.
func (r *Registry) Dispatch(ctx context.Context, output string) (*Outcome, error) {
	resp, err := ParseResponse(output)
	if err != nil {
		return nil, err
	}
	if fa := resp.FinalAnswer; fa != nil {
		answer, err := DecodeAnswer(fa.Answer, r.opts.answer)
		if err != nil {
			return nil, err
		}
		return &Outcome{FinalAnswer: fa, Answer: answer}, nil
	}

	tu := resp.ToolUse
	input, err := laxjson.DecodeToolInput(tu.Input)
	if err != nil {
		return nil, &MalformedResponseError{Kind: ToolUseResponse, Output: output, Detail: err.Error()}
	}
	if _, err := r.Resolve(tu.Tool); err != nil {
		return nil, err
	}
	call := Call{ID: uuid.NewString(), ToolName: tu.Tool, Input: input}
	out, err := r.Invoke(ctx, call)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		CallID:      call.ID,
		ToolUse:     tu,
		Input:       input,
		Output:      out,
		Observation: Observation(out),
	}, nil
}
