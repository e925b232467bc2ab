// Package reactkit is a toolkit for ReAct-style agents that talk to a model in
// plain text: it describes tools in a system prompt, parses the model's
// Thought/Tool/Tool Input and Thought/Final Answer replies, validates tool input
// and runs the tool.
//
// # Overview
//
// A model asked to use tools answers with text such as
//
//	Thought: I need to add the numbers
//
//	Tool: Calculator
//
//	Tool Input: {"expression": "1+1"}
//
// Dispatch turns one such reply into an Outcome: the tool output and the
// observation to append to the conversation, or the final answer decoded with
// the registry's AnswerSpec. reactkit never talks to a provider; the caller
// owns the message list and the loop (see Completer and Registry.Conversation).
//
// # Self-correction
//
// Model mistakes are not fatal. A malformed reply, an unknown tool name or an
// answer of the wrong type is returned as an error whose text is a prompt telling
// the model what to fix; CorrectionPrompt extracts it. Tool input that fails the
// tool's Schema is not an error at all: Invoke returns a Correction as output.
// Failures of the tool itself are *SystemError and their details stay out of
// the prompt.
//
// # Example
//
//	calc, _ := reactkit.NewTool("Calculator", "Use this tool when you want to do calculations",
//	    reactkit.MustSchema(reactkit.String("expression", "A math expression")), eval)
//	reg, _ := reactkit.NewRegistry([]reactkit.Tool{calc})
//	msgs := reg.Conversation("What is 2+2?")
//	for {
//	    reply, _ := model.Complete(ctx, msgs)
//	    outcome, err := reg.Dispatch(ctx, reply)
//	    if prompt, ok := reactkit.CorrectionPrompt(err); ok { ... }
//	    if outcome.Done() { return outcome.Answer }
//	    msgs = append(msgs, reactkit.Message{Role: reactkit.RoleUser, Content: outcome.Observation})
//	}
package reactkit
