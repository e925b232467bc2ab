package reactkit

import (
	"fmt"
	"strings"
)

// Response templates the model is asked to follow. The error messages of the
// parsers embed them so a failed parse can be re-sent as the next prompt.
const (
	ToolInstructions = "You should respond with:\n" +
		"```\n" +
		"Thought: <thought process on how to respond to the prompt>\n\n" +
		"Tool: <name of the tool to use>\n\n" +
		"Tool Input: <input of the tool to use>\n" +
		"```\n\n" +
		"Your <input of the tool to use> must be a JSON format representing the keyword arguments of <name of the tool to use>"

	FinalAnswerInstructions = "You should respond with:\n" +
		"```\n" +
		"Thought: <thought process on how to respond to the prompt>\n\n" +
		"Final Answer: <response to the prompt>\n" +
		"```"

	ToolAndFinalAnswerInstructions = ToolInstructions + "\n\n" +
		"When you know the final answer to the user's query you should respond with:\n" +
		"```\n" +
		"Thought: <thought process on how to respond to the prompt>\n\n" +
		"Final Answer: <response to the prompt>\n" +
		"```"
)

const goalInstruction = "Your goal is to solve the problem you will be provided with"

// SystemPrompt builds the system message for a tool-using model from a catalog
// (see Registry.Catalog). An empty catalog yields the final-answer-only prompt.
func SystemPrompt(catalog string) string {
	if strings.TrimSpace(catalog) == "" {
		return strings.Join([]string{
			"### Instructions ###",
			goalInstruction,
			FinalAnswerInstructions,
		}, "\n\n")
	}
	return strings.Join([]string{
		"### Tools ###",
		"You have access to the following tools:\n" + catalog,
		"### Instructions ###",
		goalInstruction,
		ToolAndFinalAnswerInstructions,
	}, "\n\n")
}

// Observation renders a tool result as the text appended to the next prompt.
func Observation(output any) string {
	return "Tool Output: " + FormatOutput(output)
}

// FieldsTemplate renders a schema as a commented JSON skeleton, one line per field:
//
//	{
//	    "city": <string>, # City name
//	}
func FieldsTemplate(s *Schema) string {
	lines := make([]string, 0, s.Len()+2)
	lines = append(lines, "{")
	for _, f := range s.Fields() {
		lines = append(lines, fmt.Sprintf(`    "%s": <%s>, # %s`, f.Name, placeholder(f), f.Description))
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

func placeholder(f Field) string {
	switch f.Type {
	case TypeString:
		return formatPlaceholder(f.Format, "string", false)
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeArray:
		switch f.Items {
		case TypeString:
			return formatPlaceholder(f.Format, "strings", true)
		case TypeInteger:
			return "array of integers"
		case TypeNumber:
			return "array of floats"
		case TypeBoolean:
			return "array of booleans"
		case TypeObject:
			return "array of objects"
		}
		return "array"
	default:
		return "object"
	}
}

func formatPlaceholder(format, fallback string, array bool) string {
	name := fallback
	switch format {
	case "date":
		name = "date"
	case "date-time":
		name = "timestamp"
	case "email":
		name = "email"
	}
	if array {
		if name != fallback {
			name += "s"
		}
		return "array of " + name
	}
	return name
}
