package reactkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Render describes a tool on one line, in the shape the model is told to expect:
//
//	- Tool Name: <name>, Tool Description: <description>, Tool Input: <arguments or None>
func Render(t Tool) string {
	return fmt.Sprintf("- Tool Name: %s, Tool Description: %s, Tool Input: %s",
		t.Name(), t.Description(), t.Schema().Arguments())
}

// Catalog joins Render output for each tool with a blank line, in the given order.
// The result is embedded verbatim in system prompts.
func Catalog(tools []Tool) string {
	lines := make([]string, len(tools))
	for i, t := range tools {
		lines[i] = Render(t)
	}
	return strings.Join(lines, "\n\n")
}

// FormatOutput renders a tool result as prompt text. Strings and Corrections are
// used as is, times use RFC 3339, maps and slices are JSON encoded, and anything
// else goes through fmt.
func FormatOutput(v any) string {
	switch out := v.(type) {
	case nil:
		return "None"
	case string:
		return out
	case Correction:
		return string(out)
	case time.Time:
		return out.Format(time.RFC3339)
	case fmt.Stringer:
		return out.String()
	case map[string]any, []any, []string, []int64, []float64, []map[string]any:
		return formatJSON(out)
	default:
		return fmt.Sprint(out)
	}
}

// formatInput renders model-supplied input for correction messages.
func formatInput(input map[string]any) string {
	if input == nil {
		return "{}"
	}
	return formatJSON(input)
}

func formatJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
