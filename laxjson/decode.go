// Package laxjson decodes the JSON-like text language models produce for tool
// inputs. It accepts everything encoding/json accepts plus the usual slips:
// unquoted or single-quoted keys, single-quoted strings, missing or trailing
// commas, comments, raw newlines inside strings and Python literals (True,
// False, None). The text is repaired with jsonrepair and then decoded.
//
// Values decode to the same Go types encoding/json uses for interface{} targets:
// map[string]any, []any, string, float64, bool and nil.
package laxjson

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// SyntaxError reports text that could not be read as JSON, even after repair.
type SyntaxError struct {
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("laxjson: %s: %v", e.Msg, e.Err)
	}
	return "laxjson: " + e.Msg
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Decode parses s as a single JSON-like value.
func Decode(s string) (any, error) {
	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, &SyntaxError{Msg: "cannot repair input", Err: err}
	}
	var v any
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, &SyntaxError{Msg: "invalid JSON after repair", Err: err}
	}
	return v, nil
}

// DecodeObject parses s and requires the top-level value to be an object.
func DecodeObject(s string) (map[string]any, error) {
	v, err := Decode(s)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &SyntaxError{Msg: fmt.Sprintf("top-level value is %T, not an object", v)}
	}
	return obj, nil
}
