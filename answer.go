package reactkit

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/skosovsky/reactkit/laxjson"
)

// OutputType names the Go value a final answer is converted to by DecodeAnswer.
type OutputType string

// Decoded values are string for OutputString and OutputBinary, int64, float64,
// bool, time.Time for dates and timestamps, map[string]any for objects, and
// []string, []int64, []float64 or []map[string]any for arrays.
const (
	OutputString       OutputType = "string"
	OutputInteger      OutputType = "integer"
	OutputFloat        OutputType = "float"
	OutputBinary       OutputType = "binary"
	OutputBoolean      OutputType = "boolean"
	OutputDate         OutputType = "date"
	OutputTimestamp    OutputType = "timestamp"
	OutputObject       OutputType = "object"
	OutputStringArray  OutputType = "array of strings"
	OutputIntegerArray OutputType = "array of integers"
	OutputFloatArray   OutputType = "array of floats"
	OutputObjectArray  OutputType = "array of objects"
)

// Default layouts for OutputDate and OutputTimestamp.
const (
	DefaultDateLayout      = time.DateOnly
	DefaultTimestampLayout = time.RFC3339
)

// AnswerSpec describes the expected shape of a final answer.
type AnswerSpec struct {
	Type OutputType
	// Layout is the time layout for OutputDate and OutputTimestamp.
	Layout string
	// Schema validates OutputObject values and each element of OutputObjectArray.
	// A nil schema accepts any object.
	Schema *Schema
}

const answerPrefix = "Your <response to the prompt> should be the final answer to the user's query and must be "

// AnswerInstructions tells the model what form its final answer must take.
func AnswerInstructions(spec AnswerSpec) string {
	switch spec.Type {
	case OutputInteger:
		return answerPrefix + "an integer"
	case OutputFloat:
		return answerPrefix + "a float"
	case OutputBinary:
		return answerPrefix + "a binary string"
	case OutputBoolean:
		return answerPrefix + "a boolean (true, false)"
	case OutputDate:
		return answerPrefix + "a date with the format:\n" + spec.layout()
	case OutputTimestamp:
		return answerPrefix + "a timestamp with the format:\n" + spec.layout()
	case OutputObject:
		return answerPrefix + "a JSON format with the keyword arguments:\n" + FieldsTemplate(spec.Schema)
	case OutputStringArray:
		return answerPrefix + "an array of strings"
	case OutputIntegerArray:
		return answerPrefix + "an array of integers"
	case OutputFloatArray:
		return answerPrefix + "an array of floats"
	case OutputObjectArray:
		return answerPrefix + "an array of JSON format with the keyword arguments:\n" + FieldsTemplate(spec.Schema)
	default:
		return answerPrefix + "a string"
	}
}

func (s AnswerSpec) layout() string {
	if s.Layout != "" {
		return s.Layout
	}
	if s.Type == OutputTimestamp {
		return DefaultTimestampLayout
	}
	return DefaultDateLayout
}

var binaryPattern = regexp.MustCompile(`^[01]+$`)

// DecodeAnswer converts the text of a final answer to the Go value spec.Type
// names. Failures are *AnswerError, whose Reprompt asks the model to correct the
// answer. An empty Type is treated as OutputString.
func DecodeAnswer(text string, spec AnswerSpec) (any, error) {
	text = strings.TrimSpace(text)
	v, err := decodeAnswer(text, spec)
	if err != nil {
		return nil, &AnswerError{Answer: text, Reason: err.Error(), Instructions: AnswerInstructions(spec)}
	}
	return v, nil
}

func decodeAnswer(text string, spec AnswerSpec) (any, error) {
	switch spec.Type {
	case OutputString, "":
		return text, nil
	case OutputInteger:
		return strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 64)
	case OutputFloat:
		return strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	case OutputBinary:
		if !binaryPattern.MatchString(text) {
			return nil, errors.New("could not parse binary")
		}
		return text, nil
	case OutputBoolean:
		switch strings.ToLower(text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errors.New("could not parse boolean")
	case OutputDate, OutputTimestamp:
		return time.Parse(spec.layout(), text)
	case OutputObject:
		obj, err := laxjson.DecodeToolInput(text)
		if err != nil {
			return nil, err
		}
		return validateObject(obj, spec.Schema)
	case OutputStringArray:
		return decodeArray(text, "strings", func(v any) (string, bool) {
			s, ok := v.(string)
			return s, ok
		})
	case OutputIntegerArray:
		return decodeArray(text, "integers", func(v any) (int64, bool) {
			f, ok := v.(float64)
			if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return 0, false
			}
			return int64(f), true
		})
	case OutputFloatArray:
		return decodeArray(text, "floats", func(v any) (float64, bool) {
			f, ok := v.(float64)
			return f, ok
		})
	case OutputObjectArray:
		return decodeObjectArray(text, spec.Schema)
	default:
		return nil, fmt.Errorf("unsupported output type %q", spec.Type)
	}
}

func decodeArray[E any](text, kind string, convert func(any) (E, bool)) ([]E, error) {
	raw, err := laxjson.Decode(text)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("could not parse array of %s", kind)
	}
	out := make([]E, 0, len(items))
	for _, item := range items {
		e, ok := convert(item)
		if !ok {
			return nil, fmt.Errorf("could not parse array of %s", kind)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeObjectArray(text string, schema *Schema) ([]map[string]any, error) {
	raw, err := laxjson.Decode(text)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New("could not parse array of objects")
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		valid, err := validateObject(obj, schema)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, valid)
	}
	return out, nil
}

func validateObject(obj map[string]any, schema *Schema) (map[string]any, error) {
	if schema == nil {
		return obj, nil
	}
	return schema.Validate(obj)
}
