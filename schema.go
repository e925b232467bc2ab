package reactkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Type is the semantic type of a schema field.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

func (t Type) valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// Field declares one named tool argument.
type Field struct {
	Name        string
	Type        Type
	Format      string // optional: "date", "date-time", "email"
	Items       Type   // element type when Type is TypeArray
	Description string
	Required    bool
}

// String declares a required string field.
func String(name, description string) Field {
	return Field{Name: name, Type: TypeString, Description: description, Required: true}
}

// Integer declares a required integer field.
func Integer(name, description string) Field {
	return Field{Name: name, Type: TypeInteger, Description: description, Required: true}
}

// Number declares a required number field.
func Number(name, description string) Field {
	return Field{Name: name, Type: TypeNumber, Description: description, Required: true}
}

// Boolean declares a required boolean field.
func Boolean(name, description string) Field {
	return Field{Name: name, Type: TypeBoolean, Description: description, Required: true}
}

// Array declares a required array field whose elements have type items.
func Array(name string, items Type, description string) Field {
	return Field{Name: name, Type: TypeArray, Items: items, Description: description, Required: true}
}

// Object declares a required free-form object field.
func Object(name, description string) Field {
	return Field{Name: name, Type: TypeObject, Description: description, Required: true}
}

// Optional returns a copy of f that may be omitted from the input.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// WithFormat returns a copy of f annotated with a string format (e.g. "date").
func (f Field) WithFormat(format string) Field {
	f.Format = format
	return f
}

const schemaURL = "file:///reactkit/input.json"

// Schema is an ordered, declarative description of a tool's input object.
// It is immutable after NewSchema and safe for concurrent use.
type Schema struct {
	fields   []Field
	index    map[string]int
	compiled *jsonschema.Schema
}

// NewSchema validates the field declarations and compiles them into a validator.
// Field order is kept for rendering.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range s.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: name is empty", i)
		}
		if !f.Type.valid() {
			return nil, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
		if f.Items != "" && !f.Items.valid() {
			return nil, fmt.Errorf("field %q: unknown item type %q", f.Name, f.Items)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("field %q declared twice", f.Name)
		}
		s.index[f.Name] = i
	}
	compiled, err := compileDoc(s.buildDoc())
	if err != nil {
		return nil, fmt.Errorf("failed to compile input schema: %w", err)
	}
	s.compiled = compiled
	return s, nil
}

// MustSchema is like NewSchema but panics on error. Use for package-level tool definitions.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic("reactkit: " + err.Error())
	}
	return s
}

// Fields returns the declared fields in order. A nil schema has none.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	return append([]Field(nil), s.fields...)
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// JSONSchema returns the JSON Schema document the validator is compiled from
// (draft 2020-12, object root). Each call builds a fresh map.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	return s.buildDoc()
}

// Arguments renders the fields as they are shown to the model: a JSON object in
// declaration order mapping each name to its type and description, or "None"
// when there are no fields.
func (s *Schema) Arguments() string {
	if s.Len() == 0 {
		return "None"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		writeJSONString(&b, f.Name)
		b.WriteString(": {")
		b.WriteString(`"type": `)
		writeJSONString(&b, string(f.Type))
		if f.Items != "" {
			b.WriteString(`, "items": {"type": `)
			writeJSONString(&b, string(f.Items))
			b.WriteByte('}')
		}
		if f.Format != "" {
			b.WriteString(`, "format": `)
			writeJSONString(&b, f.Format)
		}
		if f.Description != "" {
			b.WriteString(`, "description": `)
			writeJSONString(&b, f.Description)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.String()
}

// Validate drops keys the schema does not declare, validates the remainder and
// returns the declared keys present in input. The returned error describes the
// violation; callers attach tool context (see ParseInput).
func (s *Schema) Validate(input map[string]any) (map[string]any, error) {
	if s == nil {
		return map[string]any{}, nil
	}
	filtered := make(map[string]any, s.Len())
	for k, v := range input {
		if _, ok := s.index[k]; ok {
			filtered[k] = v
		}
	}
	inst, err := normalize(filtered)
	if err != nil {
		return nil, err
	}
	if err := s.compiled.Validate(inst); err != nil {
		return nil, errors.New(validationReason(err))
	}
	out := make(map[string]any, len(filtered))
	for _, f := range s.fields {
		if v, ok := filtered[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out, nil
}

func (s *Schema) buildDoc() map[string]any {
	props := make(map[string]any, len(s.fields))
	required := make([]any, 0, len(s.fields))
	for _, f := range s.fields {
		prop := map[string]any{"type": string(f.Type)}
		if f.Items != "" {
			items := map[string]any{"type": string(f.Items)}
			// format only constrains strings, so on arrays it belongs to the elements
			if f.Format != "" {
				items["format"] = f.Format
			}
			prop["items"] = items
		} else if f.Format != "" {
			prop["format"] = f.Format
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

// compileDoc compiles a schema document built from plain maps. The document goes
// through a JSON round trip so the compiler sees the value shapes it expects.
func compileDoc(doc map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(schemaURL, v); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

// normalize converts arbitrary Go values (ints, typed slices, structs) into the
// JSON value model used by the validator.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("input is not JSON-encodable: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// validationReason strips the validator's header line and joins the causes.
func validationReason(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	if len(lines) > 1 && strings.HasPrefix(lines[0], "jsonschema validation failed") {
		lines = lines[1:]
	}
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "- ")
		l = strings.TrimPrefix(l, "at '': ")
		lines[i] = l
	}
	return strings.Join(lines, "; ")
}

// writeJSONString quotes s as JSON without HTML escaping, since the text goes
// into a prompt rather than a web page.
func writeJSONString(b *strings.Builder, s string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}
