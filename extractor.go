package reactkit

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects the exported fields of struct type T into a Schema, keeping
// declaration order. Field names come from json tags; descriptions come from
// jsonschema tags (`jsonschema:"description=..."`) or a plain `description` tag.
// Fields without omitempty are required.
func SchemaFor[T any]() (*Schema, error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type %s is not a struct", typ)
	}
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	reflected := r.Reflect(reflect.New(typ).Interface())
	if reflected == nil {
		return nil, errNilSchema
	}
	descriptions := descriptionsFromStructTags(typ)
	var fields []Field
	if reflected.Properties != nil {
		for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
			f, err := fieldFromReflection(pair.Key, pair.Value)
			if err != nil {
				return nil, err
			}
			if f.Description == "" {
				f.Description = descriptions[pair.Key]
			}
			f.Required = slices.Contains(reflected.Required, pair.Key)
			fields = append(fields, f)
		}
	}
	return NewSchema(fields...)
}

var errNilSchema = fmt.Errorf("schema reflection returned nil")

func fieldFromReflection(name string, prop *jsonschema.Schema) (Field, error) {
	if prop == nil || prop.Type == "" {
		return Field{}, fmt.Errorf("field %q: type cannot be described to the model", name)
	}
	f := Field{
		Name:        name,
		Type:        Type(prop.Type),
		Format:      prop.Format,
		Description: prop.Description,
	}
	if f.Type == TypeArray && prop.Items != nil {
		f.Items = Type(prop.Items.Type)
		if f.Format == "" {
			f.Format = prop.Items.Format
		}
	}
	if !f.Type.valid() {
		return Field{}, fmt.Errorf("field %q: unsupported type %q", name, prop.Type)
	}
	return f, nil
}

// descriptionsFromStructTags maps json names of root-level fields to their
// `description` struct tag.
func descriptionsFromStructTags(typ reflect.Type) map[string]string {
	out := make(map[string]string)
	for i := range typ.NumField() {
		field := typ.Field(i)
		jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonTag == "-" {
			continue
		}
		if jsonTag == "" {
			jsonTag = field.Name
		}
		if desc := field.Tag.Get("description"); desc != "" {
			out[jsonTag] = desc
		}
	}
	return out
}
