package api

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// JSONSchema represents a JSON Schema object (subset for OpenAPI 3.1).
type JSONSchema struct {
	Type        string                `json:"type,omitempty"`
	Format      string                `json:"format,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Description string                `json:"description,omitempty"`
	Enum        []string              `json:"enum,omitempty"`
	Minimum     *float64              `json:"minimum,omitempty"`
	Maximum     *float64              `json:"maximum,omitempty"`
	MinLength   *int                  `json:"minLength,omitempty"`
	MaxLength   *int                  `json:"maxLength,omitempty"`
	Pattern     string                `json:"pattern,omitempty"`

	// AdditionalProperties can be true (any) or a schema.
	AdditionalProperties *JSONSchema `json:"additionalProperties,omitempty"`
}

// typeToSchema converts a reflect.Type to a JSONSchema.
func typeToSchema(t reflect.Type) JSONSchema {
	if t.Kind() == reflect.Pointer {
		return typeToSchema(t.Elem())
	}

	if t == reflect.TypeFor[time.Time]() {
		return JSONSchema{Type: "string", Format: "date-time"}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return JSONSchema{Type: "string"}
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSONSchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return JSONSchema{Type: "number"}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", Format: "byte"}
		}
		items := typeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Array:
		items := typeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}
		}
		valSchema := typeToSchema(t.Elem())
		return JSONSchema{Type: "object", AdditionalProperties: &valSchema}
	case reflect.Struct:
		return structToSchema(t)
	default:
		return JSONSchema{}
	}
}

// structToSchema converts a struct type to an object schema. A property is
// required unless its json tag carries omitempty/omitzero or the field is
// tagged required:"false", matching what encoding/json always emits.
func structToSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}
	addStructFields(&schema, t)
	return schema
}

func addStructFields(schema *JSONSchema, t reflect.Type) {
	for i := range t.NumField() {
		f := t.Field(i)

		// Untagged embedded structs are flattened by encoding/json.
		if f.Anonymous && f.Tag.Get("json") == "" {
			et := f.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				addStructFields(schema, et)
				continue
			}
		}

		if !f.IsExported() || isParamField(f) {
			continue
		}

		name, opts := tagOptions(f.Tag.Get("json"))
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = f.Name
		}

		prop := typeToSchema(f.Type)
		if doc := f.Tag.Get("doc"); doc != "" {
			prop.Description = doc
		}
		schema.Properties[name] = prop

		optional := tagContains(opts, "omitempty") || tagContains(opts, "omitzero") || f.Tag.Get("required") == "false"
		if !optional {
			schema.Required = append(schema.Required, name)
		}
	}
}

// paramSchema is the schema for a bound parameter, including its constraint
// tags.
func paramSchema(f reflect.StructField) JSONSchema {
	s := typeToSchema(f.Type)
	applyConstraintTags(&s, f.Tag)
	return s
}

func applyConstraintTags(s *JSONSchema, tag reflect.StructTag) {
	if v, err := strconv.ParseFloat(tag.Get("minimum"), 64); err == nil {
		s.Minimum = &v
	}
	if v, err := strconv.ParseFloat(tag.Get("maximum"), 64); err == nil {
		s.Maximum = &v
	}
	if v, err := strconv.Atoi(tag.Get("minLength")); err == nil {
		s.MinLength = &v
	}
	if v, err := strconv.Atoi(tag.Get("maxLength")); err == nil {
		s.MaxLength = &v
	}
	if p := tag.Get("pattern"); p != "" {
		s.Pattern = p
	}
	if e := tag.Get("enum"); e != "" {
		s.Enum = strings.Split(e, ",")
	}
}

// check validates a decoded JSON value against the schema. Numbers must be
// decoded as json.Number so integers can be told apart from fractions.
func (s JSONSchema) check(v any, path string, errs *[]ValidationError) {
	mismatch := func() {
		*errs = append(*errs, ValidationError{
			Field:   path,
			Message: "must be of type " + s.Type,
			Value:   v,
		})
	}

	switch s.Type {
	case "":
		return

	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		for _, name := range s.Required {
			if _, ok := m[name]; !ok {
				*errs = append(*errs, ValidationError{Field: joinPath(path, name), Message: "is required"})
			}
		}
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if prop, ok := s.Properties[name]; ok {
				prop.check(m[name], joinPath(path, name), errs)
			} else if s.AdditionalProperties != nil {
				s.AdditionalProperties.check(m[name], joinPath(path, name), errs)
			}
		}

	case "array":
		a, ok := v.([]any)
		if !ok {
			mismatch()
			return
		}
		if s.Items == nil {
			return
		}
		for i, item := range a {
			s.Items.check(item, fmt.Sprintf("%s[%d]", path, i), errs)
		}

	case "string":
		str, ok := v.(string)
		if !ok {
			mismatch()
			return
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			*errs = append(*errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("must be one of [%s]", strings.Join(s.Enum, ",")),
				Value:   str,
			})
		}

	case "integer":
		n, ok := v.(json.Number)
		if !ok || strings.ContainsAny(n.String(), ".eE") {
			mismatch()
		}

	case "number":
		if _, ok := v.(json.Number); !ok {
			mismatch()
		}

	case "boolean":
		if _, ok := v.(bool); !ok {
			mismatch()
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
