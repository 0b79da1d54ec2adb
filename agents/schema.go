// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"encoding/json"
	"reflect"
	"strings"
)

// GenerateSchema builds a JSON Schema for the struct type T using
// reflection. Field names come from `json` tags; descriptions, required
// markers, and enums come from `jsonschema` tags.
func GenerateSchema[T any]() json.RawMessage {
	var zero T
	t := reflect.TypeOf(zero)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	b, _ := json.Marshal(typeSchema(t))
	return b
}

func typeSchema(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	case reflect.Ptr:
		return typeSchema(t.Elem())
	case reflect.Struct:
		return structSchema(t)
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return map[string]any{"type": "object", "additionalProperties": typeSchema(t.Elem())}
		}
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

func structSchema(t reflect.Type) map[string]any {
	properties := make(map[string]any)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := jsonFieldName(field)
		if skip {
			continue
		}

		prop := typeSchema(field.Type)
		if req := applySchemaTag(prop, field.Tag.Get("jsonschema")); req {
			required = append(required, name)
		}
		properties[name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func jsonFieldName(field reflect.StructField) (name string, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name = field.Name
	if tag != "" {
		if base, _, _ := strings.Cut(tag, ","); base != "" {
			name = base
		}
	}
	return name, false
}

// applySchemaTag parses a `jsonschema` tag into the property map and
// reports whether the field is marked required.
func applySchemaTag(prop map[string]any, tag string) (required bool) {
	if tag == "" {
		return false
	}
	for _, part := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(part, "=")
		switch strings.TrimSpace(key) {
		case "description":
			prop["description"] = strings.TrimSpace(val)
		case "required":
			required = true
		case "enum":
			vals := strings.Split(val, "|")
			enum := make([]any, len(vals))
			for i, v := range vals {
				enum[i] = strings.TrimSpace(v)
			}
			prop["enum"] = enum
		}
	}
	return required
}

// SchemaProperties returns the declared property names of a tool's
// parameter schema. Used to discard unexpected argument keys before
// dispatching a tool call.
func SchemaProperties(schema json.RawMessage) map[string]bool {
	var parsed struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(schema, &parsed); err != nil {
		return nil
	}
	props := make(map[string]bool, len(parsed.Properties))
	for name := range parsed.Properties {
		props[name] = true
	}
	return props
}
