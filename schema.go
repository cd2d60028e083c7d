package secureagent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaFor describes the struct T as a JSON Schema object, the form chat
// APIs expect for tool parameters.
//
// Property names follow the json tags. Three more tags are read:
//
//	desc:"..."      description shown to the model
//	required:"true" lists the property as required
//	enum:"a,b,c"    allowed values of a string property
//
// For example the get_github_issue arguments:
//
//	type IssueArgs struct {
//	    Owner  string `json:"owner" desc:"Repository owner" required:"true"`
//	    Number int    `json:"issue_number" desc:"Issue number" required:"true"`
//	}
func SchemaFor[T any]() (json.RawMessage, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}
	return json.Marshal(objectSchema(t))
}

// MustSchemaFor is SchemaFor for argument types known at compile time.
func MustSchemaFor[T any]() json.RawMessage {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func objectSchema(t reflect.Type) map[string]any {
	props := map[string]any{}
	var required []string

	for i := range t.NumField() {
		f := t.Field(i)
		name, ok := propertyName(f)
		if !ok {
			continue
		}

		prop := valueSchema(f.Type)
		if d := f.Tag.Get("desc"); d != "" {
			prop["description"] = d
		}
		if e := f.Tag.Get("enum"); e != "" {
			prop["enum"] = strings.Split(e, ",")
		}
		props[name] = prop

		if f.Tag.Get("required") == "true" {
			required = append(required, name)
		}
	}

	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// propertyName reports the JSON name of f, or false for fields that are not
// serialized.
func propertyName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return "", false
	case "":
		return f.Name, true
	}
	return name, true
}

func valueSchema(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return objectSchema(t)
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": valueSchema(t.Elem())}
	}
	return map[string]any{"type": jsonType(t.Kind())}
}

func jsonType(k reflect.Kind) string {
	switch {
	case k == reflect.Bool:
		return "boolean"
	case k >= reflect.Int && k <= reflect.Uint64:
		return "integer"
	case k == reflect.Float32, k == reflect.Float64:
		return "number"
	case k == reflect.Map:
		return "object"
	}
	return "string"
}
