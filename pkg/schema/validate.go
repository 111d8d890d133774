package schema

import (
	"fmt"
	"sort"
)

// Field is one named parameter.
type Field struct {
	Name        string
	Type        Type
	Description string
	Optional    bool
}

// Required declares a mandatory field.
func Required(name string, typ Type, description string) Field {
	return Field{Name: name, Type: typ, Description: description}
}

// Optional declares a field that may be absent.
func Optional(name string, typ Type, description string) Field {
	return Field{Name: name, Type: typ, Description: description, Optional: true}
}

// Schema is an ordered list of fields.
type Schema []Field

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks args against the schema and reports every failure found.
// Keys not declared by the schema are ignored.
func Validate(s Schema, args map[string]any) error {
	var errs []error

	for _, f := range s {
		value, ok := args[f.Name]
		if !ok || value == nil {
			if !f.Optional {
				errs = append(errs, &ValidationError{Key: f.Name, Reason: "required"})
			}
			continue
		}
		if err := f.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: f.Name, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ParseTypeMap converts field names mapped to type strings into a Schema.
// Fields are sorted by name and all are required.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	names := make([]string, 0, len(typeMap))
	for k := range typeMap {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(Schema, 0, len(names))
	for _, name := range names {
		t, err := ParseType(typeMap[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		out = append(out, Required(name, t, ""))
	}
	return out, nil
}
