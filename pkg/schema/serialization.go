package schema

import (
	"encoding/json"
	"fmt"
)

// JSONSchema renders the schema as a JSON Schema "object" definition,
// the format accepted by function-calling model APIs.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	required := make([]string, 0, len(s))

	for _, f := range s {
		props[f.Name] = typeSchema(f.Type, f.Description)
		if !f.Optional {
			required = append(required, f.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func typeSchema(t Type, description string) map[string]any {
	out := map[string]any{"type": t.JSONType()}
	if st, ok := t.(SliceType); ok {
		out["items"] = typeSchema(st.Elem, "")
	}
	if description != "" {
		out["description"] = description
	}
	return out
}

// MarshalJSON serializes the schema as its JSON Schema object.
func (s Schema) MarshalJSON() ([]byte, error) {
	for _, f := range s {
		if f.Type == nil {
			return nil, fmt.Errorf("field %s: type is nil", f.Name)
		}
	}
	return json.Marshal(s.JSONSchema())
}
