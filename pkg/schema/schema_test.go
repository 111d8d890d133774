package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes_Validate(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		wantErr bool
	}{
		{String(), "hello", false},
		{String(), 42, true},
		{Int(), 42, false},
		{Int(), float64(42), false},
		{Int(), 42.5, true},
		{Int(), "42", true},
		{Float(), 3.14, false},
		{Float(), 3, false},
		{Float(), "3.14", true},
		{Bool(), true, false},
		{Bool(), 1, true},
		{Slice(String()), []any{"a", "b"}, false},
		{Slice(String()), []any{"a", 1}, true},
		{Slice(Int()), "not a slice", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err, "value %v", tt.value)
			} else {
				assert.NoError(t, err, "value %v", tt.value)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("[int]")
	require.NoError(t, err)
	assert.Equal(t, "[int]", typ.Name())
	assert.Equal(t, "array", typ.JSONType())

	typ, err = ParseType("number")
	require.NoError(t, err)
	assert.Equal(t, "float", typ.Name())

	_, err = ParseType("object")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Schema{
		Required("city", String(), "City name"),
		Optional("days", Int(), "Forecast horizon"),
	}

	assert.NoError(t, Validate(s, map[string]any{"city": "Lagos"}))
	assert.NoError(t, Validate(s, map[string]any{"city": "Lagos", "days": float64(3), "extra": true}))

	err := Validate(s, map[string]any{"days": "three"})
	require.Error(t, err)
	errs := ValidationErrors(err)
	require.Len(t, errs, 2)

	var keys []string
	for _, e := range errs {
		keys = append(keys, e.(*ValidationError).Key)
	}
	assert.Equal(t, []string{"city", "days"}, keys)
}

func TestParseTypeMap_SortedAndRequired(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{"word": "string", "count": "int"})
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, "count", s[0].Name)
	assert.False(t, s[1].Optional)

	_, err = ParseTypeMap(map[string]string{"x": "map"})
	assert.Error(t, err)
}

func TestJSONSchema(t *testing.T) {
	s := Schema{
		Required("query", String(), "Search terms"),
		Optional("tags", Slice(String()), ""),
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Search terms"},
			"tags": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["query"]
	}`, string(raw))
}
