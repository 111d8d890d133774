// Package schema describes and validates tool parameters.
//
// A Schema is an ordered list of Fields, each with a primitive Type
// (string, int, float, bool, or a slice of those) and a description shown to
// the model. The same Schema validates incoming arguments and renders the
// JSON Schema object that model providers expect.
//
//	params := schema.Schema{
//	    schema.Required("city", schema.String(), "Name of the city"),
//	}
//
//	if err := schema.Validate(params, args); err != nil {
//	    // report the failure back to the model as text
//	}
//
// Schemas can also be parsed from type strings:
//
//	params, err := schema.ParseTypeMap(map[string]string{"query": "string", "tags": "[string]"})
//
// The package depends only on the standard library.
package schema
