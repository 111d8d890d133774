package domain

import (
	"context"

	"github.com/aretw0/tendril/pkg/schema"
)

// ToolFunc is the handler behind a Tool. Args have already been validated
// against the tool's parameter schema.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool defines a capability the model may request.
// Name must be unique within a registry.
type Tool struct {
	Name        string        `json:"name" yaml:"name" mapstructure:"name"`
	Description string        `json:"description" yaml:"description" mapstructure:"description"`
	Parameters  schema.Schema `json:"parameters,omitempty" yaml:"-" mapstructure:"-"`
	Handler     ToolFunc      `json:"-" yaml:"-" mapstructure:"-"`
}
