package tools

import (
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// Builtins returns every built-in tool.
func Builtins(searcher ports.Searcher) []domain.Tool {
	return []domain.Tool{
		Weather(),
		Define(),
		Search(searcher),
	}
}

// NewRegistry returns a registry holding the built-in tools.
func NewRegistry(searcher ports.Searcher, opts ...registry.Option) (*registry.Registry, error) {
	r := registry.NewRegistry(opts...)
	if err := r.Register(Builtins(searcher)...); err != nil {
		return nil, err
	}
	return r, nil
}
