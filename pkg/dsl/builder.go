package dsl

import (
	"fmt"

	"github.com/aretw0/tendril/internal/validator"
	"github.com/aretw0/tendril/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	name  string
	start string
	steps map[string]*StepBuilder
	order []string
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		steps: make(map[string]*StepBuilder),
	}
}

// Start sets the entry step.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// Add creates a new step in the graph.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{id: id, builder: b}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build assembles and validates the graph.
// When no start step was set, the first added step is used.
func (b *Builder) Build() (*domain.Graph, error) {
	g := &domain.Graph{
		Name:  b.name,
		Start: b.start,
		Steps: make(map[string]domain.StepFunc, len(b.steps)),
		Edges: make(map[string]domain.Edge, len(b.steps)),
		Order: append([]string(nil), b.order...),
	}
	if g.Start == "" && len(b.order) > 0 {
		g.Start = b.order[0]
	}

	for _, id := range b.order {
		sb := b.steps[id]
		g.Steps[id] = sb.fn
		if sb.edge != nil {
			g.Edges[id] = *sb.edge
		}
	}

	if err := validator.ValidateGraph(g); err != nil {
		return nil, fmt.Errorf("invalid graph %q: %w", b.name, err)
	}
	return g, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
