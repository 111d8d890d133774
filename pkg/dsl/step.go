package dsl

import "github.com/aretw0/tendril/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	id      string
	fn      domain.StepFunc
	edge    *domain.Edge
	builder *Builder
}

// Do sets the step handler.
func (s *StepBuilder) Do(fn domain.StepFunc) *StepBuilder {
	s.fn = fn
	return s
}

// Go adds an unconditional edge to target. It returns the graph builder so
// the next step can be chained.
func (s *StepBuilder) Go(target string) *Builder {
	s.edge = &domain.Edge{To: target}
	return s.builder
}

// Route adds a conditional edge. The router's label is looked up in routes.
func (s *StepBuilder) Route(router domain.Router, routes map[string]string) *Builder {
	copied := make(map[string]string, len(routes))
	for k, v := range routes {
		copied[k] = v
	}
	s.edge = &domain.Edge{Router: router, Routes: copied}
	return s.builder
}

// Terminal ends the flow after this step.
func (s *StepBuilder) Terminal() *Builder {
	return s.Go(domain.End)
}
