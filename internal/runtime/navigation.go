package runtime

import (
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
)

// next resolves the edge leaving step.
func (e *Engine) next(step string, state *domain.State) (string, error) {
	edge, ok := e.graph.Edges[step]
	if !ok {
		// A step without edges is a sink.
		return domain.End, nil
	}
	if !edge.Conditional() {
		if edge.To == "" {
			return domain.End, nil
		}
		return edge.To, nil
	}

	label := edge.Router(state)
	target, ok := edge.Routes[label]
	if !ok {
		return "", &StepError{Step: step, Err: fmt.Errorf("%w: %q", domain.ErrRouteNotFound, label)}
	}
	return target, nil
}
