package domain

import "context"

// End is the terminal marker. An edge that resolves to End stops execution.
const End = "__end__"

// StepFunc is a graph node. It reads the state and returns the messages to
// append to it. A step never edits existing messages.
type StepFunc func(ctx context.Context, state *State) ([]Message, error)

// Router picks the label of the next route given the current state.
// Routers must be pure.
type Router func(state *State) string

// Edge describes how control leaves a step: either a fixed successor (To) or
// a Router whose label is looked up in Routes.
type Edge struct {
	To     string
	Router Router
	Routes map[string]string
}

// Conditional reports whether the edge is routed at runtime.
func (e Edge) Conditional() bool {
	return e.Router != nil
}

// Targets lists every step the edge may lead to.
func (e Edge) Targets() []string {
	if !e.Conditional() {
		return []string{e.To}
	}
	out := make([]string, 0, len(e.Routes))
	for _, t := range e.Routes {
		out = append(out, t)
	}
	return out
}

// Graph is an explicit, executable state graph.
type Graph struct {
	Name  string
	Start string
	Steps map[string]StepFunc
	Edges map[string]Edge
	// Order keeps the declaration order of steps for stable rendering.
	Order []string
}
