/*
Package dsl provides a fluent builder for Tendril graphs.

Graphs are declared in Go: each step gets a handler and an outgoing edge,
either fixed or routed. Build validates the result before returning it.

Example usage:

	g, err := dsl.New("tool-loop").
		Start("assistant").
		Add("assistant").Do(assistant).Route(agent.ShouldContinue, map[string]string{
			agent.RouteTools: "tools",
			agent.RouteEnd:   domain.End,
		}).
		Add("tools").Do(dispatch).Go("assistant").
		Build()
*/
package dsl
