package agent

import "github.com/aretw0/tendril/pkg/domain"

// Route labels produced by ShouldContinue.
const (
	RouteTools = "tools"
	RouteEnd   = domain.End
)

// ShouldContinue routes to the tools step when the last message is an
// assistant message requesting tools, and to the end otherwise.
// It depends on nothing but the last message.
func ShouldContinue(state *domain.State) string {
	last, ok := state.Last()
	if ok && last.HasToolCalls() {
		return RouteTools
	}
	return RouteEnd
}
