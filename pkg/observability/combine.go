package observability

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// Combine returns hooks that call every non-nil hook of each set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var (
		stepEnter  []func(context.Context, *domain.StepEvent)
		stepLeave  []func(context.Context, *domain.StepEvent)
		toolCall   []func(context.Context, *domain.ToolEvent)
		toolReturn []func(context.Context, *domain.ToolEvent)
	)
	for _, s := range sets {
		if s.OnStepEnter != nil {
			stepEnter = append(stepEnter, s.OnStepEnter)
		}
		if s.OnStepLeave != nil {
			stepLeave = append(stepLeave, s.OnStepLeave)
		}
		if s.OnToolCall != nil {
			toolCall = append(toolCall, s.OnToolCall)
		}
		if s.OnToolReturn != nil {
			toolReturn = append(toolReturn, s.OnToolReturn)
		}
	}

	var out domain.LifecycleHooks
	if len(stepEnter) > 0 {
		out.OnStepEnter = fanOut(stepEnter)
	}
	if len(stepLeave) > 0 {
		out.OnStepLeave = fanOut(stepLeave)
	}
	if len(toolCall) > 0 {
		out.OnToolCall = fanOut(toolCall)
	}
	if len(toolReturn) > 0 {
		out.OnToolReturn = fanOut(toolReturn)
	}
	return out
}

func fanOut[E any](fns []func(context.Context, E)) func(context.Context, E) {
	return func(ctx context.Context, e E) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
