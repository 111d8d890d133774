package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/registry"
)

// ToolDispatch returns the step that executes the tool calls of the last
// assistant message, one after another in request order, and appends one tool
// message per call. An unknown tool name aborts the run.
func ToolDispatch(reg *registry.Registry) domain.StepFunc {
	return func(ctx context.Context, state *domain.State) ([]domain.Message, error) {
		last, ok := state.Last()
		if !ok || !last.HasToolCalls() {
			return nil, nil
		}

		hooks := domain.HooksFromContext(ctx)
		sessionID := domain.SessionIDFromContext(ctx)

		results := make([]domain.Message, 0, len(last.ToolCalls))
		for _, call := range last.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if hooks.OnToolCall != nil {
				hooks.OnToolCall(ctx, &domain.ToolEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolCall, SessionID: sessionID},
					CallID:    call.ID,
					ToolName:  call.Name,
					Input:     call.Args,
				})
			}

			start := time.Now()
			res, err := reg.Execute(ctx, call.Name, call.Args)
			if err != nil {
				return nil, fmt.Errorf("tool call %s: %w", call.ID, err)
			}

			if hooks.OnToolReturn != nil {
				hooks.OnToolReturn(ctx, &domain.ToolEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolReturn, SessionID: sessionID},
					CallID:    call.ID,
					ToolName:  call.Name,
					Input:     call.Args,
					Output:    res.Output,
					IsError:   res.Failed,
					Duration:  time.Since(start),
				})
			}

			results = append(results, domain.ToolMessage(call.ID, call.Name, res.Output))
		}
		return results, nil
	}
}
