package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendril/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level. Failed steps and
// failed tools are logged as warnings.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "thread_id", e.SessionID, "step", e.Step, "round", e.Round)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "step_failed", "thread_id", e.SessionID, "step", e.Step, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "step_leave",
				"thread_id", e.SessionID,
				"step", e.Step,
				"appended", e.Appended,
				"duration", e.Duration,
			)
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.DebugContext(ctx, "tool_call", "thread_id", e.SessionID, "tool_name", e.ToolName, "call_id", e.CallID)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			if e.IsError {
				logger.WarnContext(ctx, "tool_failed", "thread_id", e.SessionID, "tool_name", e.ToolName, "output", e.Output)
				return
			}
			logger.DebugContext(ctx, "tool_return", "thread_id", e.SessionID, "tool_name", e.ToolName, "duration", e.Duration)
		},
	}
}
