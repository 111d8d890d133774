package runtime

import (
	"context"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
)

func (e *Engine) emitStepEnter(ctx context.Context, sessionID, step string, round int) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter, SessionID: sessionID},
		Step:      step,
		Round:     round,
	})
}

func (e *Engine) emitStepLeave(ctx context.Context, sessionID, step string, round, appended int, d time.Duration, err error) {
	if e.hooks.OnStepLeave == nil {
		return
	}
	e.hooks.OnStepLeave(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepLeave, SessionID: sessionID},
		Step:      step,
		Round:     round,
		Appended:  appended,
		Duration:  d,
		Err:       err,
	})
}
