package agent

import (
	"context"
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Assistant returns the step that asks model for the next reply.
//
// The instruction is prepended at read time and never stored. The step
// appends exactly one assistant message; model errors abort the run and
// match domain.ErrModelFailed.
func Assistant(model ports.ChatModel, instruction string, tools []domain.Tool) domain.StepFunc {
	return func(ctx context.Context, state *domain.State) ([]domain.Message, error) {
		messages := make([]domain.Message, 0, len(state.Messages)+1)
		if instruction != "" {
			messages = append(messages, domain.SystemMessage(instruction))
		}
		messages = append(messages, state.Messages...)

		reply, err := model.Complete(ctx, messages, tools)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrModelFailed, err)
		}
		reply.Role = domain.RoleAssistant
		reply.ToolCallID = ""
		return []domain.Message{reply}, nil
	}
}
