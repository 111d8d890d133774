package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// ChatModel produces the next assistant message.
//
// Complete receives the full message list (instruction first) and the tools
// the model may call. It returns exactly one assistant message. Errors are
// transport failures and abort the invocation; implementations must not retry.
type ChatModel interface {
	Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool) (domain.Message, error)
}

// ChatModelFunc adapts a plain function to ChatModel.
type ChatModelFunc func(ctx context.Context, messages []domain.Message, tools []domain.Tool) (domain.Message, error)

// Complete calls f.
func (f ChatModelFunc) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool) (domain.Message, error) {
	return f(ctx, messages, tools)
}
