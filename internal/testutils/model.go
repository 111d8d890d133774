package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
)

// Call records one request received by a ScriptedModel.
type Call struct {
	Messages []domain.Message
	Tools    []domain.Tool
}

// ScriptedModel is a ports.ChatModel that replays canned replies in order.
// Once the script runs out it keeps returning Fallback, or an error when
// Fallback is nil.
type ScriptedModel struct {
	mu       sync.Mutex
	Replies  []domain.Message
	Fallback *domain.Message
	Err      error
	Calls    []Call
}

// NewScriptedModel returns a model answering with replies, in order.
func NewScriptedModel(replies ...domain.Message) *ScriptedModel {
	return &ScriptedModel{Replies: replies}
}

// Complete implements ports.ChatModel.
func (m *ScriptedModel) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool) (domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, Call{
		Messages: append([]domain.Message(nil), messages...),
		Tools:    tools,
	})
	if m.Err != nil {
		return domain.Message{}, m.Err
	}
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	if len(m.Replies) == 0 {
		if m.Fallback != nil {
			return *m.Fallback, nil
		}
		return domain.Message{}, fmt.Errorf("scripted model: no reply left for call %d", len(m.Calls))
	}
	reply := m.Replies[0]
	m.Replies = m.Replies[1:]
	return reply, nil
}

// CallCount returns how many times Complete was invoked.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// EchoModel answers every conversation with "echo: <last user message>".
type EchoModel struct{}

// Complete implements ports.ChatModel.
func (EchoModel) Complete(_ context.Context, messages []domain.Message, _ []domain.Tool) (domain.Message, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return domain.AssistantMessage("echo: " + messages[i].Content), nil
		}
	}
	return domain.AssistantMessage("echo:"), nil
}
