package agent

import (
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// Step names used by the built-in graphs.
const (
	StepAssistant = "assistant"
	StepTools     = "tools"
)

// Graph names.
const (
	ConversationGraph = "conversation"
	ToolGraph         = "tools"
)

type graphOptions struct {
	instruction string
}

// GraphOption configures a built-in graph.
type GraphOption func(*graphOptions)

// WithInstruction replaces the default system prompt.
func WithInstruction(text string) GraphOption {
	return func(o *graphOptions) {
		if text != "" {
			o.instruction = text
		}
	}
}

// NewConversationGraph builds assistant -> end.
func NewConversationGraph(model ports.ChatModel, opts ...GraphOption) (*domain.Graph, error) {
	o := graphOptions{instruction: ConversationInstruction}
	for _, opt := range opts {
		opt(&o)
	}

	return dsl.New(ConversationGraph).
		Start(StepAssistant).
		Add(StepAssistant).Do(Assistant(model, o.instruction, nil)).Terminal().
		Build()
}

// NewToolGraph builds assistant -> (tools -> assistant)* -> end, binding
// every tool in reg to the model.
func NewToolGraph(model ports.ChatModel, reg *registry.Registry, opts ...GraphOption) (*domain.Graph, error) {
	o := graphOptions{instruction: ToolInstruction}
	for _, opt := range opts {
		opt(&o)
	}

	return dsl.New(ToolGraph).
		Start(StepAssistant).
		Add(StepAssistant).Do(Assistant(model, o.instruction, reg.Definitions())).Route(ShouldContinue, map[string]string{
		RouteTools: StepTools,
		RouteEnd:   domain.End,
	}).
		Add(StepTools).Do(ToolDispatch(reg)).Go(StepAssistant).
		Build()
}
