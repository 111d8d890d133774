// Package openai adapts the OpenAI chat completions API to ports.ChatModel.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = openai.GPT4oMini

// ErrEmptyResponse is returned when the API answers without choices.
var ErrEmptyResponse = errors.New("openai: response has no choices")

// Model implements ports.ChatModel on top of go-openai.
// It never retries: collaborator failures surface to the caller.
type Model struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

type options struct {
	model       string
	temperature float32
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// Option configures the Model.
type Option func(*options)

// WithModel sets the model name (e.g. "gpt-4o-mini").
func WithModel(name string) Option {
	return func(o *options) {
		if name != "" {
			o.model = name
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger configures a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a Model authenticated with apiKey.
func New(apiKey string, opts ...Option) *Model {
	o := options{
		model: DefaultModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = o.httpClient
	if o.baseURL != "" {
		config.BaseURL = o.baseURL
	}

	return &Model{
		client:      openai.NewClientWithConfig(config),
		model:       o.model,
		temperature: o.temperature,
		logger:      o.logger,
	}
}

// Name returns the configured model name.
func (m *Model) Name() string {
	return m.model
}

// Complete sends the conversation and returns the assistant reply.
func (m *Model) Complete(ctx context.Context, messages []domain.Message, tools []domain.Tool) (domain.Message, error) {
	apiMessages, err := toAPIMessages(messages)
	if err != nil {
		return domain.Message{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    apiMessages,
		Tools:       toAPITools(tools),
		Temperature: wireTemperature(m.temperature),
	}

	start := time.Now()
	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Message{}, fmt.Errorf("openai completion: %w", err)
	}
	m.logger.Debug("Model call finished",
		"model", m.model,
		"messages", len(messages),
		"tools", len(tools),
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens,
	)

	if len(resp.Choices) == 0 {
		return domain.Message{}, ErrEmptyResponse
	}
	return fromAPIMessage(resp.Choices[0].Message), nil
}

// wireTemperature keeps an explicit zero on the wire: the request field is
// omitempty, so 0 would fall back to the API default of 1.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func toAPIMessages(messages []domain.Message) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case domain.RoleTool:
			role = openai.ChatMessageRoleTool
		}

		var calls []openai.ToolCall
		for _, tc := range msg.ToolCalls {
			args, err := json.Marshal(tc.Args)
			if err != nil {
				return nil, fmt.Errorf("encode arguments of %s: %w", tc.Name, err)
			}
			calls = append(calls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}

		content := msg.Content
		// Tool messages must carry a non-empty content.
		if role == openai.ChatMessageRoleTool && content == "" {
			content = "{}"
		}

		out[i] = openai.ChatCompletionMessage{
			Role:       role,
			Content:    content,
			ToolCalls:  calls,
			ToolCallID: msg.ToolCallID,
		}
	}
	return out, nil
}

func toAPITools(tools []domain.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, len(tools))
	for i, t := range tools {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters.JSONSchema(),
			},
		}
	}
	return out
}

func fromAPIMessage(msg openai.ChatCompletionMessage) domain.Message {
	out := domain.Message{Role: domain.RoleAssistant, Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: decodeArguments(tc.Function.Arguments),
		})
	}
	return out
}

// decodeArguments parses the JSON argument string. Malformed input is kept
// under "_raw" so validation reports it back to the model as text.
func decodeArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"_raw": raw}
	}
	return args
}
