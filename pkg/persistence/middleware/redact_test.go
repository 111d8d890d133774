package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactionMiddleware(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewRedactionMiddleware([]string{middleware.EmailPattern, middleware.CardNumberPattern})
	require.NoError(t, err)
	store := mw(underlying)
	ctx := context.Background()

	state := domain.NewState("s")
	state.Append(
		domain.UserMessage("Mail me at jane.doe@example.com, card 4111 1111 1111 1111"),
		domain.AssistantMessage("", domain.ToolCall{ID: "1", Name: "web_search", Args: map[string]any{"query": "jane.doe@example.com", "n": 3}}),
	)
	require.NoError(t, store.Save(ctx, "s", state))

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "Mail me at ***, card ***", loaded.Messages[0].Content)
	assert.Equal(t, "***", loaded.Messages[1].ToolCalls[0].Args["query"])
	assert.Equal(t, 3, loaded.Messages[1].ToolCalls[0].Args["n"])

	// The caller's state is untouched.
	assert.Contains(t, state.Messages[0].Content, "jane.doe@example.com")
}

func TestRedactionMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactionMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	redact, err := middleware.NewRedactionMiddleware([]string{"secret"})
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, redact, encrypt)
	ctx := context.Background()

	state := domain.NewState("c")
	state.Append(domain.UserMessage("my secret"))
	require.NoError(t, store.Save(ctx, "c", state))

	raw, err := underlying.Load(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, raw.Messages)

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "my ***", loaded.Messages[0].Content)
}
