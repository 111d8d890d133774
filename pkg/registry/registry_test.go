package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/registry"
	"github.com/aretw0/tendril/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string, fn domain.ToolFunc) domain.Tool {
	return domain.Tool{
		Name:        name,
		Description: "test tool",
		Parameters:  schema.Schema{schema.Required("text", schema.String(), "")},
		Handler:     fn,
	}
}

func TestRegistry_Execute(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, r.Register(echoTool("echo", func(_ context.Context, args map[string]any) (string, error) {
		return args["text"].(string), nil
	})))

	res, err := r.Execute(context.Background(), "echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, registry.Result{Output: "hi"}, res)
}

func TestRegistry_UnknownToolIsFatal(t *testing.T) {
	r := registry.NewRegistry()
	_, err := r.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestRegistry_FailuresBecomeText(t *testing.T) {
	r := registry.NewRegistry()
	r.MustRegister(
		echoTool("fails", func(context.Context, map[string]any) (string, error) {
			return "", errors.New("backend unavailable")
		}),
		echoTool("panics", func(context.Context, map[string]any) (string, error) {
			panic("nil map")
		}),
	)
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"handler error", "fails", map[string]any{"text": "x"}, "Error running fails: backend unavailable"},
		{"panic", "panics", map[string]any{"text": "x"}, "Error running panics: panic: nil map"},
		{"invalid args", "fails", map[string]any{"text": 3}, "Invalid arguments for fails"},
		{"missing args", "fails", nil, "Invalid arguments for fails"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(ctx, tt.tool, tt.args)
			require.NoError(t, err)
			assert.True(t, res.Failed)
			assert.Contains(t, res.Output, tt.want)
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	r := registry.NewRegistry()
	noop := func(context.Context, map[string]any) (string, error) { return "", nil }

	require.NoError(t, r.Register(echoTool("b", noop), echoTool("a", noop)))
	assert.ErrorIs(t, r.Register(echoTool("a", noop)), registry.ErrDuplicateTool)
	assert.Error(t, r.Register(domain.Tool{Name: "nil-handler"}))
	assert.Error(t, r.Register(echoTool("", noop)))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name, "definitions keep registration order")
	assert.Equal(t, "a", defs[1].Name)

	_, ok := r.Lookup("a")
	assert.True(t, ok)
}

func TestRegistry_RegisterBatchIsAllOrNothing(t *testing.T) {
	r := registry.NewRegistry()
	noop := func(context.Context, map[string]any) (string, error) { return "", nil }

	err := r.Register(echoTool("first", noop), domain.Tool{Name: "broken"})
	require.Error(t, err)
	assert.ErrorIs(t, r.Register(echoTool("dup", noop), echoTool("dup", noop)), registry.ErrDuplicateTool)

	assert.Empty(t, r.Definitions())
	_, ok := r.Lookup("first")
	assert.False(t, ok)

	require.NoError(t, r.Register(echoTool("first", noop)), "a rejected batch leaves its names free")
}
