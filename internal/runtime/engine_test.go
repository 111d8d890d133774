package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tendril/internal/runtime"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func say(text string) domain.StepFunc {
	return func(context.Context, *domain.State) ([]domain.Message, error) {
		return []domain.Message{domain.AssistantMessage(text)}, nil
	}
}

// loopGraph keeps routing to "again" until the history reaches stopAt messages.
func loopGraph(t *testing.T, stopAt int) *domain.Graph {
	t.Helper()
	router := func(s *domain.State) string {
		if len(s.Messages) >= stopAt {
			return "stop"
		}
		return "again"
	}
	return dsl.New("loop").
		Add("think").Do(say("thinking")).Route(router, map[string]string{"again": "act", "stop": domain.End}).
		Add("act").Do(say("acting")).Go("think").
		MustBuild()
}

func TestEngine_RunsUntilEnd(t *testing.T) {
	engine := runtime.NewEngine(loopGraph(t, 5))
	state := domain.NewState("t1")

	require.NoError(t, engine.Run(context.Background(), state, nil))

	var got []string
	for _, m := range state.Messages {
		got = append(got, m.Content)
	}
	assert.Equal(t, []string{"thinking", "acting", "thinking", "acting", "thinking"}, got)
}

func TestEngine_CheckpointsEveryStep(t *testing.T) {
	engine := runtime.NewEngine(loopGraph(t, 3))
	state := domain.NewState("t1")

	var sizes []int
	err := engine.Run(context.Background(), state, func(_ context.Context, s *domain.State) error {
		sizes = append(sizes, len(s.Messages))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, sizes)
}

func TestEngine_CheckpointFailureAborts(t *testing.T) {
	engine := runtime.NewEngine(loopGraph(t, 3))
	boom := errors.New("disk full")

	err := engine.Run(context.Background(), domain.NewState("t1"), func(context.Context, *domain.State) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "checkpoint after step think")
}

func TestEngine_RoundCap(t *testing.T) {
	never := 1 << 30
	engine := runtime.NewEngine(loopGraph(t, never), runtime.WithMaxRounds(3))
	state := domain.NewState("t1")

	err := engine.Run(context.Background(), state, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolLoopExceeded)

	var limit *runtime.LoopLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 3, limit.MaxRounds)
	// Three full rounds ran before the fourth entry was refused.
	assert.Len(t, state.Messages, 6)
}

func TestEngine_StepErrorIsWrapped(t *testing.T) {
	boom := errors.New("model unreachable")
	g := dsl.New("fail").
		Add("assistant").Do(func(context.Context, *domain.State) ([]domain.Message, error) {
		return nil, boom
	}).Terminal().
		MustBuild()

	state := domain.NewState("t1")
	err := runtime.NewEngine(g).Run(context.Background(), state, nil)

	var stepErr *runtime.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "assistant", stepErr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, state.Messages)
}

func TestEngine_StepsCannotRewriteHistory(t *testing.T) {
	g := dsl.New("tamper").
		Add("assistant").Do(func(_ context.Context, s *domain.State) ([]domain.Message, error) {
		s.Messages[0].Content = "rewritten"
		return []domain.Message{domain.AssistantMessage("ok")}, nil
	}).Terminal().
		MustBuild()

	state := domain.NewState("t1")
	state.Append(domain.UserMessage("original"))
	require.NoError(t, runtime.NewEngine(g).Run(context.Background(), state, nil))

	assert.Equal(t, "original", state.Messages[0].Content)
	assert.Len(t, state.Messages, 2)
}

func TestEngine_UnknownRouteLabel(t *testing.T) {
	g := &domain.Graph{
		Start: "a",
		Steps: map[string]domain.StepFunc{"a": say("x")},
		Edges: map[string]domain.Edge{"a": {
			Router: func(*domain.State) string { return "sideways" },
			Routes: map[string]string{"stop": domain.End},
		}},
	}
	err := runtime.NewEngine(g).Run(context.Background(), domain.NewState("t"), nil)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestEngine_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runtime.NewEngine(loopGraph(t, 3)).Run(ctx, domain.NewState("t"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
