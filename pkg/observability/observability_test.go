package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnStepEnter: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnStepEnter: func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnToolCall:  func(context.Context, *domain.ToolEvent) { calls = append(calls, "b-tool") },
	}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnStepEnter(context.Background(), &domain.StepEvent{})
	h.OnToolCall(context.Background(), &domain.ToolEvent{})

	assert.Equal(t, []string{"a", "b", "b-tool"}, calls)
	assert.Nil(t, h.OnStepLeave)
	assert.Nil(t, h.OnToolReturn)
}

func TestMetricsHooks(t *testing.T) {
	m := observability.NewMetrics()
	h := m.Hooks()
	ctx := context.Background()

	h.OnStepEnter(ctx, &domain.StepEvent{Step: "assistant"})
	h.OnStepEnter(ctx, &domain.StepEvent{Step: "assistant"})
	h.OnStepLeave(ctx, &domain.StepEvent{Step: "assistant", Duration: time.Millisecond, Err: errors.New("boom")})
	h.OnToolReturn(ctx, &domain.ToolEvent{ToolName: "get_weather", Duration: time.Millisecond})
	h.OnToolReturn(ctx, &domain.ToolEvent{ToolName: "get_weather", IsError: true})

	expected := `
# HELP tendril_tool_calls_total Total number of tool executions
# TYPE tendril_tool_calls_total counter
tendril_tool_calls_total{is_error="false",tool_name="get_weather"} 1
tendril_tool_calls_total{is_error="true",tool_name="get_weather"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "tendril_tool_calls_total"))

	visits := `
# HELP tendril_step_visits_total Total number of graph step executions
# TYPE tendril_step_visits_total counter
tendril_step_visits_total{step="assistant"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(visits), "tendril_step_visits_total"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tendril_step_errors_total{step="assistant"} 1`)
}

func TestLoggingHooks(t *testing.T) {
	buf := &bytes.Buffer{}
	h := observability.LoggingHooks(logging.NewWithWriter(buf, slog.LevelDebug, false))
	ctx := context.Background()

	h.OnStepEnter(ctx, &domain.StepEvent{EventBase: domain.EventBase{SessionID: "t1"}, Step: "tools", Round: 1})
	h.OnToolReturn(ctx, &domain.ToolEvent{ToolName: "web_search", IsError: true, Output: "Error during web search: timeout"})

	out := buf.String()
	assert.Contains(t, out, "step_enter")
	assert.Contains(t, out, "thread_id=t1")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "tool_failed")
}
