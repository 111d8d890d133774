package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/testutils"
	httpadapter "github.com/aretw0/tendril/pkg/adapters/http"
	"github.com/aretw0/tendril/pkg/agent"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noSearch struct{}

func (noSearch) Search(context.Context, string, int) ([]ports.SearchResult, error) { return nil, nil }

func newServer(t *testing.T, model ports.ChatModel, opts ...tendril.Option) *httptest.Server {
	t.Helper()
	reg, err := tools.NewRegistry(noSearch{})
	require.NoError(t, err)
	graph, err := agent.NewToolGraph(model, reg)
	require.NoError(t, err)
	a, err := tendril.New(graph, opts...)
	require.NoError(t, err)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "tendril_step_visits_total 1\n")
	})
	h, err := httpadapter.NewHandler(a,
		httpadapter.WithTools(reg.Definitions()),
		httpadapter.WithMetricsHandler(metrics),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestLoadSpec(t *testing.T) {
	doc, err := httpadapter.LoadSpec()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/threads/{thread_id}/invoke"))
}

func TestInvoke_Greeting(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	resp, body := post(t, srv.URL+"/threads/t1/invoke", `{"input":"hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "t1", body["thread_id"])
	assert.Len(t, body["messages"], 2)
	assert.Len(t, body["appended"], 2)

	resp, body = post(t, srv.URL+"/threads/t1/invoke", `{"messages":[{"role":"user","content":"again"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Len(t, body["messages"], 4)
	assert.Len(t, body["appended"], 2)
}

func TestInvoke_ToolRound(t *testing.T) {
	model := testutils.NewScriptedModel(
		domain.AssistantMessage("", domain.ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "Paris"}}),
		domain.AssistantMessage("It is sunny."),
	)
	srv := newServer(t, model)

	resp, body := post(t, srv.URL+"/threads/w/invoke", `{"input":"Weather in Paris?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 4)
	toolMsg := msgs[2].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "c1", toolMsg["tool_call_id"])
}

func TestInvoke_RejectsInvalidBodies(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	cases := map[string]string{
		"unknown field":  `{"input":"hi","extra":true}`,
		"empty input":    `{"input":""}`,
		"assistant role": `{"messages":[{"role":"assistant","content":"hi"}]}`,
		"not json":       `hello`,
		"no input":       `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, out := post(t, srv.URL+"/threads/t/invoke", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestInvoke_MissingContentType(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/threads/t/invoke", strings.NewReader(`{"input":"hi"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoke_LoopCapIs508(t *testing.T) {
	loop := domain.AssistantMessage("", domain.ToolCall{ID: "x", Name: "get_weather", Args: map[string]any{"city": "Oslo"}})
	model := &testutils.ScriptedModel{Fallback: &loop}
	srv := newServer(t, model, tendril.WithMaxRounds(2))

	resp, body := post(t, srv.URL+"/threads/loop/invoke", `{"input":"forever"}`)
	assert.Equal(t, http.StatusLoopDetected, resp.StatusCode)
	assert.Equal(t, "tool_loop_exceeded", body["code"])
	assert.Contains(t, body["error"], "tool-loop exceeded")
}

func TestInvoke_ModelFailureIs502(t *testing.T) {
	model := &testutils.ScriptedModel{Err: errors.New("upstream down")}
	srv := newServer(t, model)

	resp, body := post(t, srv.URL+"/threads/t/invoke", `{"input":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "model_failed", body["code"])
}

func TestThreads_Lifecycle(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	resp, err := http.Get(srv.URL + "/threads/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	r, _ := post(t, srv.URL+"/threads/keep/invoke", `{"input":"hi"}`)
	require.Equal(t, http.StatusOK, r.StatusCode)

	resp, err = http.Get(srv.URL + "/threads")
	require.NoError(t, err)
	var list map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, []string{"keep"}, list["threads"])

	resp, err = http.Get(srv.URL + "/threads/keep")
	require.NoError(t, err)
	var state domain.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	resp.Body.Close()
	assert.Len(t, state.Messages, 2)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/threads/keep", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/threads/keep")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTools(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	resp, err := http.Get(srv.URL + "/tools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Tools []struct {
			Name       string         `json:"name"`
			Parameters map[string]any `json:"parameters"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	names := make([]string, 0, len(out.Tools))
	for _, tool := range out.Tools {
		names = append(names, tool.Name)
		assert.Equal(t, "object", tool.Parameters["type"])
	}
	assert.ElementsMatch(t, []string{"get_weather", "define_word", "web_search"}, names)
}

func TestGraphAndSpec(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	resp, err := http.Get(srv.URL + "/graph")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), "graph TD")
	assert.Contains(t, string(b), "assistant")

	resp, err = http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), "openapi: 3")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), "tendril_step_visits_total")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEvents_StreamDiffs(t *testing.T) {
	srv := newServer(t, testutils.EchoModel{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/threads/live/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: connected\n", line)

	r, _ := post(t, srv.URL+"/threads/live/invoke", `{"input":"hi"}`)
	require.Equal(t, http.StatusOK, r.StatusCode)

	var data string
	for data == "" {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
		}
	}
	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, "live", diff.SessionID)
	require.Len(t, diff.Appended, 2)
	assert.Equal(t, "echo: hi", diff.Appended[1].Content)
}
