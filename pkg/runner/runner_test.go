package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
	"github.com/aretw0/tendril/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent answers every user message with a tool call, its result and a reply.
type fakeAgent struct {
	states map[string]*domain.State
	err    error
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{states: make(map[string]*domain.State)}
}

func (f *fakeAgent) Turn(_ context.Context, id string, seed ...domain.Message) (*domain.State, []domain.Message, error) {
	s, ok := f.states[id]
	if !ok {
		s = domain.NewState(id)
		f.states[id] = s
	}
	before := len(s.Messages)
	s.Append(seed...)
	if f.err == nil {
		s.Append(
			domain.AssistantMessage("", domain.ToolCall{ID: "1", Name: "web_search"}),
			domain.ToolMessage("1", "web_search", strings.Repeat("x", 150)),
			domain.AssistantMessage("done: "+seed[0].Content),
		)
	}
	return s.Clone(), append([]domain.Message(nil), s.Messages[before:]...), f.err
}

func TestRunner_TextTranscript(t *testing.T) {
	agent := newFakeAgent()
	in := strings.NewReader("first\n\nsecond\nexit\nnever\n")
	out := &bytes.Buffer{}

	r := runner.New(agent, "t1", runner.WithHandler(runner.NewTextHandler(in, out)))
	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "🤖 Agent: [Calling tool: web_search]")
	assert.Contains(t, got, "🔧 Tool Result: "+strings.Repeat("x", 100)+"...\n")
	assert.Contains(t, got, "🤖 Agent: done: first")
	assert.Contains(t, got, "🤖 Agent: done: second")
	assert.NotContains(t, got, "User:")
	assert.NotContains(t, got, "never")

	// Two turns of four messages each, blank line skipped.
	assert.Len(t, agent.states["t1"].Messages, 8)
	// The second turn only prints its own messages.
	assert.Equal(t, 1, strings.Count(got, "done: first"))
}

func TestRunner_EchoUser(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(strings.NewReader("hello"), out, runner.WithEchoUser(true))
	require.NoError(t, runner.New(newFakeAgent(), "t", runner.WithHandler(h)).Run(context.Background()))
	assert.Contains(t, out.String(), "👤 User: hello")
}

func TestRunner_RejectedInputIsReported(t *testing.T) {
	agent := newFakeAgent()
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Repeat("a", 20) + "\nok\n")

	r := runner.New(agent, "t",
		runner.WithHandler(runner.NewTextHandler(in, out)),
		runner.WithSanitizer(input.NewSanitizer(10)),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), input.ErrInputTooLarge.Error())
	assert.Len(t, agent.states["t"].Messages, 4)
}

func TestRunner_InvokeErrorStopsLoop(t *testing.T) {
	agent := newFakeAgent()
	agent.err = domain.ErrToolLoopExceeded

	r := runner.New(agent, "t", runner.WithHandler(runner.NewTextHandler(strings.NewReader("hi\nagain\n"), &bytes.Buffer{})))
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrToolLoopExceeded)
	assert.Len(t, agent.states["t"].Messages, 1)
}

func TestRunner_CancelledContextEndsQuietly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(newFakeAgent(), "t", runner.WithHandler(runner.NewJSONHandler(strings.NewReader("hi\n"), &bytes.Buffer{})))
	assert.NoError(t, r.Run(ctx))
}

func TestJSONHandler(t *testing.T) {
	agent := newFakeAgent()
	in := strings.NewReader(`"plain string"` + "\n" + `{"input":"object form"}` + "\nraw text\n")
	out := &bytes.Buffer{}

	r := runner.New(agent, "j", runner.WithHandler(runner.NewJSONHandler(in, out)))
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"content":"plain string"`)
	assert.Contains(t, lines[1], `"content":"object form"`)
	assert.Contains(t, lines[2], `"content":"raw text"`)
}

func TestJSONHandler_Notice(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewJSONHandler(strings.NewReader(""), out)
	require.NoError(t, h.Notice(context.Background(), errors.New("bad input")))
	assert.JSONEq(t, `{"error":"bad input"}`, out.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", runner.Preview("short", 100))
	assert.Equal(t, "ab...", runner.Preview("abc", 2))
	assert.Equal(t, "héllo", runner.Preview("héllo", 5))
}
