package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	base := func(msgs ...Message) *State {
		s := NewState("sess-1")
		s.Append(msgs...)
		return s
	}

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantNil  bool
		appended []Message
		metadata map[string]string
	}{
		{
			name:     "Initial Load (Old is Nil)",
			old:      nil,
			new:      base(UserMessage("hi")),
			appended: []Message{UserMessage("hi")},
		},
		{
			name:    "No Changes",
			old:     base(UserMessage("hi")),
			new:     base(UserMessage("hi")),
			wantNil: true,
		},
		{
			name:     "Messages Appended",
			old:      base(UserMessage("hi")),
			new:      base(UserMessage("hi"), AssistantMessage("hello")),
			appended: []Message{AssistantMessage("hello")},
		},
		{
			name: "Metadata Added And Deleted",
			old: func() *State {
				s := base()
				s.Metadata["a"] = "1"
				return s
			}(),
			new: func() *State {
				s := base()
				s.Metadata["b"] = "2"
				return s
			}(),
			metadata: map[string]string{"a": "", "b": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "sess-1", got.SessionID)
			assert.Equal(t, tt.appended, got.Appended)
			assert.Equal(t, tt.metadata, got.Metadata)
		})
	}
}

func TestDiff_DoesNotAliasState(t *testing.T) {
	old := NewState("sess-1")
	old.Append(UserMessage("hi"))
	cur := old.Clone()
	cur.Append(AssistantMessage("hello"))

	diff := Diff(old, cur)
	require.NotNil(t, diff)
	diff.Appended[0].Content = "changed"
	assert.Equal(t, "hello", cur.Messages[1].Content)

	full := Diff(nil, cur)
	require.NotNil(t, full)
	full.Appended[0].Content = "changed"
	assert.Equal(t, "hi", cur.Messages[0].Content)
}

func TestDiffJSONSerialization(t *testing.T) {
	s1 := NewState("s")
	s2 := s1.Clone()
	s2.Append(AssistantMessage("", ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "Lagos"}}))

	diff := Diff(s1, s2)
	require.NotNil(t, diff)

	raw, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"metadata"`)
	assert.Contains(t, string(raw), `"tool_calls"`)
}
