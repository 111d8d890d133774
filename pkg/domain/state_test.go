package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_AppendAndLast(t *testing.T) {
	s := NewState("t1")
	_, ok := s.Last()
	assert.False(t, ok)

	s.Append(UserMessage("hello"), AssistantMessage("hi there"))
	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Len(t, s.Messages, 2)
}

func TestState_CloneIsDeep(t *testing.T) {
	s := NewState("t1")
	s.Append(AssistantMessage("", ToolCall{ID: "1", Name: "define_word", Args: map[string]any{"word": "ephemeral"}}))
	s.Metadata["k"] = "v"

	c := s.Clone()
	c.Messages[0].ToolCalls[0].Args["word"] = "changed"
	c.Metadata["k"] = "other"
	c.Append(UserMessage("more"))

	assert.Equal(t, "ephemeral", s.Messages[0].ToolCalls[0].Args["word"])
	assert.Equal(t, "v", s.Metadata["k"])
	assert.Len(t, s.Messages, 1)
}

func TestMessage_HasToolCalls(t *testing.T) {
	assert.True(t, AssistantMessage("", ToolCall{Name: "x"}).HasToolCalls())
	assert.False(t, AssistantMessage("done").HasToolCalls())
	// Only assistant messages can request tools.
	assert.False(t, Message{Role: RoleUser, ToolCalls: []ToolCall{{Name: "x"}}}.HasToolCalls())
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("robot").Valid())
}
