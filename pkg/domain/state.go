package domain

import "time"

// State is the persisted conversation of one thread.
//
// Messages only ever grow: steps return new messages and the engine appends
// them. The instruction message is not stored here; assistant steps prepend it
// when reading.
type State struct {
	SessionID string            `json:"session_id"`
	Messages  []Message         `json:"messages"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewState creates an empty state for the given session.
func NewState(sessionID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		Messages:  []Message{},
		Metadata:  make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages to the end of the history.
func (s *State) Append(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	for _, m := range msgs {
		s.Messages = append(s.Messages, m.clone())
	}
	s.UpdatedAt = time.Now().UTC()
}

// Last returns the most recent message, if any.
func (s *State) Last() (Message, bool) {
	if s == nil || len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.clone()
	}
	out.Metadata = make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		out.Metadata[k] = v
	}
	return &out
}
