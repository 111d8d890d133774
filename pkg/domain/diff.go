package domain

// StateDiff represents the changes between two snapshots of the same thread.
// It is serialized to JSON so clients can apply incremental updates.
type StateDiff struct {
	SessionID string `json:"session_id"`

	// Appended holds the messages added since the old snapshot.
	Appended []Message `json:"appended,omitempty"`

	// Metadata contains changed or added keys. Deleted keys map to "".
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, the whole newState is reported. Returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
		Appended:  diffMessages(oldState, newState),
		Metadata:  diffMetadata(oldState, newState),
	}
	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffMessages assumes append-only history. The result never aliases new.Messages.
func diffMessages(old, new *State) []Message {
	from := 0
	if old != nil {
		from = len(old.Messages)
	}
	if len(new.Messages) <= from {
		return nil
	}
	return append([]Message(nil), new.Messages[from:]...)
}

func diffMetadata(old, new *State) map[string]string {
	delta := make(map[string]string)
	var prev map[string]string
	if old != nil {
		prev = old.Metadata
	}
	for k, v := range new.Metadata {
		if pv, ok := prev[k]; !ok || pv != v {
			delta[k] = v
		}
	}
	for k := range prev {
		if _, ok := new.Metadata[k]; !ok {
			delta[k] = ""
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Appended) == 0 && len(d.Metadata) == 0
}
