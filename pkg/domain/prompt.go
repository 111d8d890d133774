package domain

// Prompt is a named instruction message with optional model settings.
type Prompt struct {
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
	Model       string   `json:"model,omitempty" mapstructure:"model"`
	Temperature *float32 `json:"temperature,omitempty" mapstructure:"temperature"`
	Instruction string   `json:"instruction" mapstructure:"-"`
}

// Message returns the prompt as a system message.
func (p Prompt) Message() Message {
	return SystemMessage(p.Instruction)
}
