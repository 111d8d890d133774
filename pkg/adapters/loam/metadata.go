package loam

// PromptMetadata is the frontmatter of a prompt document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type PromptMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Model       string `json:"model" mapstructure:"model"`
	// Temperature stays untyped: strict mode yields json.Number, YAML yields float64.
	Temperature any `json:"temperature,omitempty" mapstructure:"temperature"`
}
