package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// PromptLoader resolves named instruction prompts.
// This allows prompts to live outside the binary (Loam, FS, Memory).
type PromptLoader interface {
	// GetPrompt returns the prompt with the given name.
	// Returns domain.ErrPromptNotFound if it does not exist.
	GetPrompt(ctx context.Context, name string) (domain.Prompt, error)

	// ListPrompts returns the names of all available prompts.
	ListPrompts(ctx context.Context) ([]string, error)
}
