package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/tendril/pkg/domain"
)

// Loader implements ports.PromptLoader using an in-memory map.
type Loader struct {
	prompts map[string]domain.Prompt
}

// NewLoader creates a Loader from prompt names mapped to instruction text.
func NewLoader(data map[string]string) *Loader {
	prompts := make(map[string]domain.Prompt, len(data))
	for name, text := range data {
		prompts[name] = domain.Prompt{Name: name, Instruction: text}
	}
	return &Loader{prompts: prompts}
}

// NewFromPrompts creates a Loader from fully specified prompts.
func NewFromPrompts(prompts ...domain.Prompt) (*Loader, error) {
	data := make(map[string]domain.Prompt, len(prompts))
	for _, p := range prompts {
		if p.Name == "" {
			return nil, fmt.Errorf("prompt missing name")
		}
		data[p.Name] = p
	}
	return &Loader{prompts: data}, nil
}

// GetPrompt returns the prompt registered under name.
func (l *Loader) GetPrompt(_ context.Context, name string) (domain.Prompt, error) {
	p, ok := l.prompts[name]
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: %s", domain.ErrPromptNotFound, name)
	}
	return p, nil
}

// ListPrompts returns all prompt names in lexical order.
func (l *Loader) ListPrompts(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.prompts))
	for k := range l.prompts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
