package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// PromptLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.PromptLoader.
// setupData maps prompt names to the instruction text the loader is expected to return.
func PromptLoaderContractTest(t *testing.T, loader ports.PromptLoader, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetPrompt_Success", func(t *testing.T) {
		for name, want := range setupData {
			p, err := loader.GetPrompt(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting prompt %s: %v", name, err)
			}
			if p.Name != name {
				t.Errorf("name mismatch: got %q, want %q", p.Name, name)
			}
			if p.Instruction != want {
				t.Errorf("instruction mismatch for %s. got %q, want %q", name, p.Instruction, want)
			}
		}
	})

	t.Run("GetPrompt_NotFound", func(t *testing.T) {
		_, err := loader.GetPrompt(ctx, "non-existent-prompt")
		if !errors.Is(err, domain.ErrPromptNotFound) {
			t.Errorf("expected ErrPromptNotFound, got %v", err)
		}
	})

	t.Run("ListPrompts", func(t *testing.T) {
		names, err := loader.ListPrompts(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing prompts: %v", err)
		}
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			seen[n] = true
		}
		for name := range setupData {
			if !seen[name] {
				t.Errorf("expected %s in list, got %v", name, names)
			}
		}
	})
}
