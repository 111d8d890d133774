// Package loam loads instruction prompts from a Loam repository of Markdown
// documents. The frontmatter carries settings; the body is the instruction.
//
//	---
//	name: support
//	description: Customer support persona
//	temperature: 0.7
//	---
//	You are a helpful customer support representative...
package loam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/tendril/pkg/domain"
)

// Loader adapts a Loam repository to ports.PromptLoader.
type Loader struct {
	Repo *loam.TypedRepository[PromptMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[PromptMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only, strict Loam repository at dir.
func Open(dir string) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt directory: %w", err)
	}

	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[PromptMetadata](repo)), nil
}

// GetPrompt resolves a prompt by name. The name matches either the
// frontmatter "name" or the document file name without extension.
func (l *Loader) GetPrompt(ctx context.Context, name string) (domain.Prompt, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err == nil {
		return toPrompt(doc.ID, doc.Data, doc.Content)
	}

	// Fall back to scanning, for prompts whose name differs from their file.
	docs, listErr := l.Repo.List(ctx)
	if listErr != nil {
		return domain.Prompt{}, fmt.Errorf("loam list failed: %w", errors.Join(err, listErr))
	}
	for _, d := range docs {
		if promptName(d.ID, d.Data) == name {
			return toPrompt(d.ID, d.Data, d.Content)
		}
	}
	return domain.Prompt{}, fmt.Errorf("%w: %s", domain.ErrPromptNotFound, name)
}

// ListPrompts returns all prompt names in lexical order.
func (l *Loader) ListPrompts(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		name := promptName(d.ID, d.Data)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: prompt '%s' is defined in both '%s' and '%s'", name, prev, d.ID)
		}
		seen[name] = d.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func promptName(docID string, meta PromptMetadata) string {
	if meta.Name != "" {
		return meta.Name
	}
	return trimExtension(docID)
}

func toPrompt(docID string, meta PromptMetadata, content string) (domain.Prompt, error) {
	p := domain.Prompt{
		Name:        promptName(docID, meta),
		Description: meta.Description,
		Model:       meta.Model,
		Instruction: strings.TrimSpace(content),
	}
	if meta.Temperature != nil {
		t, err := parseTemperature(meta.Temperature)
		if err != nil {
			return domain.Prompt{}, fmt.Errorf("prompt %s: %w", p.Name, err)
		}
		p.Temperature = &t
	}
	return p, nil
}

func parseTemperature(v any) (float32, error) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid temperature %q: %w", t, err)
		}
		f = parsed
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid temperature %q: %w", t, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("invalid temperature type %T", v)
	}
	if f < 0 || f > 2 {
		return 0, fmt.Errorf("temperature %v out of range [0, 2]", f)
	}
	return float32(f), nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	return filepath.ToSlash(strings.TrimSuffix(id, ext))
}
