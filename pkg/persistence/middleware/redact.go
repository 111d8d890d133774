package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// Common patterns for NewRedactionMiddleware.
var (
	EmailPattern      = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	CardNumberPattern = `\b(?:\d[ -]?){13,16}\b`
)

type redactionMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware masks text matching any pattern in message content
// and tool arguments before the state reaches the store. The caller's state
// is left untouched; what was masked cannot be loaded back.
func NewRedactionMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	masked := state.Clone()
	for i := range masked.Messages {
		msg := &masked.Messages[i]
		msg.Content = m.mask(msg.Content)
		for j := range msg.ToolCalls {
			for k, v := range msg.ToolCalls[j].Args {
				if s, ok := v.(string); ok {
					msg.ToolCalls[j].Args[k] = m.mask(s)
				}
			}
		}
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
