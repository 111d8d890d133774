// Package registry holds the tools an agent may call and executes them by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/schema"
)

// ErrDuplicateTool is returned when registering a name twice.
var ErrDuplicateTool = errors.New("tool already registered")

// Result is the outcome of a tool execution. Failed marks outputs that
// describe an error instead of a real answer.
type Result struct {
	Output string
	Failed bool
}

// Registry manages the available tools. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]domain.Tool
	order  []string
	logger *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger configures a logger for recovered tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]domain.Tool),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds tools to the registry. Names must be unique and handlers non-nil.
// The batch is all or nothing: if any tool is rejected, none is added.
func (r *Registry) Register(tools ...domain.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]bool, len(tools))
	for _, t := range tools {
		if t.Name == "" {
			return fmt.Errorf("tool name cannot be empty")
		}
		if t.Handler == nil {
			return fmt.Errorf("tool %s: handler is nil", t.Name)
		}
		if _, exists := r.tools[t.Name]; exists || batch[t.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
		}
		batch[t.Name] = true
	}

	for _, t := range tools {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tools ...domain.Tool) *Registry {
	if err := r.Register(tools...); err != nil {
		panic(err)
	}
	return r
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (domain.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Execute runs the named tool.
//
// The only error returned is domain.ErrUnknownTool. Invalid arguments,
// handler errors and panics are turned into a failed Result whose Output
// explains what went wrong, so the model can read it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	tool, ok := r.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := schema.Validate(tool.Parameters, args); err != nil {
		r.logger.Warn("Tool arguments rejected", "tool", name, "err", err)
		return Result{Output: fmt.Sprintf("Invalid arguments for %s: %v", name, err), Failed: true}, nil
	}

	out, err := r.call(ctx, tool, args)
	if err != nil {
		r.logger.Warn("Tool failed", "tool", name, "err", err)
		return Result{Output: fmt.Sprintf("Error running %s: %v", name, err), Failed: true}, nil
	}
	return Result{Output: out}, nil
}

func (r *Registry) call(ctx context.Context, tool domain.Tool, args map[string]any) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return tool.Handler(ctx, args)
}
