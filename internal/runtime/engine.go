// Package runtime executes domain graphs step by step.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
)

// DefaultMaxRounds caps how often the start step may run in one invocation.
const DefaultMaxRounds = 10

// Checkpoint persists the state after each step.
type Checkpoint func(ctx context.Context, state *domain.State) error

// Engine runs a graph from its start step until an edge resolves to domain.End.
// It is stateless between runs and safe for concurrent use.
type Engine struct {
	graph     *domain.Graph
	maxRounds int
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxRounds sets the round cap. Zero or less disables it.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		e.maxRounds = n
	}
}

// NewEngine creates an engine for graph.
func NewEngine(graph *domain.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:     graph,
		maxRounds: DefaultMaxRounds,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph this engine executes.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// MaxRounds returns the configured round cap.
func (e *Engine) MaxRounds() int {
	return e.maxRounds
}

// Run executes the graph against state, appending every message the steps
// produce. checkpoint, when set, runs after each step.
//
// A round is one entry into the start step. Entering it more than MaxRounds
// times fails with a *LoopLimitError.
func (e *Engine) Run(ctx context.Context, state *domain.State, checkpoint Checkpoint) error {
	ctx = domain.ContextWithHooks(ctx, e.hooks)
	ctx = domain.ContextWithSessionID(ctx, state.SessionID)

	current := e.graph.Start
	rounds := 0

	for current != domain.End {
		if err := ctx.Err(); err != nil {
			return err
		}

		if current == e.graph.Start {
			rounds++
			if e.maxRounds > 0 && rounds > e.maxRounds {
				e.logger.Warn("Round cap reached", "thread_id", state.SessionID, "max_rounds", e.maxRounds)
				return &LoopLimitError{MaxRounds: e.maxRounds}
			}
		}

		appended, err := e.runStep(ctx, current, rounds, state)
		if err != nil {
			return err
		}

		if checkpoint != nil {
			if err := checkpoint(ctx, state); err != nil {
				return fmt.Errorf("checkpoint after step %s: %w", current, err)
			}
		}

		next, err := e.next(current, state)
		if err != nil {
			return err
		}
		e.logger.Debug("Transition",
			"thread_id", state.SessionID,
			"from", current,
			"to", next,
			"appended", appended,
		)
		current = next
	}
	return nil
}

func (e *Engine) runStep(ctx context.Context, name string, round int, state *domain.State) (int, error) {
	fn, ok := e.graph.Steps[name]
	if !ok || fn == nil {
		return 0, &StepError{Step: name, Err: domain.ErrStepNotFound}
	}

	e.emitStepEnter(ctx, state.SessionID, name, round)
	start := time.Now()

	// Steps see a copy so they can only contribute by returning messages.
	delta, err := fn(ctx, state.Clone())
	if err != nil {
		e.emitStepLeave(ctx, state.SessionID, name, round, 0, time.Since(start), err)
		e.logger.Debug("Step failed", "thread_id", state.SessionID, "step", name, "err", err)
		return 0, &StepError{Step: name, Err: err}
	}

	state.Append(delta...)
	e.emitStepLeave(ctx, state.SessionID, name, round, len(delta), time.Since(start), nil)
	return len(delta), nil
}
