package tendril

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/runtime"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/session"
)

// Version is the library release.
const Version = "0.4.0"

// DefaultMaxRounds is the number of assistant rounds allowed per invocation.
const DefaultMaxRounds = runtime.DefaultMaxRounds

// Agent is the high-level entry point of the library.
// It binds a graph to a thread store and runs one invocation per call,
// serialized per thread. Distinct threads run concurrently.
type Agent struct {
	engine   *runtime.Engine
	sessions *session.Manager

	store     ports.StateStore
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	hooks     domain.LifecycleHooks
	maxRounds int
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithStore sets the thread store. The default is an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(a *Agent) {
		a.store = store
	}
}

// WithLocker enables cross-process locking of threads.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Agent) {
		a.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(a *Agent) {
		a.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// WithMaxRounds caps the assistant rounds of one invocation.
func WithMaxRounds(n int) Option {
	return func(a *Agent) {
		a.maxRounds = n
	}
}

// New creates an Agent executing graph.
func New(graph *domain.Graph, opts ...Option) (*Agent, error) {
	if graph == nil {
		return nil, errors.New("graph is required")
	}

	a := &Agent{maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if graph.Name != "" {
		a.logger = a.logger.With("graph", graph.Name)
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker))
	}
	if a.lockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(a.lockTTL))
	}
	a.sessions = session.NewManager(a.store, sessionOpts...)

	a.engine = runtime.NewEngine(graph,
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
		runtime.WithMaxRounds(a.maxRounds),
	)
	return a, nil
}

// Invoke appends seed to the thread's history, runs the graph until it ends
// and returns the resulting state. The thread is created on first use.
//
// The state is checkpointed after every step, so a failed invocation keeps
// whatever was appended before the failure.
func (a *Agent) Invoke(ctx context.Context, threadID string, seed ...domain.Message) (*domain.State, error) {
	state, _, err := a.Turn(ctx, threadID, seed...)
	return state, err
}

// Turn is Invoke that also returns the messages this call appended, seed
// included. On error, appended holds what was persisted before the failure.
func (a *Agent) Turn(ctx context.Context, threadID string, seed ...domain.Message) (*domain.State, []domain.Message, error) {
	var (
		state  *domain.State
		before int
	)
	err := a.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		var err error
		state, err = a.sessions.LoadOrCreate(ctx, threadID)
		if err != nil {
			return err
		}
		before = len(state.Messages)

		state.Append(seed...)
		if err := a.sessions.Save(ctx, threadID, state); err != nil {
			return fmt.Errorf("failed to save input: %w", err)
		}

		a.logger.Debug("Invoke", "thread_id", threadID, "seed", len(seed), "history", len(state.Messages))
		return a.engine.Run(ctx, state, func(ctx context.Context, s *domain.State) error {
			return a.sessions.Save(ctx, threadID, s)
		})
	})
	if state == nil {
		return nil, nil, err
	}
	appended := append([]domain.Message(nil), state.Messages[before:]...)
	return state, appended, err
}

// History returns the stored state of a thread.
// Returns domain.ErrSessionNotFound for unknown threads.
func (a *Agent) History(ctx context.Context, threadID string) (*domain.State, error) {
	return a.sessions.Load(ctx, threadID)
}

// Reset deletes a thread. Deleting an unknown thread is not an error.
func (a *Agent) Reset(ctx context.Context, threadID string) error {
	return a.sessions.Delete(ctx, threadID)
}

// Threads lists the stored thread IDs.
func (a *Agent) Threads(ctx context.Context) ([]string, error) {
	return a.sessions.List(ctx)
}

// Graph returns the graph the agent executes.
func (a *Agent) Graph() *domain.Graph {
	return a.engine.Graph()
}

// MaxRounds returns the round cap of one invocation.
func (a *Agent) MaxRounds() int {
	return a.engine.MaxRounds()
}
