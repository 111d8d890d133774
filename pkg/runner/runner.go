package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
)

// Invoker runs one turn on a thread and reports what it appended.
// *tendril.Agent implements it.
type Invoker interface {
	Turn(ctx context.Context, threadID string, seed ...domain.Message) (*domain.State, []domain.Message, error)
}

// Runner drives an Invoker from user input until EOF, an exit command or a signal.
type Runner struct {
	agent     Invoker
	threadID  string
	handler   IOHandler
	sanitizer *input.Sanitizer
	logger    *slog.Logger
	signals   bool
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures the IOHandler. The default is a TextHandler on stdio.
func WithHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithSanitizer configures the input sanitizer.
func WithSanitizer(s *input.Sanitizer) Option {
	return func(r *Runner) {
		r.sanitizer = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSignals makes Ctrl+C end the loop gracefully.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.signals = enabled
	}
}

// New creates a Runner bound to one thread.
func New(agent Invoker, threadID string, opts ...Option) *Runner {
	r := &Runner{
		agent:    agent,
		threadID: threadID,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(nil, nil)
	}
	if r.sanitizer == nil {
		r.sanitizer = input.NewSanitizer(0)
	}
	return r
}

// ThreadID returns the thread the runner writes to.
func (r *Runner) ThreadID() string {
	return r.threadID
}

// Run loops until the input ends. Rejected input is reported and skipped;
// invocation errors end the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.signals {
		sm := NewSignalManager(ctx)
		defer sm.Stop()
		ctx = sm.Context()
	}

	for {
		text, err := r.handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		clean, err := r.sanitizer.SanitizeMessage(text)
		if err != nil {
			if errors.Is(err, input.ErrEmptyInput) {
				continue
			}
			if nerr := r.handler.Notice(ctx, err); nerr != nil {
				return nerr
			}
			continue
		}
		if isExit(clean) {
			return nil
		}

		if err := r.Turn(ctx, clean); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Turn sends one user message and outputs what the agent appended.
func (r *Runner) Turn(ctx context.Context, text string) error {
	_, appended, err := r.agent.Turn(ctx, r.threadID, domain.UserMessage(text))
	if len(appended) > 0 {
		if oerr := r.handler.Output(ctx, appended); oerr != nil {
			return oerr
		}
	}
	if err != nil {
		r.logger.Error("Invocation failed", "thread_id", r.threadID, "err", err)
		return err
	}
	return nil
}

func isExit(s string) bool {
	switch strings.ToLower(s) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}
