package runner

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text and JSON modes.
type IOHandler interface {
	// Input reads the next user turn. io.EOF ends the session.
	Input(ctx context.Context) (string, error)

	// Output presents the messages appended by one invocation.
	Output(ctx context.Context, appended []domain.Message) error

	// Notice reports a recoverable problem, such as rejected input.
	Notice(ctx context.Context, err error) error
}

// ContentRenderer transforms assistant content before it is printed.
// This allows markdown rendering without coupling the core package.
type ContentRenderer func(string) (string, error)
