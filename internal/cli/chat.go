package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/runner"
	"github.com/google/uuid"
)

// ChatOptions configures an interactive session.
type ChatOptions struct {
	// ThreadID resumes a thread. Empty starts a new one.
	ThreadID string
	JSON     bool
	In       io.Reader
	Out      io.Writer
}

func (o ChatOptions) streams() (io.Reader, io.Writer) {
	in, out := o.In, o.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// NewThreadID returns a fresh thread identifier.
func NewThreadID() string {
	return uuid.NewString()
}

func (a *App) newHandler(in io.Reader, out io.Writer, jsonMode, echoUser bool) runner.IOHandler {
	if jsonMode {
		return runner.NewJSONHandler(in, out)
	}
	return runner.NewTextHandler(in, out,
		runner.WithTextHandlerRenderer(tui.RendererFor(out)),
		runner.WithEchoUser(echoUser),
	)
}

func (a *App) newRunner(threadID string, h runner.IOHandler, signals bool) *runner.Runner {
	return runner.New(a.Agent, threadID,
		runner.WithHandler(h),
		runner.WithSanitizer(a.Sanitizer),
		runner.WithLogger(a.Logger),
		runner.WithSignals(signals),
	)
}

// RunChat starts the REPL. It returns when the input ends, the user types
// exit, or an invocation fails.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	in, out := opts.streams()
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = NewThreadID()
	}

	if !opts.JSON {
		tui.PrintBanner(out, fmt.Sprintf("v%s · %s mode · thread %s", tendril.Version, app.Mode, threadID))
		fmt.Fprintln(out, "Type 'exit' to quit.")
	}
	app.Logger.Info("Session started", "thread_id", threadID, "mode", app.Mode)

	r := app.newRunner(threadID, app.newHandler(in, out, opts.JSON, false), true)
	return r.Run(ctx)
}

// Ask runs a single turn on a thread and prints the transcript of that turn.
func Ask(ctx context.Context, app *App, threadID, question string, out io.Writer, jsonMode bool) error {
	if out == nil {
		out = os.Stdout
	}
	if threadID == "" {
		threadID = NewThreadID()
	}
	clean, err := app.Sanitizer.SanitizeMessage(question)
	if err != nil {
		return err
	}
	r := app.newRunner(threadID, app.newHandler(strings.NewReader(""), out, jsonMode, false), false)
	return r.Turn(ctx, clean)
}
