package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/internal/presentation/tui"
)

// Script is a scripted conversation replayed by the demo command.
type Script struct {
	ThreadID string
	Turns    []string
}

// DemoScript returns the scripted turns for mode.
func DemoScript(mode string) Script {
	if mode == config.ModeChat {
		return Script{
			ThreadID: "chat-session-001",
			Turns: []string{
				"I bought a charger",
				"It's not working, what should I do?",
			},
		}
	}
	return Script{
		ThreadID: "test_session",
		Turns: []string{
			"What's the weather like in Lagos today?",
			"Define the word 'ephemeral'.",
			"What's the latest news on AI advancements?",
			"Hello, good morning!",
		},
	}
}

// RunDemo replays the script for the app mode, printing each turn between
// rules. The first failing turn stops the demo.
func RunDemo(ctx context.Context, app *App, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	script := DemoScript(app.Mode)
	h := app.newHandler(nil, out, false, true)
	r := app.newRunner(script.ThreadID, h, false)

	for _, turn := range script.Turns {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintln(out, tui.Rule())
		if err := r.Turn(ctx, turn); err != nil {
			return fmt.Errorf("demo turn %q: %w", turn, err)
		}
	}
	fmt.Fprintln(out, tui.Rule())
	return nil
}
