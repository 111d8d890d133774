/*
Package runner implements the interactive loop around an agent.

It reads user turns through a pluggable IOHandler, cleans them with the input
sanitizer, invokes the agent on a single thread and hands the newly appended
messages back to the handler.

# Key Components

  - Runner: the read, invoke, print loop.
  - TextHandler: transcript-style terminal I/O.
  - JSONHandler: JSON Lines I/O for scripting.
  - SignalManager: Ctrl+C handling.

# Usage

	r := runner.New(a, "chat-session-001",
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
