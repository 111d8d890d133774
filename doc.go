/*
Package tendril runs conversational agents as explicit state graphs over persistent, per-thread message histories.

An agent is a graph of steps. Each step reads the thread's history and returns new messages to append; edges pick
the next step, either fixed or through a pure router. Two graphs ship with the library (see package agent):

  - Conversation: assistant, then end.
  - Tool loop: assistant, then either the tool dispatcher (and back to the assistant) or end.

# Key Features

  - Append-only history: steps never rewrite earlier messages.
  - Thread isolation: every invocation is keyed by a mandatory thread ID and serialized per thread.
  - Durable execution: the state is checkpointed after every step (memory, file or Redis stores).
  - Bounded loops: the tool loop fails with domain.ErrToolLoopExceeded after a configurable number of rounds.

# Usage

	model := openai.New(os.Getenv("OPENAI_API_KEY"))

	reg, err := tools.NewRegistry(duckduckgo.New())
	if err != nil {
		log.Fatal(err)
	}

	graph, err := agent.NewToolGraph(model, reg)
	if err != nil {
		log.Fatal(err)
	}

	a, err := tendril.New(graph, tendril.WithStore(file.New("")))
	if err != nil {
		log.Fatal(err)
	}

	state, err := a.Invoke(ctx, "test_session", domain.UserMessage("What's the weather in Paris?"))
	if err != nil {
		log.Fatal(err)
	}
	last, _ := state.Last()
	fmt.Println(last.Content)
*/
package tendril
