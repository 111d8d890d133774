package tendril_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/agent"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
	"github.com/aretw0/tendril/pkg/ports"
)

// ExampleNew_conversation runs the plain conversation graph with a stand-in model.
func ExampleNew_conversation() {
	model := ports.ChatModelFunc(func(_ context.Context, msgs []domain.Message, _ []domain.Tool) (domain.Message, error) {
		last := msgs[len(msgs)-1]
		return domain.AssistantMessage("You said: " + last.Content), nil
	})

	graph, err := agent.NewConversationGraph(model)
	if err != nil {
		log.Fatal(err)
	}

	a, err := tendril.New(graph)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := a.Invoke(ctx, "chat-session-001", domain.UserMessage("I bought a charger")); err != nil {
		log.Fatal(err)
	}
	state, err := a.Invoke(ctx, "chat-session-001", domain.UserMessage("It's not working"))
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range state.Messages {
		fmt.Printf("%s: %s\n", m.Role, m.Content)
	}
	// Output:
	// user: I bought a charger
	// assistant: You said: I bought a charger
	// user: It's not working
	// assistant: You said: It's not working
}

// ExampleNew_dsl builds a custom graph with the fluent builder.
func ExampleNew_dsl() {
	shout := func(_ context.Context, s *domain.State) ([]domain.Message, error) {
		last, _ := s.Last()
		return []domain.Message{domain.AssistantMessage(strings.ToUpper(last.Content))}, nil
	}

	graph := dsl.New("shout").
		Add("shout").Do(shout).Terminal().
		MustBuild()

	a, err := tendril.New(graph)
	if err != nil {
		log.Fatal(err)
	}

	state, err := a.Invoke(context.Background(), "t1", domain.UserMessage("hello"))
	if err != nil {
		log.Fatal(err)
	}
	last, _ := state.Last()
	fmt.Println(last.Content)
	// Output: HELLO
}
