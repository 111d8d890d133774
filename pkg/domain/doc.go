/*
Package domain contains the core models of the Tendril agent runtime.

It defines the conversation primitives (Message, ToolCall, State), the shape of
an executable graph (Graph, StepFunc, Edge) and the lifecycle events emitted
while a graph runs. The package is kept pure and free of I/O, following
Hexagonal Architecture principles; adapters live under pkg/adapters.

# Key Entities

  - Message: one entry of a conversation (system, user, assistant or tool).
  - State: the append-only message history owned by a single thread.
  - Tool: a named capability the model may request, with its parameter schema.
  - Graph: named steps plus the edges that connect them, ending at End.
*/
package domain
