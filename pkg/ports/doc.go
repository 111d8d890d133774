/*
Package ports defines the driven ports (interfaces) of the Tendril runtime.

These interfaces decouple the agent from its collaborators, so the same graph
can run against different model providers, search backends and storage.

# Key Interfaces

  - ChatModel: produces the next assistant message for a conversation.
  - Searcher: answers web search queries for the web_search tool.
  - StateStore: persists and loads per-thread conversation State.
  - DistributedLocker: serializes access to a thread across replicas.
  - PromptLoader: resolves named instruction prompts (e.g. from Loam or Memory).
*/
package ports
